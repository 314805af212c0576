package crmdto

// InteractionCreateInput đầu vào tạo tương tác.
// Date rỗng (0) sẽ được set thành thời điểm hiện tại.
type InteractionCreateInput struct {
	CustomerID string `json:"customerId" validate:"required" transform:"str_objectid"`
	Type       string `json:"type" validate:"required,oneof=email call meeting note other"`
	Summary    string `json:"summary" validate:"required"`
	Details    string `json:"details" validate:"omitempty"`
	Date       int64  `json:"date" validate:"omitempty,min=0"`
	Duration   int    `json:"duration" validate:"omitempty,min=0"`
	Outcome    string `json:"outcome" validate:"omitempty,oneof=positive negative neutral pending"`
	NextAction string `json:"nextAction" validate:"omitempty"`
	CreatedBy  string `json:"createdBy" validate:"omitempty" transform:"str_objectid,optional"`
}

// InteractionUpdateInput đầu vào cập nhật tương tác.
type InteractionUpdateInput struct {
	Type       string `json:"type" validate:"omitempty,oneof=email call meeting note other"`
	Summary    string `json:"summary" validate:"omitempty"`
	Details    string `json:"details" validate:"omitempty"`
	Date       int64  `json:"date" validate:"omitempty,min=0"`
	Duration   int    `json:"duration" validate:"omitempty,min=0"`
	Outcome    string `json:"outcome" validate:"omitempty,oneof=positive negative neutral pending"`
	NextAction string `json:"nextAction" validate:"omitempty"`
}

// InteractionFilter điều kiện lọc tương tác (typed filter, dùng cho POST /interactions/find).
type InteractionFilter struct {
	CustomerID string `json:"customerId" validate:"omitempty,len=24,hexadecimal"`
	Type       string `json:"type" validate:"omitempty,oneof=email call meeting note other"`
	Outcome    string `json:"outcome" validate:"omitempty,oneof=positive negative neutral pending"`
	DateFrom   int64  `json:"dateFrom" validate:"omitempty,min=0"`
	DateTo     int64  `json:"dateTo" validate:"omitempty,min=0"`
	Page       int64  `json:"page" validate:"omitempty,min=1"`
	Limit      int64  `json:"limit" validate:"omitempty,min=1,max=100"`
}
