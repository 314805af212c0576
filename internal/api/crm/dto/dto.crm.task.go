package crmdto

// TaskCreateInput đầu vào tạo task.
// AssignedTo rỗng sẽ để task ở trạng thái chưa gán, chờ job rebalance gán tự động.
type TaskCreateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"omitempty"`
	DueDate     int64  `json:"dueDate" validate:"required,min=1"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	CustomerID  string `json:"customerId" validate:"omitempty" transform:"str_objectid,optional"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty" transform:"str_objectid,optional"`
	CreatedBy   string `json:"createdBy" validate:"omitempty" transform:"str_objectid,optional"`
}

// TaskUpdateInput đầu vào cập nhật task.
// Đổi Status qua route update sẽ đi qua TaskService để xử lý CompletedAt đúng quy tắc.
type TaskUpdateInput struct {
	Title       string `json:"title" validate:"omitempty"`
	Description string `json:"description" validate:"omitempty"`
	DueDate     int64  `json:"dueDate" validate:"omitempty,min=1"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	CustomerID  string `json:"customerId" validate:"omitempty" transform:"str_objectid,optional"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty" transform:"str_objectid,optional"`
}

// TaskFilter điều kiện lọc task (typed filter, dùng cho POST /tasks/find).
// Overdue / DueToday / DueThisWeek là các shortcut theo thời điểm hiện tại,
// loại trừ lẫn nhau với DueFrom / DueTo.
type TaskFilter struct {
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	CustomerID  string `json:"customerId" validate:"omitempty,len=24,hexadecimal"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty,len=24,hexadecimal"`
	Overdue     bool   `json:"overdue" validate:"omitempty"`
	DueToday    bool   `json:"dueToday" validate:"omitempty"`
	DueThisWeek bool   `json:"dueThisWeek" validate:"omitempty"`
	DueFrom     int64  `json:"dueFrom" validate:"omitempty,min=0"`
	DueTo       int64  `json:"dueTo" validate:"omitempty,min=0"`
	Archived    bool   `json:"archived" validate:"omitempty"`
	Page        int64  `json:"page" validate:"omitempty,min=1"`
	Limit       int64  `json:"limit" validate:"omitempty,min=1,max=100"`
}
