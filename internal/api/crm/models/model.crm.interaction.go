package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại tương tác với khách hàng.
const (
	InteractionTypeEmail   = "email"
	InteractionTypeCall    = "call"
	InteractionTypeMeeting = "meeting"
	InteractionTypeNote    = "note"
	InteractionTypeOther   = "other"
)

// Các kết quả của một tương tác.
const (
	OutcomePositive = "positive"
	OutcomeNegative = "negative"
	OutcomeNeutral  = "neutral"
	OutcomePending  = "pending"
)

// ValidInteractionTypes danh sách loại tương tác hợp lệ
var ValidInteractionTypes = []string{
	InteractionTypeEmail, InteractionTypeCall, InteractionTypeMeeting,
	InteractionTypeNote, InteractionTypeOther,
}

// ValidOutcomes danh sách kết quả hợp lệ
var ValidOutcomes = []string{OutcomePositive, OutcomeNegative, OutcomeNeutral, OutcomePending}

// Interaction một lần tương tác với khách hàng (email, cuộc gọi, họp, ghi chú).
// Tạo interaction sẽ cập nhật lastContact của khách hàng tương ứng nếu Date mới hơn.
type Interaction struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID primitive.ObjectID `json:"customerId" bson:"customerId" index:"single"`
	Type       string             `json:"type" bson:"type" index:"single"`
	Summary    string             `json:"summary" bson:"summary"`
	Details    string             `json:"details,omitempty" bson:"details,omitempty"`
	Date       int64              `json:"date" bson:"date" index:"single"`
	Duration   int                `json:"duration,omitempty" bson:"duration,omitempty"`
	Outcome    string             `json:"outcome" bson:"outcome" default:"neutral"`
	NextAction string             `json:"nextAction,omitempty" bson:"nextAction,omitempty"`
	CreatedBy  primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
