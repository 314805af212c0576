// Package insightdto - các DTO đầu vào của domain insight.
package insightdto

// SentimentInput đầu vào phân tích cảm xúc.
type SentimentInput struct {
	Text string `json:"text" validate:"required,max=10000"`
}

// ChatbotInput đầu vào chatbot rule-based.
type ChatbotInput struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// EmailResponseInput đầu vào sinh email trả lời theo template.
type EmailResponseInput struct {
	Type string `json:"type" validate:"required,max=50"`
}
