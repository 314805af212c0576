// Package insightsvc - service chấm điểm heuristic cho khách hàng.
// File này chứa các hàm thuần (pure, deterministic), tách riêng để test không cần database.
package insightsvc

import (
	"strings"

	crmmodels "nexus_crm/internal/api/crm/models"
)

// BaseLeadScore điểm khởi đầu của lead score, cũng là điểm trả về khi không đọc được dữ liệu.
const BaseLeadScore = 50

// ComputeLeadScore tính lead score từ hoạt động của khách hàng:
// 50 điểm cơ bản + tần suất tương tác (tối đa 20) + tương tác positive (tối đa 15)
// + tỷ lệ hoàn thành task (tối đa 15). Kết quả tối đa 100.
func ComputeLeadScore(interactionCount, positiveCount int, completionRate float64) int {
	score := BaseLeadScore

	interactionScore := interactionCount * 2
	if interactionScore > 20 {
		interactionScore = 20
	}
	score += interactionScore

	positiveScore := positiveCount * 3
	if positiveScore > 15 {
		positiveScore = 15
	}
	score += positiveScore

	taskScore := completionRate * 15
	if taskScore > 15 {
		taskScore = 15
	}
	score += int(taskScore)

	if score > 100 {
		score = 100
	}
	return score
}

// ChurnInput dữ liệu đầu vào cho ComputeChurnRisk, caller chuẩn bị từ database.
type ChurnInput struct {
	RecentInteractions  int     // Số tương tác trong 30 ngày gần nhất
	RecentNegatives     int     // Số tương tác negative trong 30 ngày gần nhất
	TaskCount           int     // Tổng số task của khách hàng
	CompletedTasks      int     // Số task completed
	RecentStatusChanges int     // Số lần chuyển trạng thái trong 90 ngày gần nhất
}

// ComputeChurnRisk tính điểm rủi ro churn và liệt kê các yếu tố đóng góp:
// +30 nếu không có tương tác nào trong 30 ngày (hoặc +15 nếu dưới 3),
// +10 cho mỗi tương tác negative gần đây, +20 nếu tỷ lệ hoàn thành task dưới 0.5,
// +15 nếu có hơn 2 lần chuyển trạng thái trong 90 ngày. Kết quả tối đa 100.
// Mức độ: >70 High, >40 Medium, còn lại Low.
func ComputeChurnRisk(input ChurnInput) crmmodels.ChurnRisk {
	score := 0
	var factors []string

	if input.RecentInteractions == 0 {
		score += 30
		factors = append(factors, "no interactions in the last 30 days")
	} else if input.RecentInteractions < 3 {
		score += 15
		factors = append(factors, "few interactions in the last 30 days")
	}

	if input.RecentNegatives > 0 {
		score += input.RecentNegatives * 10
		factors = append(factors, "recent negative interactions")
	}

	completionRate := 0.0
	if input.TaskCount > 0 {
		completionRate = float64(input.CompletedTasks) / float64(input.TaskCount)
	}
	if completionRate < 0.5 {
		score += 20
		factors = append(factors, "low task completion rate")
	}

	if input.RecentStatusChanges > 2 {
		score += 15
		factors = append(factors, "frequent status changes in the last 90 days")
	}

	if score > 100 {
		score = 100
	}

	level := crmmodels.ChurnLevelLow
	if score > 70 {
		level = crmmodels.ChurnLevelHigh
	} else if score > 40 {
		level = crmmodels.ChurnLevelMedium
	}

	return crmmodels.ChurnRisk{Score: score, Level: level, Factors: factors}
}

// Danh sách từ khóa cho phân tích cảm xúc rule-based.
var (
	positiveWords = []string{"good", "great", "excellent", "happy", "satisfied", "thanks", "love"}
	negativeWords = []string{"bad", "poor", "unhappy", "dissatisfied", "issue", "problem", "hate"}
)

// AnalyzeSentiment phân tích cảm xúc của một đoạn text theo danh sách từ khóa cố định.
// Trả về positive / negative / neutral.
func AnalyzeSentiment(text string) string {
	words := strings.Fields(strings.ToLower(text))
	score := 0
	for _, word := range words {
		for _, p := range positiveWords {
			if word == p {
				score++
			}
		}
		for _, n := range negativeWords {
			if word == n {
				score--
			}
		}
	}
	if score > 0 {
		return crmmodels.OutcomePositive
	}
	if score < 0 {
		return crmmodels.OutcomeNegative
	}
	return crmmodels.OutcomeNeutral
}

// chatbotResponses câu trả lời theo từ khóa xuất hiện trong tin nhắn.
var chatbotResponses = map[string]string{
	"pricing":  "Our pricing plans start from $99/month. Would you like to speak with a sales representative?",
	"support":  "Our support team is available 24/7. Please describe your issue and we'll help you right away.",
	"features": "Our CRM includes contact management, task tracking, and analytics. Would you like a demo?",
}

// chatbotDefaultResponse câu trả lời khi không match từ khóa nào.
const chatbotDefaultResponse = "Thank you for your message. How can I assist you today?"

// chatbotKeywordOrder thứ tự ưu tiên khi tin nhắn chứa nhiều từ khóa.
var chatbotKeywordOrder = []string{"pricing", "support", "features"}

// ChatbotResponse trả về câu trả lời chatbot rule-based theo từ khóa trong tin nhắn.
func ChatbotResponse(message string) string {
	lowered := strings.ToLower(message)
	for _, keyword := range chatbotKeywordOrder {
		if strings.Contains(lowered, keyword) {
			return chatbotResponses[keyword]
		}
	}
	return chatbotDefaultResponse
}

// emailTemplates template trả lời email theo loại tin nhắn.
var emailTemplates = map[string]string{
	"inquiry":  "Thank you for your inquiry. We'll review your request and get back to you shortly.",
	"support":  "We're sorry to hear you're experiencing issues. Our team will investigate and respond soon.",
	"feedback": "Thank you for your feedback. We greatly value your input and will use it to improve our services.",
}

// emailDefaultTemplate template khi loại tin nhắn không có template riêng.
const emailDefaultTemplate = "Thank you for your message. We'll respond to you as soon as possible."

// EmailResponse trả về nội dung email trả lời theo template cho một loại tin nhắn.
func EmailResponse(messageType string) string {
	if response, ok := emailTemplates[strings.ToLower(messageType)]; ok {
		return response
	}
	return emailDefaultTemplate
}
