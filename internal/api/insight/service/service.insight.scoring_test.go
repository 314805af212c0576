// Package insightsvc - Test các hàm chấm điểm heuristic (pure, không cần database).
package insightsvc

import (
	"testing"

	crmmodels "nexus_crm/internal/api/crm/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeLeadScore_BaseScore(t *testing.T) {
	assert.Equal(t, BaseLeadScore, ComputeLeadScore(0, 0, 0))
}

func TestComputeLeadScore_Components(t *testing.T) {
	// 50 + 12*2 (cap 20) + 3*3 + 1.0*15 = 94
	assert.Equal(t, 94, ComputeLeadScore(12, 3, 1.0))

	// Từng thành phần bị cap riêng
	assert.Equal(t, 70, ComputeLeadScore(100, 0, 0), "điểm tương tác cap ở 20")
	assert.Equal(t, 65, ComputeLeadScore(0, 100, 0), "điểm positive cap ở 15")
	assert.Equal(t, 65, ComputeLeadScore(0, 0, 2.0), "điểm task cap ở 15")
}

func TestComputeLeadScore_ClampedAt100(t *testing.T) {
	assert.Equal(t, 100, ComputeLeadScore(100, 100, 1.0))
}

func TestComputeChurnRisk_NoActivity(t *testing.T) {
	// Không tương tác (+30) và không task nào → completion rate 0 (+20)
	risk := ComputeChurnRisk(ChurnInput{})
	assert.Equal(t, 50, risk.Score)
	assert.Equal(t, crmmodels.ChurnLevelMedium, risk.Level)
	assert.Contains(t, risk.Factors, "no interactions in the last 30 days")
	assert.Contains(t, risk.Factors, "low task completion rate")
}

func TestComputeChurnRisk_HealthyCustomerIsLow(t *testing.T) {
	risk := ComputeChurnRisk(ChurnInput{
		RecentInteractions: 5,
		TaskCount:          4,
		CompletedTasks:     3,
	})
	assert.Equal(t, 0, risk.Score)
	assert.Equal(t, crmmodels.ChurnLevelLow, risk.Level)
	assert.Empty(t, risk.Factors)
}

func TestComputeChurnRisk_HighRisk(t *testing.T) {
	// 30 (không tương tác) + 3*10 (negative) + 20 (completion thấp) = 80
	risk := ComputeChurnRisk(ChurnInput{RecentNegatives: 3})
	assert.Equal(t, 80, risk.Score)
	assert.Equal(t, crmmodels.ChurnLevelHigh, risk.Level)
	assert.Contains(t, risk.Factors, "recent negative interactions")
}

func TestComputeChurnRisk_FewInteractions(t *testing.T) {
	risk := ComputeChurnRisk(ChurnInput{
		RecentInteractions: 2,
		TaskCount:          2,
		CompletedTasks:     2,
	})
	assert.Equal(t, 15, risk.Score)
	assert.Contains(t, risk.Factors, "few interactions in the last 30 days")
}

func TestComputeChurnRisk_FrequentStatusChanges(t *testing.T) {
	risk := ComputeChurnRisk(ChurnInput{
		RecentInteractions:  5,
		TaskCount:           2,
		CompletedTasks:      2,
		RecentStatusChanges: 3,
	})
	assert.Equal(t, 15, risk.Score)
	assert.Contains(t, risk.Factors, "frequent status changes in the last 90 days")
}

func TestComputeChurnRisk_ClampedAt100(t *testing.T) {
	risk := ComputeChurnRisk(ChurnInput{RecentNegatives: 10, RecentStatusChanges: 5})
	assert.Equal(t, 100, risk.Score)
	assert.Equal(t, crmmodels.ChurnLevelHigh, risk.Level)
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"this product is great thanks", crmmodels.OutcomePositive},
		{"we have an issue and a problem", crmmodels.OutcomeNegative},
		{"hello there", crmmodels.OutcomeNeutral},
		{"good but bad", crmmodels.OutcomeNeutral},
		{"GREAT and EXCELLENT", crmmodels.OutcomePositive},
		{"", crmmodels.OutcomeNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnalyzeSentiment(tt.text), "text: %q", tt.text)
	}
}

func TestChatbotResponse_Keywords(t *testing.T) {
	assert.Contains(t, ChatbotResponse("What is your PRICING?"), "$99/month")
	assert.Contains(t, ChatbotResponse("i need support"), "24/7")
	assert.Contains(t, ChatbotResponse("tell me about features"), "demo")
}

func TestChatbotResponse_KeywordPriority(t *testing.T) {
	// Nhiều từ khóa trong cùng tin nhắn: pricing > support > features
	assert.Contains(t, ChatbotResponse("pricing and support please"), "$99/month")
	assert.Contains(t, ChatbotResponse("support for features"), "24/7")
}

func TestChatbotResponse_Default(t *testing.T) {
	assert.Equal(t, "Thank you for your message. How can I assist you today?", ChatbotResponse("hello"))
}

func TestEmailResponse(t *testing.T) {
	assert.Contains(t, EmailResponse("inquiry"), "inquiry")
	assert.Contains(t, EmailResponse("SUPPORT"), "sorry to hear")
	assert.Contains(t, EmailResponse("feedback"), "value your input")
	assert.Equal(t, "Thank you for your message. We'll respond to you as soon as possible.", EmailResponse("something-else"))
}

func TestUnknownChurnRisk(t *testing.T) {
	// Giá trị fallback khi không đọc được dữ liệu đánh giá
	risk := UnknownChurnRisk()
	assert.Equal(t, 0, risk.Score)
	assert.Equal(t, crmmodels.ChurnLevelUnknown, risk.Level)
	assert.Empty(t, risk.Factors)
}
