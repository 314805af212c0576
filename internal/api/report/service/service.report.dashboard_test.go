package reportsvc

import (
	"testing"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

func historyEntry(status string, date int64) crmmodels.StatusHistoryEntry {
	return crmmodels.StatusHistoryEntry{Status: status, Date: date}
}

func TestAvgDaysToConvert_SingleCustomer(t *testing.T) {
	customers := []crmmodels.Customer{
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusLead, 0),
			historyEntry(crmmodels.StatusCustomer, 10*dayMs),
		}},
	}
	if got := AvgDaysToConvert(customers); got != 10 {
		t.Errorf("AvgDaysToConvert = %d, muốn 10", got)
	}
}

func TestAvgDaysToConvert_AveragesAcrossCustomers(t *testing.T) {
	customers := []crmmodels.Customer{
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusLead, 0),
			historyEntry(crmmodels.StatusCustomer, 10*dayMs),
		}},
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusLead, 0),
			historyEntry(crmmodels.StatusCustomer, 20*dayMs),
		}},
	}
	if got := AvgDaysToConvert(customers); got != 15 {
		t.Errorf("AvgDaysToConvert = %d, muốn 15", got)
	}
}

func TestAvgDaysToConvert_SkipsShortOrInvalidHistory(t *testing.T) {
	customers := []crmmodels.Customer{
		// Chỉ một entry: bỏ qua
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusCustomer, 5 * dayMs),
		}},
		// Quay lại lead sau khi đã là customer: lead gần nhất muộn hơn customer sớm nhất, bỏ qua
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusLead, 0),
			historyEntry(crmmodels.StatusCustomer, 5*dayMs),
			historyEntry(crmmodels.StatusLead, 10*dayMs),
		}},
	}
	if got := AvgDaysToConvert(customers); got != 0 {
		t.Errorf("AvgDaysToConvert = %d, muốn 0 khi không có chuyển đổi hợp lệ", got)
	}
}

func TestAvgDaysToConvert_UsesMostRecentLeadEntry(t *testing.T) {
	// Lead → customer → lead → customer: tính từ lead gần nhất đến customer sớm nhất SAU lead đó?
	// Quy ước: lead date lớn nhất, customer date nhỏ nhất; chỉ tính khi customer sau lead.
	customers := []crmmodels.Customer{
		{StatusHistory: []crmmodels.StatusHistoryEntry{
			historyEntry(crmmodels.StatusLead, 2*dayMs),
			historyEntry(crmmodels.StatusCustomer, 9*dayMs),
		}},
	}
	if got := AvgDaysToConvert(customers); got != 7 {
		t.Errorf("AvgDaysToConvert = %d, muốn 7", got)
	}
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		leads, customers int64
		want             float64
	}{
		{0, 5, 0},      // Không có lead nào: 0 thay vì chia cho 0
		{1, 1, 50},     // 1/(1+1)
		{3, 1, 25},     // 1/(3+1)
		{2, 1, 33.33},  // Làm tròn 2 chữ số
		{10, 0, 0},     // Chưa ai chuyển đổi
	}
	for _, tt := range tests {
		if got := conversionRate(tt.leads, tt.customers); got != tt.want {
			t.Errorf("conversionRate(%d, %d) = %v, muốn %v", tt.leads, tt.customers, got, tt.want)
		}
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

	if got := monthStart(now, 0); !got.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthStart(now, 0) = %v, muốn đầu tháng 8", got)
	}
	if got := monthStart(now, 5); !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthStart(now, 5) = %v, muốn đầu tháng 3", got)
	}

	// Vượt qua ranh giới năm
	january := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := monthStart(january, 1); !got.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthStart(tháng 1, 1) = %v, muốn tháng 12 năm trước", got)
	}
}
