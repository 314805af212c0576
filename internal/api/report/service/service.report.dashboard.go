// Package reportsvc - service tổng hợp số liệu dashboard từ customers / interactions / tasks.
package reportsvc

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	reportdto "nexus_crm/internal/api/report/dto"
	"nexus_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scope các điều kiện thu hẹp theo quyền của user cho từng collection.
// Nil nghĩa là không giới hạn (admin / manager).
type Scope struct {
	Customer    bson.M
	Interaction bson.M
	Task        bson.M
}

// DashboardService tổng hợp số liệu cho các route /dashboard.
type DashboardService struct {
	customerService    *crmsvc.CustomerService
	interactionService *crmsvc.InteractionService
	taskService        *crmsvc.TaskService
}

// NewDashboardService tạo DashboardService mới.
func NewDashboardService() (*DashboardService, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, err
	}
	interactionService, err := crmsvc.NewInteractionService()
	if err != nil {
		return nil, err
	}
	taskService, err := crmsvc.NewTaskService()
	if err != nil {
		return nil, err
	}
	return &DashboardService{
		customerService:    customerService,
		interactionService: interactionService,
		taskService:        taskService,
	}, nil
}

// withScope gộp filter với điều kiện scope.
func withScope(filter bson.M, scope bson.M) bson.M {
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range scope {
		merged[k] = v
	}
	return merged
}

// Stats trả về số liệu tổng quan: đếm theo trạng thái / loại và các danh sách gần đây.
func (s *DashboardService) Stats(ctx context.Context, scope Scope, now time.Time) (*reportdto.DashboardStats, error) {
	stats := &reportdto.DashboardStats{}

	for _, item := range []struct {
		status string
		dest   *int64
	}{
		{crmmodels.StatusLead, &stats.Counts.Customers.Lead},
		{crmmodels.StatusCustomer, &stats.Counts.Customers.Customer},
		{crmmodels.StatusInactive, &stats.Counts.Customers.Inactive},
	} {
		count, err := s.customerService.CountDocuments(ctx, withScope(bson.M{"status": item.status}, scope.Customer))
		if err != nil {
			return nil, err
		}
		*item.dest = count
	}
	stats.Counts.Customers.Total = stats.Counts.Customers.Lead + stats.Counts.Customers.Customer + stats.Counts.Customers.Inactive

	for _, item := range []struct {
		status string
		dest   *int64
	}{
		{crmmodels.TaskStatusPending, &stats.Counts.Tasks.Pending},
		{crmmodels.TaskStatusInProgress, &stats.Counts.Tasks.InProgress},
		{crmmodels.TaskStatusCompleted, &stats.Counts.Tasks.Completed},
	} {
		count, err := s.taskService.CountDocuments(ctx, withScope(bson.M{"status": item.status}, scope.Task))
		if err != nil {
			return nil, err
		}
		*item.dest = count
	}
	stats.Counts.Tasks.Total = stats.Counts.Tasks.Pending + stats.Counts.Tasks.InProgress + stats.Counts.Tasks.Completed

	for _, item := range []struct {
		interactionType string
		dest            *int64
	}{
		{crmmodels.InteractionTypeEmail, &stats.Counts.Interactions.Email},
		{crmmodels.InteractionTypeCall, &stats.Counts.Interactions.Call},
		{crmmodels.InteractionTypeMeeting, &stats.Counts.Interactions.Meeting},
	} {
		count, err := s.interactionService.CountDocuments(ctx, withScope(bson.M{"type": item.interactionType}, scope.Interaction))
		if err != nil {
			return nil, err
		}
		*item.dest = count
	}
	stats.Counts.Interactions.Total = stats.Counts.Interactions.Email + stats.Counts.Interactions.Call + stats.Counts.Interactions.Meeting

	recentCustomers, err := s.customerService.Find(ctx, withScope(bson.M{}, scope.Customer),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5))
	if err != nil {
		return nil, err
	}
	stats.Recent.Customers = recentCustomers

	recentInteractions, err := s.interactionService.Find(ctx, withScope(bson.M{}, scope.Interaction),
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(5))
	if err != nil {
		return nil, err
	}
	stats.Recent.Interactions = recentInteractions

	upcomingTasks, err := s.taskService.Find(ctx, withScope(bson.M{
		"status":  bson.M{"$ne": crmmodels.TaskStatusCompleted},
		"dueDate": bson.M{"$gte": now.UnixMilli()},
	}, scope.Task), options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(5))
	if err != nil {
		return nil, err
	}
	stats.Recent.UpcomingTasks = upcomingTasks

	overdueTasks, err := s.taskService.Find(ctx, withScope(bson.M{
		"status":  bson.M{"$ne": crmmodels.TaskStatusCompleted},
		"dueDate": bson.M{"$lt": now.UnixMilli()},
	}, scope.Task), options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(5))
	if err != nil {
		return nil, err
	}
	stats.Recent.OverdueTasks = overdueTasks

	return stats, nil
}

// Activity trả về dòng hoạt động gần đây: khách hàng mới, tương tác mới,
// task mới / hoàn thành, gộp lại và lấy 20 mục mới nhất.
func (s *DashboardService) Activity(ctx context.Context, scope Scope) ([]reportdto.ActivityItem, error) {
	recentCustomers, err := s.customerService.Find(ctx, withScope(bson.M{}, scope.Customer),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(10))
	if err != nil {
		return nil, err
	}

	recentInteractions, err := s.interactionService.Find(ctx, withScope(bson.M{}, scope.Interaction),
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(10))
	if err != nil {
		return nil, err
	}

	recentTasks, err := s.taskService.Find(ctx, withScope(bson.M{}, scope.Task),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(10))
	if err != nil {
		return nil, err
	}

	activity := make([]reportdto.ActivityItem, 0, len(recentCustomers)+len(recentInteractions)+len(recentTasks))
	for _, customer := range recentCustomers {
		activity = append(activity, reportdto.ActivityItem{
			Type: "customer", Action: "created", Date: customer.CreatedAt, Data: customer,
		})
	}
	for _, interaction := range recentInteractions {
		activity = append(activity, reportdto.ActivityItem{
			Type: "interaction", Action: "logged", Date: interaction.Date, Data: interaction,
		})
	}
	for _, task := range recentTasks {
		item := reportdto.ActivityItem{Type: "task", Action: "created", Date: task.CreatedAt, Data: task}
		if task.Status == crmmodels.TaskStatusCompleted {
			item.Action = "completed"
			item.Date = task.CompletedAt
		}
		activity = append(activity, item)
	}

	sort.Slice(activity, func(i, j int) bool { return activity[i].Date > activity[j].Date })
	if len(activity) > 20 {
		activity = activity[:20]
	}
	return activity, nil
}

// monthStart trả về đầu tháng cách now một số tháng (0 = tháng hiện tại).
func monthStart(now time.Time, monthsAgo int) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(monthsAgo), 1, 0, 0, 0, 0, now.Location())
}

// Charts trả về dữ liệu các biểu đồ: phân bố trạng thái khách hàng, loại tương tác,
// tương tác theo tháng (6 tháng gần nhất) và phân bố lead theo tháng tạo.
func (s *DashboardService) Charts(ctx context.Context, scope Scope, now time.Time) (*reportdto.ChartData, error) {
	charts := &reportdto.ChartData{}

	for _, status := range crmmodels.ValidCustomerStatuses {
		count, err := s.customerService.CountDocuments(ctx, withScope(bson.M{"status": status}, scope.Customer))
		if err != nil {
			return nil, err
		}
		charts.CustomerStatus = append(charts.CustomerStatus, reportdto.StatusCount{Status: status, Count: count})
	}

	for _, interactionType := range crmmodels.ValidInteractionTypes {
		count, err := s.interactionService.CountDocuments(ctx, withScope(bson.M{"type": interactionType}, scope.Interaction))
		if err != nil {
			return nil, err
		}
		charts.InteractionTypes = append(charts.InteractionTypes, reportdto.TypeCount{Type: interactionType, Count: count})
	}

	for i := 5; i >= 0; i-- {
		from := monthStart(now, i)
		to := monthStart(now, i-1)
		count, err := s.interactionService.CountDocuments(ctx, withScope(bson.M{
			"date": bson.M{"$gte": from.UnixMilli(), "$lt": to.UnixMilli()},
		}, scope.Interaction))
		if err != nil {
			return nil, err
		}
		charts.MonthlyInteractions = append(charts.MonthlyInteractions, reportdto.MonthCount{
			Month: from.Format("Jan 2006"), Count: count,
		})
	}

	leadDistribution, err := s.leadDistribution(ctx, scope.Customer)
	if err != nil {
		return nil, err
	}
	charts.LeadDistribution = leadDistribution

	return charts, nil
}

// leadDistribution phân bố lead theo tháng tạo (aggregation group theo %Y-%m).
func (s *DashboardService) leadDistribution(ctx context.Context, customerScope bson.M) ([]reportdto.MonthCount, error) {
	pipeline := []bson.M{
		{"$match": withScope(bson.M{"status": crmmodels.StatusLead}, customerScope)},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": bson.M{"$toDate": "$createdAt"}}},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
		{"$limit": 6},
	}

	cursor, err := s.customerService.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	result := make([]reportdto.MonthCount, 0, len(rows))
	for _, row := range rows {
		label := row.ID
		if t, err := time.Parse("2006-01", row.ID); err == nil {
			label = t.Format("Jan 2006")
		}
		result = append(result, reportdto.MonthCount{Month: label, Count: row.Count})
	}
	return result, nil
}

// AvgDaysToConvert tính số ngày trung bình từ lead sang customer trên một tập khách hàng.
// Với mỗi khách: entry lead gần nhất và entry customer sớm nhất trong statusHistory,
// chỉ tính khi ngày customer sau ngày lead.
func AvgDaysToConvert(customers []crmmodels.Customer) int {
	totalDays := 0
	counted := 0

	for _, customer := range customers {
		if len(customer.StatusHistory) < 2 {
			continue
		}
		var leadDate, customerDate int64
		for _, entry := range customer.StatusHistory {
			switch entry.Status {
			case crmmodels.StatusLead:
				if entry.Date > leadDate {
					leadDate = entry.Date
				}
			case crmmodels.StatusCustomer:
				if customerDate == 0 || entry.Date < customerDate {
					customerDate = entry.Date
				}
			}
		}
		if leadDate > 0 && customerDate > leadDate {
			days := int(math.Round(float64(customerDate-leadDate) / float64(24*time.Hour/time.Millisecond)))
			totalDays += days
			counted++
		}
	}

	if counted == 0 {
		return 0
	}
	return int(math.Round(float64(totalDays) / float64(counted)))
}

// conversionRate tỷ lệ chuyển đổi phần trăm, làm tròn 2 chữ số thập phân.
func conversionRate(leads, customers int64) float64 {
	if leads == 0 {
		return 0
	}
	rate := float64(customers) / float64(leads+customers) * 100
	return math.Round(rate*100) / 100
}

// ConversionStats thống kê chuyển đổi: tỷ lệ tổng, số ngày trung bình để chuyển đổi
// và tỷ lệ theo từng tháng trong 6 tháng gần nhất.
func (s *DashboardService) ConversionStats(ctx context.Context, scope Scope, now time.Time) (*reportdto.ConversionStats, error) {
	totalLeads, err := s.customerService.CountDocuments(ctx, withScope(bson.M{"status": crmmodels.StatusLead}, scope.Customer))
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.customerService.CountDocuments(ctx, withScope(bson.M{"status": crmmodels.StatusCustomer}, scope.Customer))
	if err != nil {
		return nil, err
	}

	converted, err := s.customerService.Find(ctx, withScope(bson.M{
		"status":        crmmodels.StatusCustomer,
		"statusHistory": bson.M{"$elemMatch": bson.M{"status": crmmodels.StatusLead}},
	}, scope.Customer), nil)
	if err != nil {
		return nil, err
	}

	result := &reportdto.ConversionStats{
		ConversionRate:   conversionRate(totalLeads, totalCustomers),
		AvgDaysToConvert: AvgDaysToConvert(converted),
		TotalLeads:       totalLeads,
		TotalCustomers:   totalCustomers,
	}

	for i := 5; i >= 0; i-- {
		from := monthStart(now, i)
		to := monthStart(now, i-1)

		newCustomers, err := s.customerService.CountDocuments(ctx, withScope(bson.M{
			"status": crmmodels.StatusCustomer,
			"statusHistory": bson.M{"$elemMatch": bson.M{
				"status": crmmodels.StatusCustomer,
				"date":   bson.M{"$gte": from.UnixMilli(), "$lt": to.UnixMilli()},
			}},
		}, scope.Customer))
		if err != nil {
			return nil, err
		}

		newLeads, err := s.customerService.CountDocuments(ctx, withScope(bson.M{
			"status":    crmmodels.StatusLead,
			"createdAt": bson.M{"$gte": from.UnixMilli(), "$lt": to.UnixMilli()},
		}, scope.Customer))
		if err != nil {
			return nil, err
		}

		result.MonthlyConversions = append(result.MonthlyConversions, reportdto.MonthlyConversion{
			Month:       from.Format("Jan 2006"),
			Rate:        conversionRate(newLeads, newCustomers),
			Leads:       newLeads,
			Conversions: newCustomers,
		})
	}

	return result, nil
}

// BuildScopeForAgent dựng Scope cho một agent: khách hàng / task gán cho agent,
// tương tác của các khách hàng đó.
func (s *DashboardService) BuildScopeForAgent(ctx context.Context, userID primitive.ObjectID) (Scope, error) {
	customers, err := s.customerService.Find(ctx, bson.M{"assignedTo": userID}, nil)
	if err != nil {
		return Scope{}, fmt.Errorf("lỗi đọc danh sách khách hàng của agent: %w", err)
	}
	customerIDs := make([]primitive.ObjectID, len(customers))
	for i, customer := range customers {
		customerIDs[i] = customer.ID
	}
	return Scope{
		Customer:    bson.M{"assignedTo": userID},
		Interaction: bson.M{"customerId": bson.M{"$in": customerIDs}},
		Task:        bson.M{"assignedTo": userID},
	}, nil
}
