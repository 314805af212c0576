package insightsvc

import (
	"context"
	"time"

	crmmodels "nexus_crm/internal/api/crm/models"
	crmsvc "nexus_crm/internal/api/crm/service"
	basesvc "nexus_crm/internal/api/base/service"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsightService tính lead score và churn risk cho khách hàng từ dữ liệu
// interactions / tasks / statusHistory, và cache kết quả lên document khách hàng.
type InsightService struct {
	customerService    *crmsvc.CustomerService
	interactionService *crmsvc.InteractionService
	taskService        *crmsvc.TaskService
}

// NewInsightService tạo InsightService mới.
func NewInsightService() (*InsightService, error) {
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
	return &InsightService{
		customerService:    customerService,
		interactionService: interactionService,
		taskService:        taskService,
	}, nil
}

// taskCompletion đếm task và task completed của một khách hàng.
func (s *InsightService) taskCompletion(ctx context.Context, customerID primitive.ObjectID) (total, completed int64, err error) {
	total, err = s.taskService.CountDocuments(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return 0, 0, err
	}
	completed, err = s.taskService.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"status":     crmmodels.TaskStatusCompleted,
	})
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// LeadScoreForCustomer tính lead score cho một khách hàng và cache lên document.
// Lỗi đọc dữ liệu trả về điểm cơ bản 50, không trả về error cho caller.
func (s *InsightService) LeadScoreForCustomer(ctx context.Context, customerID primitive.ObjectID) int {
	interactionCount, err := s.interactionService.CountDocuments(ctx, bson.M{"customerId": customerID})
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("LeadScoreForCustomer: Lỗi đếm tương tác, trả về điểm cơ bản")
		return BaseLeadScore
	}

	positiveCount, err := s.interactionService.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"outcome":    crmmodels.OutcomePositive,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("LeadScoreForCustomer: Lỗi đếm tương tác positive, trả về điểm cơ bản")
		return BaseLeadScore
	}

	totalTasks, completedTasks, err := s.taskCompletion(ctx, customerID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("LeadScoreForCustomer: Lỗi đếm task, trả về điểm cơ bản")
		return BaseLeadScore
	}

	completionRate := 0.0
	if totalTasks > 0 {
		completionRate = float64(completedTasks) / float64(totalTasks)
	}

	score := ComputeLeadScore(int(interactionCount), int(positiveCount), completionRate)

	// Cache điểm lên document, lỗi chỉ log
	updateData := &basesvc.UpdateData{Set: map[string]interface{}{"leadScore": score}}
	if _, err := s.customerService.UpdateById(ctx, customerID, updateData); err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("LeadScoreForCustomer: Lỗi cache leadScore lên khách hàng")
	}

	return score
}

// UnknownChurnRisk churn risk mặc định khi không đọc được dữ liệu đánh giá.
func UnknownChurnRisk() crmmodels.ChurnRisk {
	return crmmodels.ChurnRisk{Score: 0, Level: crmmodels.ChurnLevelUnknown}
}

// ChurnRiskForCustomer tính churn risk cho một khách hàng và cache lên document.
// Khách hàng không tồn tại trả về error; lỗi đọc interactions / tasks
// trả về churn risk mặc định (Unknown) thay vì error.
func (s *InsightService) ChurnRiskForCustomer(ctx context.Context, customerID primitive.ObjectID, now time.Time) (crmmodels.ChurnRisk, error) {
	customer, err := s.customerService.FindOneById(ctx, customerID)
	if err != nil {
		return crmmodels.ChurnRisk{}, err
	}

	thirtyDaysAgo := now.AddDate(0, 0, -30).UnixMilli()
	ninetyDaysAgo := now.AddDate(0, 0, -90).UnixMilli()

	recentInteractions, err := s.interactionService.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"date":       bson.M{"$gt": thirtyDaysAgo},
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("ChurnRiskForCustomer: Lỗi đếm tương tác, trả về churn risk mặc định")
		return UnknownChurnRisk(), nil
	}

	recentNegatives, err := s.interactionService.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"date":       bson.M{"$gt": thirtyDaysAgo},
		"outcome":    crmmodels.OutcomeNegative,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("ChurnRiskForCustomer: Lỗi đếm tương tác negative, trả về churn risk mặc định")
		return UnknownChurnRisk(), nil
	}

	totalTasks, completedTasks, err := s.taskCompletion(ctx, customerID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("ChurnRiskForCustomer: Lỗi đếm task, trả về churn risk mặc định")
		return UnknownChurnRisk(), nil
	}

	recentStatusChanges := 0
	for _, entry := range customer.StatusHistory {
		if entry.Date > ninetyDaysAgo {
			recentStatusChanges++
		}
	}

	risk := ComputeChurnRisk(ChurnInput{
		RecentInteractions:  int(recentInteractions),
		RecentNegatives:     int(recentNegatives),
		TaskCount:           int(totalTasks),
		CompletedTasks:      int(completedTasks),
		RecentStatusChanges: recentStatusChanges,
	})

	// Cache kết quả lên document, lỗi chỉ log
	updateData := &basesvc.UpdateData{Set: map[string]interface{}{"churnRisk": risk}}
	if _, err := s.customerService.UpdateById(ctx, customerID, updateData); err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": customerID.Hex(), "error": err.Error()}).
			Error("ChurnRiskForCustomer: Lỗi cache churnRisk lên khách hàng")
	}

	return risk, nil
}
