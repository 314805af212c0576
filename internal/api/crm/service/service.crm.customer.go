package crmsvc

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	crmdto "nexus_crm/internal/api/crm/dto"
	crmmodels "nexus_crm/internal/api/crm/models"
	basemodels "nexus_crm/internal/api/base/models"
	basesvc "nexus_crm/internal/api/base/service"
	"nexus_crm/internal/common"
	"nexus_crm/internal/global"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Các field được phép trong mini-syntax "field:value" của search.
var searchableCustomerFields = map[string]string{
	"name":    "name",
	"email":   "email",
	"company": "company",
	"phone":   "phone",
}

// CustomerService xử lý logic khách hàng: CRUD, chuyển trạng thái, sweep tự động.
type CustomerService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Customer]
}

// NewCustomerService tạo CustomerService mới.
func NewCustomerService() (*CustomerService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Customers, common.ErrNotFound)
	}
	return &CustomerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Customer](coll),
	}, nil
}

// CreateCustomer tạo khách hàng mới với entry đầu tiên trong statusHistory.
// Status được suy ra từ history (entry đầu tiên), không tin status client gửi lên rời rạc.
func (s *CustomerService) CreateCustomer(ctx context.Context, customer crmmodels.Customer, createdBy primitive.ObjectID) (crmmodels.Customer, error) {
	now := time.Now().UnixMilli()

	if customer.CreatedBy.IsZero() {
		customer.CreatedBy = createdBy
	}

	status := customer.Status
	if status == "" {
		status = crmmodels.StatusLead
	}
	if !crmmodels.IsValidCustomerStatus(status) {
		return crmmodels.Customer{}, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Trạng thái '%s' không hợp lệ", status), common.StatusBadRequest, nil)
	}

	customer.StatusHistory = []crmmodels.StatusHistoryEntry{{
		Status:    status,
		Date:      now,
		UpdatedBy: createdBy,
		Notes:     "Customer created",
	}}
	customer.Status = DeriveStatus(customer.StatusHistory)

	return s.BaseServiceMongoImpl.InsertOne(ctx, customer)
}

// RecordStatusChange chuyển trạng thái khách hàng: append entry vào statusHistory
// và set status trong CÙNG một update ($push + $set) để history và status không lệch nhau.
// updatedBy zero ObjectID nghĩa là chuyển tự động bởi hệ thống.
func (s *CustomerService) RecordStatusChange(ctx context.Context, customerID primitive.ObjectID, newStatus string, updatedBy primitive.ObjectID, notes string) (crmmodels.Customer, error) {
	if !crmmodels.IsValidCustomerStatus(newStatus) {
		return crmmodels.Customer{}, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Trạng thái '%s' không hợp lệ", newStatus), common.StatusBadRequest, nil)
	}

	entry := crmmodels.StatusHistoryEntry{
		Status:    newStatus,
		Date:      time.Now().UnixMilli(),
		UpdatedBy: updatedBy,
		Notes:     notes,
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": newStatus,
		},
		Push: map[string]interface{}{
			"statusHistory": entry,
		},
	}
	return s.BaseServiceMongoImpl.UpdateById(ctx, customerID, updateData)
}

// interactionStats thống kê tương tác của một khách hàng dùng cho sweep tự động.
type interactionStats struct {
	LastInteractionAt int64
	PositiveCount     int
}

// loadInteractionStats đọc thời điểm tương tác gần nhất và số tương tác positive
// của một khách hàng từ collection interactions.
func (s *CustomerService) loadInteractionStats(ctx context.Context, customerID primitive.ObjectID) (*interactionStats, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Interactions)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Interactions, common.ErrNotFound)
	}

	stats := &interactionStats{}

	var latest crmmodels.Interaction
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	err := coll.FindOne(ctx, bson.M{"customerId": customerID}, opts).Decode(&latest)
	if err == nil {
		stats.LastInteractionAt = latest.Date
	}

	positiveCount, err := coll.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"outcome":    crmmodels.OutcomePositive,
	})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	stats.PositiveCount = int(positiveCount)
	return stats, nil
}

// EvaluateAutomatedTransitions quét toàn bộ khách hàng lead / customer và áp dụng
// các quy tắc chuyển trạng thái tự động (NextAutomatedStatus).
// Sweep idempotent: chạy lại ngay sau đó sẽ không tạo thêm entry nào.
// Lỗi trên từng khách hàng chỉ được log và bỏ qua, không làm dừng sweep.
// Trả về số khách hàng đã được chuyển trạng thái.
func (s *CustomerService) EvaluateAutomatedTransitions(ctx context.Context, now time.Time) (int, error) {
	inactiveAfterDays := 30
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.InactiveThreshold_Days > 0 {
		inactiveAfterDays = global.MongoDB_ServerConfig.InactiveThreshold_Days
	}

	filter := bson.M{"status": bson.M{"$in": []string{crmmodels.StatusLead, crmmodels.StatusCustomer}}}
	customers, err := s.BaseServiceMongoImpl.Find(ctx, filter, nil)
	if err != nil {
		return 0, err
	}

	changedCount := 0
	for _, customer := range customers {
		stats, err := s.loadInteractionStats(ctx, customer.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"customer_id": customer.ID.Hex(), "error": err.Error()}).
				Error("EvaluateAutomatedTransitions: Lỗi đọc thống kê tương tác, bỏ qua khách hàng")
			continue
		}

		status := DeriveStatus(customer.StatusHistory)
		newStatus, note, changed := NextAutomatedStatus(status, stats.LastInteractionAt, stats.PositiveCount, now.UnixMilli(), inactiveAfterDays)
		if !changed {
			continue
		}

		if _, err := s.RecordStatusChange(ctx, customer.ID, newStatus, primitive.NilObjectID, note); err != nil {
			logrus.WithFields(logrus.Fields{"customer_id": customer.ID.Hex(), "new_status": newStatus, "error": err.Error()}).
				Error("EvaluateAutomatedTransitions: Lỗi chuyển trạng thái, bỏ qua khách hàng")
			continue
		}

		logrus.WithFields(logrus.Fields{"customer_id": customer.ID.Hex(), "from": status, "to": newStatus}).
			Info("EvaluateAutomatedTransitions: Đã chuyển trạng thái tự động")
		changedCount++
	}
	return changedCount, nil
}

// BuildCustomerFilter chuyển CustomerFilter (typed) sang bson.M.
// Search hỗ trợ mini-syntax "field:value" cho name / email / company / phone,
// còn lại tìm regex (không phân biệt hoa thường) trên cả bốn field.
func BuildCustomerFilter(input *crmdto.CustomerFilter) (bson.M, error) {
	filter := bson.M{}

	if input.Status != "" {
		filter["status"] = input.Status
	}
	if input.Company != "" {
		filter["company"] = primitive.Regex{Pattern: regexp.QuoteMeta(input.Company), Options: "i"}
	}
	if len(input.Tags) > 0 {
		filter["tags"] = bson.M{"$in": input.Tags}
	}
	if input.AssignedTo != "" {
		assignedTo, err := primitive.ObjectIDFromHex(input.AssignedTo)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationInput, "assignedTo không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		filter["assignedTo"] = assignedTo
	}

	if input.DateFrom > 0 || input.DateTo > 0 {
		dateRange := bson.M{}
		if input.DateFrom > 0 {
			dateRange["$gte"] = input.DateFrom
		}
		if input.DateTo > 0 {
			dateRange["$lte"] = input.DateTo
		}
		filter["createdAt"] = dateRange
	}

	if input.Search != "" {
		applySearch(filter, input.Search)
	}

	return filter, nil
}

// applySearch áp dụng điều kiện search vào filter, hỗ trợ mini-syntax "field:value".
func applySearch(filter bson.M, search string) {
	if field, value, found := strings.Cut(search, ":"); found {
		if bsonField, ok := searchableCustomerFields[strings.ToLower(strings.TrimSpace(field))]; ok {
			value = strings.TrimSpace(value)
			if value != "" {
				filter[bsonField] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
				return
			}
		}
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	filter["$or"] = []bson.M{
		{"name": pattern},
		{"email": pattern},
		{"company": pattern},
		{"phone": pattern},
	}
}

// FindWithFilter tìm khách hàng theo typed filter với phân trang và sort.
// scope là điều kiện bổ sung theo quyền của user (agent chỉ thấy khách được gán cho mình).
func (s *CustomerService) FindWithFilter(ctx context.Context, input *crmdto.CustomerFilter, scope bson.M) (*basemodels.PaginateResult[crmmodels.Customer], error) {
	filter, err := BuildCustomerFilter(input)
	if err != nil {
		return nil, err
	}
	for k, v := range scope {
		filter[k] = v
	}

	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := -1
	if input.SortOrder == "asc" {
		sortOrder = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: sortOrder}})

	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}
