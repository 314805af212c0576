package crmsvc

import (
	"context"
	"fmt"
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

// InteractionService xử lý logic tương tác với khách hàng.
type InteractionService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.Interaction]
}

// NewInteractionService tạo InteractionService mới.
func NewInteractionService() (*InteractionService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Interactions)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Interactions, common.ErrNotFound)
	}
	return &InteractionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.Interaction](coll),
	}, nil
}

// CreateInteraction tạo tương tác mới và cập nhật lastContact của khách hàng
// nếu Date của tương tác mới hơn lastContact hiện tại.
// Khách hàng phải tồn tại, nếu không trả về lỗi not found.
func (s *InteractionService) CreateInteraction(ctx context.Context, interaction crmmodels.Interaction, createdBy primitive.ObjectID) (crmmodels.Interaction, error) {
	customerColl, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return crmmodels.Interaction{}, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Customers, common.ErrNotFound)
	}

	count, err := customerColl.CountDocuments(ctx, bson.M{"_id": interaction.CustomerID})
	if err != nil {
		return crmmodels.Interaction{}, common.ConvertMongoError(err)
	}
	if count == 0 {
		return crmmodels.Interaction{}, common.NewError(common.ErrCodeDatabaseQuery,
			fmt.Sprintf("Không tìm thấy khách hàng với id %s", interaction.CustomerID.Hex()), common.StatusNotFound, nil)
	}

	if interaction.Date == 0 {
		interaction.Date = time.Now().UnixMilli()
	}
	if interaction.Outcome == "" {
		interaction.Outcome = crmmodels.OutcomeNeutral
	}
	if interaction.CreatedBy.IsZero() {
		interaction.CreatedBy = createdBy
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, interaction)
	if err != nil {
		return crmmodels.Interaction{}, err
	}

	filter, update := LastContactBump(interaction.CustomerID, interaction.Date, time.Now().UnixMilli())
	_, err = customerColl.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{"customer_id": interaction.CustomerID.Hex(), "error": err.Error()}).
			Error("CreateInteraction: Lỗi cập nhật lastContact của khách hàng")
	}

	return created, nil
}

// LastContactBump trả về filter + update đẩy lastContact của khách hàng về phía trước.
// Dùng $max thay vì filter $lt: document chưa có trường lastContact
// (khách mới, omitempty) vẫn được ghi, còn ngày cũ hơn không bao giờ ghi đè ngày mới.
func LastContactBump(customerID primitive.ObjectID, date int64, now int64) (filter bson.M, update bson.M) {
	return bson.M{"_id": customerID}, bson.M{
		"$max": bson.M{"lastContact": date},
		"$set": bson.M{"updatedAt": now},
	}
}

// BuildInteractionFilter chuyển InteractionFilter (typed) sang bson.M.
func BuildInteractionFilter(input *crmdto.InteractionFilter) (bson.M, error) {
	filter := bson.M{}

	if input.CustomerID != "" {
		customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationInput, "customerId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		filter["customerId"] = customerID
	}
	if input.Type != "" {
		filter["type"] = input.Type
	}
	if input.Outcome != "" {
		filter["outcome"] = input.Outcome
	}
	if input.DateFrom > 0 || input.DateTo > 0 {
		dateRange := bson.M{}
		if input.DateFrom > 0 {
			dateRange["$gte"] = input.DateFrom
		}
		if input.DateTo > 0 {
			dateRange["$lte"] = input.DateTo
		}
		filter["date"] = dateRange
	}

	return filter, nil
}

// FindWithFilter tìm tương tác theo typed filter với phân trang, sort theo date giảm dần.
// scope là điều kiện bổ sung theo quyền của user.
func (s *InteractionService) FindWithFilter(ctx context.Context, input *crmdto.InteractionFilter, scope bson.M) (*basemodels.PaginateResult[crmmodels.Interaction], error) {
	filter, err := BuildInteractionFilter(input)
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

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}
