package crmsvc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "nexus_crm/internal/api/base/service"
)

// MaintenanceService gom các thao tác dọn dẹp dữ liệu định kỳ:
// lưu trữ task cũ và chuẩn hóa tags của khách hàng.
type MaintenanceService struct {
	customerService *CustomerService
	taskService     *TaskService
}

// NewMaintenanceService tạo MaintenanceService mới.
func NewMaintenanceService() (*MaintenanceService, error) {
	customerService, err := NewCustomerService()
	if err != nil {
		return nil, err
	}
	taskService, err := NewTaskService()
	if err != nil {
		return nil, err
	}
	return &MaintenanceService{
		customerService: customerService,
		taskService:     taskService,
	}, nil
}

// DedupeTags loại bỏ tag trùng lặp trong một danh sách, giữ nguyên thứ tự xuất hiện đầu tiên.
func DedupeTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// DedupeCustomerTags quét khách hàng có tags và loại bỏ tag trùng lặp.
// Trả về số khách hàng đã được sửa. Lỗi trên từng khách hàng chỉ được log và bỏ qua.
func (s *MaintenanceService) DedupeCustomerTags(ctx context.Context) (int, error) {
	customers, err := s.customerService.Find(ctx, bson.M{"tags.1": bson.M{"$exists": true}}, nil)
	if err != nil {
		return 0, err
	}

	fixedCount := 0
	for _, customer := range customers {
		deduped := DedupeTags(customer.Tags)
		if len(deduped) == len(customer.Tags) {
			continue
		}
		updateData := &basesvc.UpdateData{
			Set: map[string]interface{}{"tags": deduped},
		}
		if _, err := s.customerService.UpdateById(ctx, customer.ID, updateData); err != nil {
			logrus.WithFields(logrus.Fields{"customer_id": customer.ID.Hex(), "error": err.Error()}).
				Error("DedupeCustomerTags: Lỗi cập nhật tags, bỏ qua khách hàng")
			continue
		}
		fixedCount++
	}
	return fixedCount, nil
}

// RunWeeklyMaintenance chạy toàn bộ các thao tác bảo trì hàng tuần.
func (s *MaintenanceService) RunWeeklyMaintenance(ctx context.Context, now time.Time) error {
	archived, err := s.taskService.ArchiveStaleTasks(ctx, now)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("RunWeeklyMaintenance: Lỗi lưu trữ task cũ")
	} else if archived > 0 {
		logrus.WithField("archived", archived).Info("RunWeeklyMaintenance: Đã lưu trữ task cũ")
	}

	fixed, err := s.DedupeCustomerTags(ctx)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("RunWeeklyMaintenance: Lỗi chuẩn hóa tags khách hàng")
	} else if fixed > 0 {
		logrus.WithField("fixed", fixed).Info("RunWeeklyMaintenance: Đã chuẩn hóa tags khách hàng")
	}

	return nil
}
