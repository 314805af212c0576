package worker

import (
	"context"
	"time"

	"nexus_crm/config"
	crmsvc "nexus_crm/internal/api/crm/service"
	"nexus_crm/internal/logger"
)

// RegisterCrmJobs đăng ký các job CRM định kỳ lên scheduler theo cấu hình:
//   - lifecycle_sweep: Quét chuyển trạng thái khách hàng tự động (mặc định: 24h)
//   - task_rebalance: Phân bổ task chưa gán cho agent ít việc nhất (mặc định: 4h)
//   - maintenance: Lưu trữ task cũ + dọn tag trùng (mặc định: 168h)
func RegisterCrmJobs(s *Scheduler, cfg *config.Configuration) error {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return err
	}
	taskService, err := crmsvc.NewTaskService()
	if err != nil {
		return err
	}
	maintenanceService, err := crmsvc.NewMaintenanceService()
	if err != nil {
		return err
	}

	log := logger.GetAppLogger()

	s.Register(Job{
		Name:     "lifecycle_sweep",
		Interval: time.Duration(cfg.LifecycleSweep_Hours) * time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			changed, err := customerService.EvaluateAutomatedTransitions(ctx, now)
			if err != nil {
				return err
			}
			if changed > 0 {
				log.WithFields(map[string]interface{}{
					"changed": changed,
				}).Info("⏰ [LIFECYCLE_SWEEP] Đã chuyển trạng thái khách hàng tự động")
			}
			return nil
		},
	})

	s.Register(Job{
		Name:     "task_rebalance",
		Interval: time.Duration(cfg.TaskRebalance_Hours) * time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			assigned, err := taskService.RebalanceUnassignedTasks(ctx)
			if err != nil {
				return err
			}
			if assigned > 0 {
				log.WithFields(map[string]interface{}{
					"assigned": assigned,
				}).Info("⏰ [TASK_REBALANCE] Đã phân bổ task chưa gán")
			}
			return nil
		},
	})

	s.Register(Job{
		Name:     "maintenance",
		Interval: time.Duration(cfg.Maintenance_Hours) * time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			return maintenanceService.RunWeeklyMaintenance(ctx, now)
		},
	})

	return nil
}
