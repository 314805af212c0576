// Package worker - scheduler chạy các job nền định kỳ của hệ thống CRM
// (quét trạng thái khách hàng, phân bổ lại task, bảo trì dữ liệu).
package worker

import (
	"context"
	"sync"
	"time"

	"nexus_crm/internal/logger"
)

// Clock trừu tượng hóa thời gian để test scheduler không cần chờ thật.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker trừu tượng hóa time.Ticker, cho phép test bắn tick thủ công.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Ticker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// NewRealClock trả về Clock dùng đồng hồ hệ thống.
func NewRealClock() Clock {
	return realClock{}
}

// Job một công việc nền chạy định kỳ.
// Run nhận thời điểm tick hiện tại để các phép so sánh ngày tháng nhất quán trong một lần chạy.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Scheduler chạy mỗi job đã đăng ký trong goroutine riêng theo interval của job.
// Job lỗi hoặc panic chỉ được log, không làm dừng scheduler.
type Scheduler struct {
	clock  Clock
	jobs   []Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler tạo Scheduler mới với Clock được inject.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Register đăng ký một job. Interval không hợp lệ sẽ về mặc định 1 giờ.
func (s *Scheduler) Register(job Job) {
	if job.Interval <= 0 {
		job.Interval = time.Hour
	}
	s.jobs = append(s.jobs, job)
}

// Start chạy tất cả job đã đăng ký. Gọi Stop hoặc hủy ctx để dừng.
func (s *Scheduler) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, job := range s.jobs {
		log.WithFields(map[string]interface{}{
			"job":      job.Name,
			"interval": job.Interval.String(),
		}).Info("⏰ [SCHEDULER] Starting job...")

		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.runLoop(runCtx, job)
		}(job)
	}
}

// Stop dừng tất cả job và chờ các goroutine kết thúc.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// runLoop vòng lặp tick của một job.
func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	log := logger.GetAppLogger()

	ticker := s.clock.Ticker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithFields(map[string]interface{}{
				"job": job.Name,
			}).Info("⏰ [SCHEDULER] Job stopped")
			return
		case <-ticker.C():
			s.runOnce(ctx, job)
		}
	}
}

// runOnce chạy một lần tick với recover, lỗi chỉ log rồi chờ tick tiếp theo.
func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	log := logger.GetAppLogger()

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"job":   job.Name,
				"panic": r,
			}).Error("⏰ [SCHEDULER] Panic khi chạy job, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	if err := job.Run(ctx, s.clock.Now()); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"job": job.Name,
		}).Error("⏰ [SCHEDULER] Job thất bại, sẽ thử lại ở lần chạy tiếp theo")
	}
}
