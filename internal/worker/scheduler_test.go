package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeTicker ticker điều khiển bằng tay cho test.
type fakeTicker struct {
	c        chan time.Time
	interval time.Duration
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               {}

// fakeClock clock cố định, trả về ticker điều khiển bằng tay.
type fakeClock struct {
	now     time.Time
	tickers chan *fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		tickers: make(chan *fakeTicker, 8),
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Ticker(d time.Duration) Ticker {
	t := &fakeTicker{c: make(chan time.Time, 1), interval: d}
	c.tickers <- t
	return t
}

// waitForCount chờ counter đạt giá trị mong muốn, fail nếu quá 2 giây.
func waitForCount(t *testing.T, counter *int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt64(counter) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("counter = %d, muốn %d sau 2 giây", atomic.LoadInt64(counter), want)
}

func TestSchedulerRunsJobOnTick(t *testing.T) {
	clock := newFakeClock()
	scheduler := NewScheduler(clock)

	var runs int64
	var gotNow atomic.Value
	scheduler.Register(Job{
		Name:     "test_job",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			gotNow.Store(now)
			atomic.AddInt64(&runs, 1)
			return nil
		},
	})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	ticker := <-clock.tickers
	ticker.c <- clock.now
	waitForCount(t, &runs, 1)

	// Job nhận thời điểm từ clock được inject
	if now, ok := gotNow.Load().(time.Time); !ok || !now.Equal(clock.now) {
		t.Errorf("job nhận now = %v, muốn %v", gotNow.Load(), clock.now)
	}

	ticker.c <- clock.now
	waitForCount(t, &runs, 2)
}

func TestSchedulerContinuesAfterJobError(t *testing.T) {
	clock := newFakeClock()
	scheduler := NewScheduler(clock)

	var runs int64
	scheduler.Register(Job{
		Name:     "failing_job",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			atomic.AddInt64(&runs, 1)
			return errors.New("lỗi giả lập")
		},
	})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	ticker := <-clock.tickers
	ticker.c <- clock.now
	waitForCount(t, &runs, 1)
	ticker.c <- clock.now
	waitForCount(t, &runs, 2)
}

func TestSchedulerRecoversFromPanic(t *testing.T) {
	clock := newFakeClock()
	scheduler := NewScheduler(clock)

	var runs int64
	scheduler.Register(Job{
		Name:     "panicking_job",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			atomic.AddInt64(&runs, 1)
			panic("panic giả lập")
		},
	})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	ticker := <-clock.tickers
	ticker.c <- clock.now
	waitForCount(t, &runs, 1)
	// Tick tiếp theo vẫn chạy sau panic
	ticker.c <- clock.now
	waitForCount(t, &runs, 2)
}

func TestSchedulerRunsJobsIndependently(t *testing.T) {
	clock := newFakeClock()
	scheduler := NewScheduler(clock)

	var runsA, runsB int64
	scheduler.Register(Job{Name: "job_a", Interval: time.Hour, Run: func(ctx context.Context, now time.Time) error {
		atomic.AddInt64(&runsA, 1)
		return nil
	}})
	scheduler.Register(Job{Name: "job_b", Interval: 2 * time.Hour, Run: func(ctx context.Context, now time.Time) error {
		atomic.AddInt64(&runsB, 1)
		return nil
	}})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// Thứ tự tạo ticker không xác định (mỗi job một goroutine), phân biệt theo interval
	first := <-clock.tickers
	second := <-clock.tickers
	tickerA, tickerB := first, second
	if first.interval != time.Hour {
		tickerA, tickerB = second, first
	}

	tickerA.c <- clock.now
	waitForCount(t, &runsA, 1)
	if atomic.LoadInt64(&runsB) != 0 {
		t.Error("job B không được chạy khi chỉ job A có tick")
	}

	tickerB.c <- clock.now
	waitForCount(t, &runsB, 1)
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	clock := newFakeClock()
	scheduler := NewScheduler(clock)

	var runs int64
	scheduler.Register(Job{Name: "job", Interval: time.Hour, Run: func(ctx context.Context, now time.Time) error {
		atomic.AddInt64(&runs, 1)
		return nil
	}})

	scheduler.Start(context.Background())
	ticker := <-clock.tickers
	ticker.c <- clock.now
	waitForCount(t, &runs, 1)

	scheduler.Stop()

	// Sau Stop, tick mới không được xử lý
	select {
	case ticker.c <- clock.now:
	default:
	}
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&runs); got != 1 {
		t.Errorf("runs = %d sau Stop, muốn vẫn là 1", got)
	}
}

func TestRegisterDefaultsInvalidInterval(t *testing.T) {
	scheduler := NewScheduler(newFakeClock())
	scheduler.Register(Job{Name: "job", Interval: 0})
	if scheduler.jobs[0].Interval != time.Hour {
		t.Errorf("interval = %v, muốn mặc định 1 giờ", scheduler.jobs[0].Interval)
	}
}
