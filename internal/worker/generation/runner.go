package generation

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/usecase/generate_slots"
)

const defaultQueueSize = 64

// Runner фоновый исполнитель генерации слотов
// Принимает заявки через буферизованную очередь и раз в interval запускает полный прогон,
// который продлевает горизонт и добирает заявки, отброшенные при переполнении очереди
type Runner struct {
	generator Generator
	queue     chan domain.GenerationRequest
	interval  time.Duration
	logger    Logger

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewRunner создает раннер; interval <= 0 отключает периодический прогон
func NewRunner(generator Generator, queueSize int, interval time.Duration, logger Logger) *Runner {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Runner{
		generator: generator,
		queue:     make(chan domain.GenerationRequest, queueSize),
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Enqueue ставит заявку в очередь не блокируясь
func (r *Runner) Enqueue(_ context.Context, req domain.GenerationRequest) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		return ErrStopped
	}

	select {
	case r.queue <- req:
		return nil
	default:
		r.logger.Warn("GenerationRunner: queue is full, dropping request reason=%s, schedules=%v", req.Reason, req.ScheduleIDs)
		return ErrQueueFull
	}
}

// Start запускает цикл обработки в отдельной горутине
// Первый полный прогон выполняется сразу, дальше по таймеру. Цикл завершается с отменой ctx
func (r *Runner) Start(ctx context.Context) {
	go r.loop(ctx)
}

// Wait ждет завершения цикла после отмены контекста
func (r *Runner) Wait() {
	<-r.done
}

// RunOnce синхронно выполняет одну заявку
func (r *Runner) RunOnce(ctx context.Context, req domain.GenerationRequest) (*generate_slots.Report, error) {
	r.logger.Info("GenerationRunner: run reason=%s, schedules=%d", req.Reason, len(req.ScheduleIDs))

	report, err := r.generator.Execute(ctx, &generate_slots.Request{ScheduleIDs: req.ScheduleIDs})
	if err != nil {
		r.logger.Error("GenerationRunner: run reason=%s failed: %v", req.Reason, err)
		return nil, err
	}
	if report.HasFailures() {
		r.logger.Warn("GenerationRunner: run reason=%s finished with %d failed schedules", req.Reason, len(report.Failures))
	}
	return report, nil
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	defer r.stop()

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C

		r.runPeriodic(ctx)
	}

	r.logger.Info("GenerationRunner: started, interval=%s, queue=%d", r.interval, cap(r.queue))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("GenerationRunner: stopping, %d queued requests dropped", len(r.queue))
			return
		case req := <-r.queue:
			_, _ = r.RunOnce(ctx, req)
		case <-tick:
			r.runPeriodic(ctx)
		}
	}
}

func (r *Runner) runPeriodic(ctx context.Context) {
	_, _ = r.RunOnce(ctx, domain.GenerationRequest{
		Reason:      domain.GenerationReasonPeriodic,
		RequestedAt: time.Now(),
	})
}

func (r *Runner) stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}
