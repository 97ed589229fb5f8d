package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/service"
)

const (
	defaultInvoiceSweepInterval = 5 * time.Minute
	defaultInvoiceSweepGrace    = 2 * time.Minute
)

// Sweeper 定期补建漏掉发票的待支付订单（进程在发票创建前退出等情况）
// 队列启用时随 worker 运行，否则作为独立服务在 API 进程中运行
type Sweeper struct {
	invoices *service.InvoiceService
	interval time.Duration
	grace    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper 创建发票补偿扫描器
func NewSweeper(invoices *service.InvoiceService, cfg config.InvoiceConfig) *Sweeper {
	if invoices == nil {
		return nil
	}
	interval, grace := sweepSchedule(cfg)
	return &Sweeper{invoices: invoices, interval: interval, grace: grace}
}

func sweepSchedule(cfg config.InvoiceConfig) (time.Duration, time.Duration) {
	interval := defaultInvoiceSweepInterval
	if cfg.SweepIntervalSeconds > 0 {
		interval = time.Duration(cfg.SweepIntervalSeconds) * time.Second
	}
	grace := defaultInvoiceSweepGrace
	if cfg.SweepGraceSeconds > 0 {
		grace = time.Duration(cfg.SweepGraceSeconds) * time.Second
	}
	return interval, grace
}

// Name 服务名称
func (s *Sweeper) Name() string {
	return "invoice-sweeper"
}

// Start 阻塞运行直到 ctx 取消或 Stop 被调用
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil || s.invoices == nil {
		return errors.New("sweeper not initialized")
	}
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer close(done)
	s.loop(ctx)
	return nil
}

// Stop 停止扫描
func (s *Sweeper) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce 执行一次扫描，返回处理的订单数
func (s *Sweeper) RunOnce(ctx context.Context) int {
	handled, err := s.invoices.RetryMissingInvoices(ctx, s.grace)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warnw("worker_invoice_sweep_failed", "error", err)
	}
	if handled > 0 {
		logger.Infow("worker_invoice_sweep_done", "handled", handled)
	}
	return handled
}

func (s *Sweeper) loop(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
