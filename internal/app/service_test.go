package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apparel-shop/internal/config"
)

type fakeService struct {
	name     string
	startErr error

	mu      sync.Mutex
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "worker", startErr: errors.New("redis unreachable")}
	healthy := &fakeService{name: "http"}

	err := NewRunner(healthy, failing).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "redis unreachable" {
		t.Fatalf("expected start error, got %v", err)
	}
	if !healthy.wasStopped() || !failing.wasStopped() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if !svc.wasStopped() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerArgumentChecks(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
	opts := normalizeOptions(Options{Config: &config.Config{}})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
