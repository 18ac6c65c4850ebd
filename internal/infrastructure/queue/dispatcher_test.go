package queue

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlearn/education-platform/internal/core/domain"
)

type captureService struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	done   chan struct{}
	want   int
}

func newCaptureService(want int) *captureService {
	return &captureService{done: make(chan struct{}), want: want}
}

func (s *captureService) Process(_ context.Context, event domain.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func (s *captureService) snapshot() []domain.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func waitProcessed(t *testing.T, s *captureService) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events, got %d of %d", len(s.snapshot()), s.want)
	}
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	svc := newCaptureService(3)
	d := NewDispatcher(2, svc, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.ActivityEvent{Type: domain.ActivityRegister, Username: "alice"})
	d.Record(domain.ActivityEvent{Type: domain.ActivityLoginSuccess, Username: "alice"})
	d.Record(domain.ActivityEvent{Type: domain.ActivityLoginFailure, Username: "bob"})

	waitProcessed(t, svc)

	byUser := make(map[string][]domain.ActivityType)
	for _, e := range svc.snapshot() {
		byUser[e.Username] = append(byUser[e.Username], e.Type)
	}
	if len(byUser["alice"]) != 2 || len(byUser["bob"]) != 1 {
		t.Fatalf("unexpected delivery: %+v", byUser)
	}
	// Same-user events land on one worker, so their order is preserved.
	if byUser["alice"][0] != domain.ActivityRegister || byUser["alice"][1] != domain.ActivityLoginSuccess {
		t.Fatalf("alice events out of order: %v", byUser["alice"])
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, newCaptureService(0), zerolog.New(io.Discard))

	for _, username := range []string{"alice", "bob", "", "日本語"} {
		first := d.shardIndex(username)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(username); got != first {
				t.Fatalf("shard for %q changed: %d then %d", username, first, got)
			}
		}
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shard for %q out of range: %d", username, first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		d := NewDispatcher(n, newCaptureService(0), zerolog.New(io.Discard))
		if len(d.workers) != defaultWorkers {
			t.Fatalf("NewDispatcher(%d): expected %d workers, got %d", n, defaultWorkers, len(d.workers))
		}
	}
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	// Workers are never started, so buffers fill up and further Records
	// must drop instead of blocking the caller.
	d := NewDispatcher(1, newCaptureService(0), zerolog.New(io.Discard))

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Record(domain.ActivityEvent{Type: domain.ActivityLoginSuccess, Username: "alice"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
}
