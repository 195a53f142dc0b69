package reaper

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubOrderRepo struct {
	cutoff time.Time
	n      int64
	err    error
	calls  int
}

func (s *stubOrderRepo) FailStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	s.calls++
	s.cutoff = cutoff
	return s.n, s.err
}

func TestRunOnceUsesTTLCutoff(t *testing.T) {
	repo := &stubOrderRepo{n: 3}
	r := New(repo, 30*time.Minute, time.Minute, nil)

	before := time.Now().Add(-30 * time.Minute)
	r.RunOnce(context.Background())
	after := time.Now().Add(-30 * time.Minute)

	if repo.calls != 1 {
		t.Fatalf("expected one sweep, got %d", repo.calls)
	}
	if repo.cutoff.Before(before) || repo.cutoff.After(after) {
		t.Fatalf("cutoff %v not within [%v, %v]", repo.cutoff, before, after)
	}
}

func TestRunOnceSweepError(t *testing.T) {
	repo := &stubOrderRepo{err: errors.New("db down")}
	r := New(repo, 30*time.Minute, time.Minute, nil)

	r.RunOnce(context.Background())
	if repo.calls != 1 {
		t.Fatalf("expected one sweep attempt, got %d", repo.calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := &stubOrderRepo{}
	r := New(repo, time.Minute, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if repo.calls == 0 {
		t.Fatal("expected at least one sweep before cancel")
	}
}
