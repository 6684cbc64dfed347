package workspace

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/mailer"
	"github.com/huddle-work/huddle/internal/scheduler"
	"github.com/huddle-work/huddle/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "snapshot.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)
	return New(st, sched, mailer.Discard{}, "test-secret", "http://localhost:8081", t.TempDir(), zap.NewNop())
}

func register(t *testing.T, s *Service, email, first, last string) AuthResult {
	t.Helper()
	res, err := s.Register(email, "password", first, last)
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return res
}

func mustCreateChannel(t *testing.T, s *Service, token, name string, isPublic bool) int {
	t.Helper()
	id, err := s.CreateChannel(token, name, isPublic)
	if err != nil {
		t.Fatalf("CreateChannel(%s): %v", name, err)
	}
	return id
}

func mustCreateDm(t *testing.T, s *Service, token string, userIDs ...int) int {
	t.Helper()
	if userIDs == nil {
		userIDs = []int{}
	}
	id, err := s.CreateDm(token, userIDs)
	if err != nil {
		t.Fatalf("CreateDm: %v", err)
	}
	return id
}

func mustSend(t *testing.T, s *Service, token string, channelID int, body string) int {
	t.Helper()
	id, err := s.SendMessage(token, channelID, body)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	return id
}

func wantValidation(t *testing.T, err error) {
	t.Helper()
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func wantAuthorization(t *testing.T, err error) {
	t.Helper()
	if !IsAuthorization(err) {
		t.Fatalf("want authorization error, got %v", err)
	}
}

// waitFor polls cond until it holds or the deadline passes. Scheduled work
// runs on the scheduler goroutine, so tests cannot observe it synchronously.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
