// Package workspace implements the messaging core: identity resolution,
// membership and permission rules, channels, DMs, messages, standups,
// notifications, search and admin moderation. Operations take the caller's
// raw session token and perform their checks in a fixed per-operation order
// against a single store snapshot; they return either a result or a typed
// Error. HTTP concerns live elsewhere.
package workspace

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/mailer"
	"github.com/huddle-work/huddle/internal/scheduler"
	"github.com/huddle-work/huddle/internal/store"
)

// Service carries the core's collaborators. All state lives in the store;
// pending tracks undelivered send-later tasks per DM so that removing a DM
// can cancel them eagerly (membership loss is caught at delivery time
// instead, by re-checking preconditions inside the task). generation
// counts store wipes: scheduled work captures it at submission and drops
// itself if the store has been cleared since, so a task can never land in
// a world whose recycled ids happen to match its preconditions.
type Service struct {
	store  *store.Store
	sched  *scheduler.Scheduler
	mail   mailer.Mailer
	logger *zap.Logger

	secret    string
	baseURL   string
	avatarDir string

	now func() time.Time

	mu         sync.Mutex
	generation int
	pending    map[int][]*scheduler.Task
}

func New(st *store.Store, sched *scheduler.Scheduler, mail mailer.Mailer, secret, baseURL, avatarDir string, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		sched:     sched,
		mail:      mail,
		logger:    logger,
		secret:    secret,
		baseURL:   baseURL,
		avatarDir: avatarDir,
		now:       time.Now,
		pending:   make(map[int][]*scheduler.Task),
	}
}

// Clear resets the whole store and invalidates all scheduled work. The
// generation bump is what guarantees invalidation; cancelling the tracked
// tasks just releases their timers early.
func (s *Service) Clear() {
	s.mu.Lock()
	s.generation++
	pending := s.pending
	s.pending = make(map[int][]*scheduler.Task)
	s.mu.Unlock()
	for _, tasks := range pending {
		for _, t := range tasks {
			t.Cancel()
		}
	}
	s.store.Reset()
}

func (s *Service) gen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Service) trackPending(dmID int, t *scheduler.Task) {
	s.mu.Lock()
	s.pending[dmID] = append(s.pending[dmID], t)
	s.mu.Unlock()
}

func (s *Service) cancelPending(dmID int) {
	s.mu.Lock()
	tasks := s.pending[dmID]
	delete(s.pending, dmID)
	s.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}
