package store

import (
	"context"
	"log/slog"
	"sync"

	"learningcenter/internal/httpapi"
	"learningcenter/internal/logging"
	"learningcenter/internal/publishing"
	"learningcenter/internal/publishingapi"
)

// API is the subset of the publishing facade the store drives.
type API interface {
	GetCategories(ctx context.Context) (*httpapi.Response, error)
	CreateCategory(ctx context.Context, resource publishing.Resource) (*httpapi.Response, error)
	UpdateCategory(ctx context.Context, id publishing.ID, resource publishing.Resource) (*httpapi.Response, error)
	DeleteCategory(ctx context.Context, id publishing.ID) (*httpapi.Response, error)
	GetTutorials(ctx context.Context) (*httpapi.Response, error)
	CreateTutorial(ctx context.Context, resource publishing.Resource) (*httpapi.Response, error)
	UpdateTutorial(ctx context.Context, id publishing.ID, resource publishing.Resource) (*httpapi.Response, error)
	DeleteTutorial(ctx context.Context, id publishing.ID) (*httpapi.Response, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for action outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.baseLogger = logger
		}
	}
}

// Store holds publishing state and applies API results to it.
type Store struct {
	api        API
	baseLogger *slog.Logger
	logger     *slog.Logger
	categories publishingapi.CategoryAssembler
	tutorials  publishingapi.TutorialAssembler

	// dispatch is held across mutate+notify so observers see changes one
	// at a time in application order.
	dispatch sync.Mutex
	mu       sync.RWMutex
	state    State

	subMu       sync.Mutex
	subscribers map[int]func(Change)
	nextSubID   int

	flight *inflight
}

// New creates an empty store bound to api.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:         api,
		baseLogger:  logging.NewNop(),
		subscribers: make(map[int]func(Change)),
		flight:      newInflight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.baseLogger, "publishing-store")
	s.categories = publishingapi.NewCategoryAssembler(s.baseLogger)
	s.tutorials = publishingapi.NewTutorialAssembler(s.baseLogger)
	return s
}

// Subscribe registers fn to receive every applied change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

// Wait blocks until every action started before the call has settled.
// Actions started concurrently with or after Wait do not hold it up.
func (s *Store) Wait() {
	s.flight.wait()
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Categories() []publishing.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]publishing.Category(nil), s.state.Categories...)
}

func (s *Store) Tutorials() []publishing.Tutorial {
	return s.Snapshot().Tutorials
}

// Errors returns a copy of the error log, oldest first.
func (s *Store) Errors() []error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]error(nil), s.state.Errors...)
}

func (s *Store) CategoriesLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CategoriesLoaded
}

func (s *Store) TutorialsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TutorialsLoaded
}

func (s *Store) CategoriesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CategoriesCount()
}

func (s *Store) TutorialsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TutorialsCount()
}

// CategoryByID scans the loaded categories for id. An empty or unloaded
// collection reports absent.
func (s *Store) CategoryByID(id publishing.ID) (publishing.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := findCategory(s.state.Categories, id)
	if idx < 0 {
		return publishing.Category{}, false
	}
	return s.state.Categories[idx], true
}

// CategoryByRef is CategoryByID for a textual id such as a route parameter.
func (s *Store) CategoryByRef(ref string) (publishing.Category, bool) {
	id, ok := publishing.ParseID(ref)
	if !ok {
		return publishing.Category{}, false
	}
	return s.CategoryByID(id)
}

// TutorialByID scans the loaded tutorials for id.
func (s *Store) TutorialByID(id publishing.ID) (publishing.Tutorial, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := findTutorial(s.state.Tutorials, id)
	if idx < 0 {
		return publishing.Tutorial{}, false
	}
	t := s.state.Tutorials[idx]
	return t.WithCategory(t.Category), true
}

// TutorialByRef is TutorialByID for a textual id.
func (s *Store) TutorialByRef(ref string) (publishing.Tutorial, bool) {
	id, ok := publishing.ParseID(ref)
	if !ok {
		return publishing.Tutorial{}, false
	}
	return s.TutorialByID(id)
}

// TutorialsWithCategories returns the tutorials with Category filled from the
// loaded categories by CategoryID. Tutorials whose category is not loaded
// keep whatever reference they already had. State is not modified.
func (s *Store) TutorialsWithCategories() []publishing.Tutorial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]publishing.Tutorial, len(s.state.Tutorials))
	for i, t := range s.state.Tutorials {
		if idx := findCategory(s.state.Categories, t.CategoryID); idx >= 0 {
			category := s.state.Categories[idx]
			out[i] = t.WithCategory(&category)
			continue
		}
		out[i] = t.WithCategory(t.Category)
	}
	return out
}

// apply runs mutate under the state lock and, when it reports a change,
// notifies subscribers before the next mutation may start.
func (s *Store) apply(mutate func(*State) (Change, bool)) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	change, changed := mutate(&s.state)
	s.mu.Unlock()
	if !changed {
		return
	}

	s.subMu.Lock()
	subs := make([]func(Change), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

func (s *Store) recordError(operation string, err error) {
	s.apply(func(st *State) (Change, bool) {
		st.Errors = append(st.Errors, err)
		return Change{Kind: ErrorRecorded, Operation: operation, Index: len(st.Errors) - 1, Err: err}, true
	})
}
