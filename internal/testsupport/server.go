package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"learningcenter/internal/publishing"
)

const (
	CategoriesCollection = "categories"
	TutorialsCollection  = "tutorials"

	apiPrefix = "/api/v1"
)

// ListShape selects how the fake server encodes list responses.
type ListShape int

const (
	// ListArray returns a bare JSON array.
	ListArray ListShape = iota
	// ListKeyed returns {"<collection>": [...]}.
	ListKeyed
)

// Fault is a one-shot response override. A zero Status with a Delay only
// slows the request down before normal handling.
type Fault struct {
	Status int
	Body   string
	Delay  time.Duration
}

// RecordedRequest captures one request received by the fake server.
type RecordedRequest struct {
	Method    string
	Path      string
	Body      string
	RequestID string
	UserAgent string
}

type record = map[string]any

type collection struct {
	nextID int64
	items  []record
}

// PublishingServer is an in-memory stand-in for the publishing REST API.
type PublishingServer struct {
	srv *httptest.Server

	mu          sync.Mutex
	collections map[string]*collection
	shape       ListShape
	faults      map[string][]Fault
	requests    []RecordedRequest
}

// NewPublishingServer starts a fake API on a loopback port and registers
// cleanup with t.
func NewPublishingServer(t testing.TB) *PublishingServer {
	t.Helper()

	s := &PublishingServer{
		collections: map[string]*collection{
			CategoriesCollection: {nextID: 1},
			TutorialsCollection:  {nextID: 1},
		},
		faults: make(map[string][]Fault),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *PublishingServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.recordRequest)
	r.Use(s.applyFault)

	r.Route(apiPrefix, func(r chi.Router) {
		for _, name := range []string{CategoriesCollection, TutorialsCollection} {
			r.Route("/"+name, func(r chi.Router) {
				r.Get("/", s.list(name))
				r.Post("/", s.create(name))
				r.Get("/{id}", s.get(name))
				r.Put("/{id}", s.update(name))
				r.Delete("/{id}", s.delete(name))
			})
		}
	})
	return r
}

// BaseURL returns the API root, e.g. http://127.0.0.1:PORT/api/v1.
func (s *PublishingServer) BaseURL() string {
	return s.srv.URL + apiPrefix
}

// SetListShape switches between bare-array and keyed list envelopes.
func (s *PublishingServer) SetListShape(shape ListShape) {
	s.mu.Lock()
	s.shape = shape
	s.mu.Unlock()
}

// Inject queues a one-shot fault for the next request matching method on
// collection. Faults for the same key are consumed in order.
func (s *PublishingServer) Inject(method, collectionName string, fault Fault) {
	s.mu.Lock()
	key := faultKey(method, collectionName)
	s.faults[key] = append(s.faults[key], fault)
	s.mu.Unlock()
}

// SeedCategories stores categories, assigning ids to unpersisted ones.
func (s *PublishingServer) SeedCategories(categories ...publishing.Category) {
	for _, c := range categories {
		s.seed(CategoriesCollection, c)
	}
}

// SeedTutorials stores tutorials, assigning ids to unpersisted ones.
func (s *PublishingServer) SeedTutorials(tutorials ...publishing.Tutorial) {
	for _, tut := range tutorials {
		s.seed(TutorialsCollection, tut)
	}
}

// Count returns the number of stored items in collection.
func (s *PublishingServer) Count(collectionName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collectionName].items)
}

// Requests returns a copy of every request received so far.
func (s *PublishingServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *PublishingServer) seed(name string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	var item record
	if err := json.Unmarshal(data, &item); err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name].insert(item)
}

func (s *PublishingServer) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
			UserAgent: r.Header.Get("User-Agent"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *PublishingServer) applyFault(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fault, ok := s.takeFault(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if fault.Status == 0 {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fault.Status)
		_, _ = io.WriteString(w, fault.Body)
	})
}

func (s *PublishingServer) takeFault(r *http.Request) (Fault, bool) {
	name := collectionFromPath(r.URL.Path)
	if name == "" {
		return Fault{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := faultKey(r.Method, name)
	queue := s.faults[key]
	if len(queue) == 0 {
		return Fault{}, false
	}
	s.faults[key] = queue[1:]
	return queue[0], true
}

func (s *PublishingServer) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		items := append([]record{}, s.collections[name].items...)
		shape := s.shape
		s.mu.Unlock()

		if shape == ListKeyed {
			writeJSON(w, http.StatusOK, map[string]any{name: items})
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *PublishingServer) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		s.mu.Lock()
		idx := s.collections[name].index(id)
		var item record
		if ok && idx >= 0 {
			item = s.collections[name].items[idx]
		}
		s.mu.Unlock()
		if item == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func (s *PublishingServer) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item record
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		s.mu.Lock()
		stored := s.collections[name].insert(item)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, stored)
	}
}

func (s *PublishingServer) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		var item record
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		s.mu.Lock()
		coll := s.collections[name]
		idx := coll.index(id)
		if ok && idx >= 0 {
			item["id"] = id
			coll.items[idx] = item
		}
		s.mu.Unlock()
		if !ok || idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func (s *PublishingServer) delete(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		s.mu.Lock()
		coll := s.collections[name]
		idx := coll.index(id)
		if ok && idx >= 0 {
			coll.items = append(coll.items[:idx], coll.items[idx+1:]...)
		}
		s.mu.Unlock()
		if !ok || idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}
}

// insert stores item, assigning the next id when it has none, and returns it.
func (c *collection) insert(item record) record {
	id := numericID(item["id"])
	if id <= 0 {
		id = c.nextID
	}
	if id >= c.nextID {
		c.nextID = id + 1
	}
	item["id"] = id
	c.items = append(c.items, item)
	return item
}

func (c *collection) index(id int64) int {
	for i, item := range c.items {
		if numericID(item["id"]) == id {
			return i
		}
	}
	return -1
}

func numericID(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func collectionFromPath(path string) string {
	for _, name := range []string{CategoriesCollection, TutorialsCollection} {
		prefix := apiPrefix + "/" + name
		if path == prefix || len(path) > len(prefix) && path[:len(prefix)+1] == prefix+"/" {
			return name
		}
	}
	return ""
}

func faultKey(method, collectionName string) string {
	return method + " " + collectionName
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
