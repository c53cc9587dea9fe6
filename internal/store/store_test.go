package store_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"learningcenter/internal/httpapi"
	"learningcenter/internal/publishing"
	"learningcenter/internal/publishingapi"
	"learningcenter/internal/services"
	"learningcenter/internal/store"
	"learningcenter/internal/testsupport"
)

func newStore(t *testing.T) (*store.Store, *testsupport.PublishingServer) {
	t.Helper()
	srv := testsupport.NewPublishingServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithServer(srv))
	return testsupport.MustOpenStore(t, cfg), srv
}

func TestFetchCategoriesMarksLoaded(t *testing.T) {
	for _, shape := range []testsupport.ListShape{testsupport.ListArray, testsupport.ListKeyed} {
		st, srv := newStore(t)
		srv.SetListShape(shape)
		srv.SeedCategories(
			publishing.Category{Name: "Go"},
			publishing.Category{Name: "Rust"},
			publishing.Category{Name: "Zig"},
		)

		if st.CategoriesLoaded() || st.CategoriesCount() != 0 {
			t.Fatal("store should start empty and unloaded")
		}
		st.FetchCategories(context.Background())
		st.Wait()

		if !st.CategoriesLoaded() {
			t.Fatalf("shape %d: categories not marked loaded", shape)
		}
		if st.CategoriesCount() != 3 {
			t.Fatalf("shape %d: count = %d, want 3", shape, st.CategoriesCount())
		}
		if len(st.Errors()) != 0 {
			t.Fatalf("unexpected errors: %v", st.Errors())
		}
	}
}

func TestFetchTutorialsMarksLoaded(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedTutorials(publishing.Tutorial{Title: "A"}, publishing.Tutorial{Title: "B"})

	st.FetchTutorials(context.Background())
	st.Wait()

	if !st.TutorialsLoaded() || st.TutorialsCount() != 2 {
		t.Fatalf("loaded=%v count=%d", st.TutorialsLoaded(), st.TutorialsCount())
	}
	if st.CategoriesLoaded() {
		t.Fatal("fetching tutorials must not flip the categories flag")
	}
}

func TestAddCategoryFindableByNumberAndString(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{ID: 6, Name: "Seed"})

	st.AddCategory(context.Background(), publishing.NewCategory(publishing.CategoryParams{Name: "X"}))
	st.Wait()

	byID, ok := st.CategoryByID(7)
	if !ok || byID.Name != "X" {
		t.Fatalf("CategoryByID(7) = %+v, %v", byID, ok)
	}
	byRef, ok := st.CategoryByRef("7")
	if !ok || byRef != byID {
		t.Fatalf("CategoryByRef(\"7\") = %+v, %v", byRef, ok)
	}
	if _, ok := st.CategoryByRef("seven"); ok {
		t.Fatal("non-numeric reference should be absent")
	}
	if _, ok := st.CategoryByID(6); ok {
		t.Fatal("category 6 was never loaded into the store")
	}
}

func TestDeleteCategoryDecrementsCount(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(
		publishing.Category{ID: 7, Name: "X"},
		publishing.Category{ID: 8, Name: "Y"},
	)
	st.FetchCategories(context.Background())
	st.Wait()
	before := st.CategoriesCount()

	target, _ := st.CategoryByID(7)
	st.DeleteCategory(context.Background(), target)
	st.Wait()

	if _, ok := st.CategoryByID(7); ok {
		t.Fatal("category 7 still present after delete")
	}
	if st.CategoriesCount() != before-1 {
		t.Fatalf("count = %d, want %d", st.CategoriesCount(), before-1)
	}
}

func TestUpdateCategoryReplacesInPlace(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(
		publishing.Category{ID: 1, Name: "A"},
		publishing.Category{ID: 2, Name: "B"},
		publishing.Category{ID: 3, Name: "C"},
	)
	st.FetchCategories(context.Background())
	st.Wait()

	st.UpdateCategory(context.Background(), publishing.Category{ID: 2, Name: "B2"})
	st.Wait()

	got := st.Categories()
	if len(got) != 3 || got[1] != (publishing.Category{ID: 2, Name: "B2"}) {
		t.Fatalf("categories = %+v", got)
	}
}

func TestUpdateUnknownLocalIDIsNoop(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{ID: 1, Name: "A"}, publishing.Category{ID: 5, Name: "Remote only"})
	srv.SeedTutorials(publishing.Tutorial{ID: 9, Title: "Remote only"})
	st.AddCategory(context.Background(), publishing.Category{Name: "Local"})
	st.Wait()

	var changes []store.Change
	unsubscribe := st.Subscribe(func(c store.Change) { changes = append(changes, c) })
	defer unsubscribe()

	before := st.Snapshot()
	st.UpdateCategory(context.Background(), publishing.Category{ID: 5, Name: "Renamed"})
	st.UpdateTutorial(context.Background(), publishing.Tutorial{ID: 9, Title: "Renamed"})
	st.DeleteCategory(context.Background(), publishing.Category{ID: 1})
	st.Wait()

	after := st.Snapshot()
	if len(after.Categories) != len(before.Categories) || after.Categories[0] != before.Categories[0] {
		t.Fatalf("state changed: before=%+v after=%+v", before.Categories, after.Categories)
	}
	if len(after.Errors) != 0 {
		t.Fatalf("no-op update/delete should not record errors: %v", after.Errors)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no changes, got %+v", changes)
	}
}

func TestRejectedCreateRecordsErrorOnly(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedTutorials(publishing.Tutorial{Title: "Existing"})
	st.FetchTutorials(context.Background())
	st.Wait()
	before := st.Tutorials()

	srv.Inject(http.MethodPost, testsupport.TutorialsCollection, testsupport.Fault{Status: http.StatusInternalServerError, Body: `{"message":"boom"}`})
	st.AddTutorial(context.Background(), publishing.Tutorial{Title: "Rejected"})
	st.Wait()

	after := st.Tutorials()
	if len(after) != len(before) || after[0].Title != before[0].Title {
		t.Fatalf("tutorials changed: %+v", after)
	}
	errs := st.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !errors.Is(errs[0], services.ErrStatus) {
		t.Fatalf("expected status error, got %v", errs[0])
	}
	if services.Classify(errs[0]) != "server" {
		t.Fatalf("Classify = %q", services.Classify(errs[0]))
	}
}

func TestMalformedEnvelopeRecordsErrorWithoutLoading(t *testing.T) {
	st, srv := newStore(t)
	srv.Inject(http.MethodGet, testsupport.CategoriesCollection, testsupport.Fault{Status: http.StatusOK, Body: `{"items":[{"id":1}]}`})

	st.FetchCategories(context.Background())
	st.Wait()

	if st.CategoriesLoaded() {
		t.Fatal("malformed envelope must not mark categories loaded")
	}
	errs := st.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], publishingapi.ErrMalformedEnvelope) {
		t.Fatalf("expected malformed envelope error, got %v", errs)
	}
}

func TestNonOKSuccessStatusLoadsEmpty(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{Name: "Hidden"})
	srv.Inject(http.MethodGet, testsupport.CategoriesCollection, testsupport.Fault{Status: http.StatusNonAuthoritativeInfo, Body: `[{"id":1,"name":"Hidden"}]`})

	st.FetchCategories(context.Background())
	st.Wait()

	if !st.CategoriesLoaded() || st.CategoriesCount() != 0 {
		t.Fatalf("loaded=%v count=%d", st.CategoriesLoaded(), st.CategoriesCount())
	}
	if len(st.Errors()) != 0 {
		t.Fatalf("non-200 success is recovered, not an error: %v", st.Errors())
	}
}

func TestTransportFailureRecordsError(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL("http://127.0.0.1:1/unreachable"))
	st := testsupport.MustOpenStore(t, cfg)

	st.FetchTutorials(context.Background())
	st.Wait()

	errs := st.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], services.ErrTransport) {
		t.Fatalf("expected one transport error, got %v", errs)
	}
	if st.TutorialsLoaded() {
		t.Fatal("failed fetch must not mark tutorials loaded")
	}
}

func TestDeleteTutorialRemovesOnlyTarget(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedTutorials(
		publishing.Tutorial{Title: "A"},
		publishing.Tutorial{Title: "B"},
		publishing.Tutorial{Title: "C"},
	)
	st.FetchTutorials(context.Background())
	st.Wait()

	target, ok := st.TutorialByRef(" 2 ")
	if !ok || target.Title != "B" {
		t.Fatalf("TutorialByRef = %+v, %v", target, ok)
	}
	st.DeleteTutorial(context.Background(), target)
	st.Wait()

	got := st.Tutorials()
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "C" {
		t.Fatalf("tutorials = %+v", got)
	}
}

func TestUpdateTutorialReplacesEntry(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedTutorials(publishing.Tutorial{Title: "A", Summary: "old"})
	st.FetchTutorials(context.Background())
	st.Wait()

	current, _ := st.TutorialByID(1)
	current.Summary = "new"
	current.CategoryID = 4
	st.UpdateTutorial(context.Background(), current)
	st.Wait()

	got, ok := st.TutorialByID(1)
	if !ok || got.Summary != "new" || got.CategoryID != 4 {
		t.Fatalf("TutorialByID(1) = %+v, %v", got, ok)
	}
}

func TestSubscribersSeeChangesInOrder(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{Name: "Seed"})

	var (
		mu    sync.Mutex
		kinds []store.ChangeKind
	)
	unsubscribe := st.Subscribe(func(c store.Change) {
		mu.Lock()
		kinds = append(kinds, c.Kind)
		mu.Unlock()
	})

	ctx := context.Background()
	st.FetchCategories(ctx)
	st.Wait()
	st.AddCategory(ctx, publishing.Category{Name: "New"})
	st.Wait()
	st.UpdateCategory(ctx, publishing.Category{ID: 2, Name: "Newer"})
	st.Wait()
	st.DeleteCategory(ctx, publishing.Category{ID: 1})
	st.Wait()
	srv.Inject(http.MethodGet, testsupport.CategoriesCollection, testsupport.Fault{Status: http.StatusBadGateway})
	st.FetchCategories(ctx)
	st.Wait()

	unsubscribe()
	st.AddCategory(ctx, publishing.Category{Name: "Unobserved"})
	st.Wait()

	want := []store.ChangeKind{
		store.CategoriesReplaced,
		store.CategoryAdded,
		store.CategoryUpdated,
		store.CategoryRemoved,
		store.ErrorRecorded,
	}
	mu.Lock()
	defer mu.Unlock()
	if len(kinds) != len(want) {
		t.Fatalf("changes = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("change %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	st, srv := newStore(t)
	srv.Inject(http.MethodPost, testsupport.CategoriesCollection, testsupport.Fault{Delay: 50 * time.Millisecond})

	var (
		mu      sync.Mutex
		indexes []int
		active  int
		overlap bool
	)
	st.Subscribe(func(c store.Change) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		indexes = append(indexes, c.Index)
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
	})

	const n = 8
	for i := 0; i < n; i++ {
		st.AddCategory(context.Background(), publishing.Category{Name: "C"})
	}
	st.Wait()

	if st.CategoriesCount() != n {
		t.Fatalf("count = %d, want %d", st.CategoriesCount(), n)
	}
	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Fatal("observers ran concurrently")
	}
	for i, idx := range indexes {
		if idx != i {
			t.Fatalf("change indexes out of order: %v", indexes)
		}
	}
	seen := map[publishing.ID]bool{}
	for _, c := range st.Categories() {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
	}
}

// gatedAPI serves empty lists, holding GetCategories until gate is closed.
type gatedAPI struct {
	gate chan struct{}
}

func (g gatedAPI) empty() (*httpapi.Response, error) {
	return &httpapi.Response{StatusCode: http.StatusOK, Body: []byte("[]")}, nil
}

func (g gatedAPI) GetCategories(ctx context.Context) (*httpapi.Response, error) {
	<-g.gate
	return g.empty()
}

func (g gatedAPI) CreateCategory(context.Context, publishing.Resource) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) UpdateCategory(context.Context, publishing.ID, publishing.Resource) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) DeleteCategory(context.Context, publishing.ID) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) GetTutorials(context.Context) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) CreateTutorial(context.Context, publishing.Resource) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) UpdateTutorial(context.Context, publishing.ID, publishing.Resource) (*httpapi.Response, error) {
	return g.empty()
}

func (g gatedAPI) DeleteTutorial(context.Context, publishing.ID) (*httpapi.Response, error) {
	return g.empty()
}

func TestWaitBlocksUntilEarlierActionsSettle(t *testing.T) {
	api := gatedAPI{gate: make(chan struct{})}
	st := store.New(api)

	st.FetchCategories(context.Background())

	returned := make(chan struct{})
	go func() {
		st.Wait()
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("Wait returned while a fetch was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(api.gate)
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after the fetch settled")
	}
	if !st.CategoriesLoaded() {
		t.Fatal("categories should be loaded once Wait returns")
	}
}

func TestWaitWhileActionsStart(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{Name: "Go"})

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			st.FetchCategories(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			st.Wait()
		}
	}()
	wg.Wait()
	st.Wait()

	if !st.CategoriesLoaded() {
		t.Fatal("categories should be loaded")
	}
	if len(st.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", st.Errors())
	}
	if st.CategoriesCount() != 1 {
		t.Fatalf("count = %d, want 1", st.CategoriesCount())
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{Name: "Go"})
	srv.SeedTutorials(publishing.Tutorial{Title: "T", CategoryID: 1, Category: &publishing.Category{ID: 1, Name: "Go"}})
	st.FetchCategories(context.Background())
	st.FetchTutorials(context.Background())
	st.Wait()

	snap := st.Snapshot()
	if snap.CategoriesCount() != 1 || snap.TutorialsCount() != 1 {
		t.Fatalf("snapshot counts = %d/%d", snap.CategoriesCount(), snap.TutorialsCount())
	}
	snap.Categories[0].Name = "mutated"
	snap.Tutorials[0].Category.Name = "mutated"
	snap.Errors = append(snap.Errors, errors.New("local"))

	if c, _ := st.CategoryByID(1); c.Name != "Go" {
		t.Fatalf("store category mutated through snapshot: %+v", c)
	}
	if tut, _ := st.TutorialByID(1); tut.Category == nil || tut.Category.Name != "Go" {
		t.Fatalf("store tutorial mutated through snapshot: %+v", tut.Category)
	}
	if len(st.Errors()) != 0 {
		t.Fatal("error log mutated through snapshot")
	}
}

func TestTutorialsWithCategoriesJoinsLoadedCategories(t *testing.T) {
	st, srv := newStore(t)
	srv.SeedCategories(publishing.Category{ID: 1, Name: "Go"}, publishing.Category{ID: 2, Name: "Rust"})
	srv.SeedTutorials(
		publishing.Tutorial{Title: "A", CategoryID: 2},
		publishing.Tutorial{Title: "B", CategoryID: 42},
	)
	st.FetchCategories(context.Background())
	st.FetchTutorials(context.Background())
	st.Wait()

	joined := st.TutorialsWithCategories()
	if len(joined) != 2 {
		t.Fatalf("joined = %+v", joined)
	}
	if joined[0].Category == nil || joined[0].Category.Name != "Rust" {
		t.Fatalf("tutorial A category = %+v", joined[0].Category)
	}
	if joined[1].Category != nil {
		t.Fatalf("tutorial B has no loaded category: %+v", joined[1].Category)
	}
	if raw, _ := st.TutorialByID(1); raw.Category != nil {
		t.Fatal("join must not modify stored tutorials")
	}
}

func TestLookupsBeforeLoadAreAbsent(t *testing.T) {
	st := store.New(nil)
	if _, ok := st.CategoryByID(1); ok {
		t.Fatal("CategoryByID on empty store should be absent")
	}
	if _, ok := st.TutorialByRef("1"); ok {
		t.Fatal("TutorialByRef on empty store should be absent")
	}
	if _, ok := st.CategoryByID(0); ok {
		t.Fatal("zero id is never found")
	}
}
