package scenario

import (
	"context"
	"errors"
	"testing"
)

// memRepo is an in-memory Repo for cache tests.
type memRepo struct {
	items   map[string][]*Scenario // key: user + "/" + topic
	inserts int
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string][]*Scenario)}
}

func (r *memRepo) Latest(_ context.Context, userID, topic string) (*Scenario, error) {
	list := r.items[userID+"/"+topic]
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func (r *memRepo) Insert(_ context.Context, userID string, s *Scenario) error {
	r.inserts++
	key := userID + "/" + s.Topic
	r.items[key] = append(r.items[key], s)
	return nil
}

// stubGenerator returns canned scenarios or errors and counts calls.
type stubGenerator struct {
	result *Scenario
	err    error
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, topic string) (*Scenario, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	s := *g.result
	s.Topic = topic
	return &s, nil
}

func TestCache_HitSkipsGeneration(t *testing.T) {
	repo := newMemRepo()
	existing := validScenario()
	if err := repo.Insert(context.Background(), "u1", existing); err != nil {
		t.Fatal(err)
	}
	repo.inserts = 0

	gen := &stubGenerator{result: validScenario()}
	cache := NewCache(repo, gen)

	got, err := cache.GetOrGenerate(context.Background(), "u1", "Cardiology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existing.ID {
		t.Errorf("got scenario %q, want cached %q", got.ID, existing.ID)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times on cache hit, want 0", gen.calls)
	}
	if repo.inserts != 0 {
		t.Errorf("cache hit inserted %d rows, want 0", repo.inserts)
	}
}

func TestCache_MostRecentWins(t *testing.T) {
	repo := newMemRepo()
	older := validScenario()
	older.ID = "older"
	newer := validScenario()
	newer.ID = "newer"
	_ = repo.Insert(context.Background(), "u1", older)
	_ = repo.Insert(context.Background(), "u1", newer)

	cache := NewCache(repo, &stubGenerator{result: validScenario()})
	got, err := cache.GetOrGenerate(context.Background(), "u1", "Cardiology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "newer" {
		t.Errorf("got %q, want most recent %q", got.ID, "newer")
	}
}

func TestCache_MissGeneratesAndStores(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{result: validScenario()}
	cache := NewCache(repo, gen)

	got, err := cache.GetOrGenerate(context.Background(), "u1", "Trauma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Topic != "Trauma" {
		t.Errorf("Topic = %q, want Trauma", got.Topic)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if repo.inserts != 1 {
		t.Errorf("inserts = %d, want 1", repo.inserts)
	}

	// Second call must reuse the stored scenario.
	again, err := cache.GetOrGenerate(context.Background(), "u1", "Trauma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != got.ID {
		t.Errorf("second call returned %q, want cached %q", again.ID, got.ID)
	}
	if gen.calls != 1 {
		t.Errorf("generator called again on warm cache: %d calls", gen.calls)
	}
}

func TestCache_GenerateFreshBypassesLookup(t *testing.T) {
	repo := newMemRepo()
	existing := validScenario()
	existing.ID = "cached"
	_ = repo.Insert(context.Background(), "u1", existing)

	fresh := validScenario()
	fresh.ID = "fresh"
	gen := &stubGenerator{result: fresh}
	cache := NewCache(repo, gen)

	got, err := cache.GenerateFresh(context.Background(), "u1", "Cardiology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "fresh" {
		t.Errorf("got %q, want freshly generated %q", got.ID, "fresh")
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}

	// The fresh scenario is cached and becomes the latest.
	latest, err := repo.Latest(context.Background(), "u1", "Cardiology")
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != "fresh" {
		t.Errorf("latest = %q, want %q", latest.ID, "fresh")
	}
}

func TestCache_GeneratorErrorNotCached(t *testing.T) {
	repo := newMemRepo()
	genErr := errors.New("provider down")
	cache := NewCache(repo, &stubGenerator{err: genErr})

	_, err := cache.GetOrGenerate(context.Background(), "u1", "Airway")
	if !errors.Is(err, genErr) {
		t.Fatalf("expected provider error to pass through, got: %v", err)
	}
	if repo.inserts != 0 {
		t.Errorf("failed generation cached %d rows, want 0", repo.inserts)
	}
}

func TestCache_ValidationErrorNotCached(t *testing.T) {
	repo := newMemRepo()
	verr := &GenerationValidationError{
		Topic: "Airway",
		Err:   &ValidationError{Field: "choices", Message: "exactly one choice must be correct, got 2"},
	}
	cache := NewCache(repo, &stubGenerator{err: verr})

	_, err := cache.GetOrGenerate(context.Background(), "u1", "Airway")
	var gve *GenerationValidationError
	if !errors.As(err, &gve) {
		t.Fatalf("expected GenerationValidationError, got: %v", err)
	}
	if gve.Err.Field != "choices" {
		t.Errorf("violated field = %q, want choices", gve.Err.Field)
	}
	if repo.inserts != 0 {
		t.Errorf("invalid output cached %d rows, want 0", repo.inserts)
	}
}

func TestCache_IsolatedPerUser(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{result: validScenario()}
	cache := NewCache(repo, gen)

	_, err := cache.GetOrGenerate(context.Background(), "u1", "Trauma")
	if err != nil {
		t.Fatal(err)
	}
	_, err = cache.GetOrGenerate(context.Background(), "u2", "Trauma")
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (one per user)", gen.calls)
	}
}
