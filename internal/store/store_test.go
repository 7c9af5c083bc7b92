package store

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pathologix/emtrainer/internal/exam"
	"github.com/pathologix/emtrainer/internal/llm"
	"github.com/pathologix/emtrainer/internal/scenario"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPerformanceRepo_OnlineMean(t *testing.T) {
	s := newTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	// 3 correct out of 5.
	outcomes := []bool{true, false, true, true, false}
	for _, c := range outcomes {
		if _, err := repo.RecordAttempt(ctx, "u1", "Airway", c); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := repo.ListByAccuracy(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Attempts != 5 {
		t.Errorf("attempts = %d, want 5", recs[0].Attempts)
	}
	if math.Abs(recs[0].Accuracy-0.6) > 1e-9 {
		t.Errorf("accuracy = %v, want 0.6", recs[0].Accuracy)
	}
}

func TestPerformanceRepo_OrdersByAccuracyThenTopic(t *testing.T) {
	s := newTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	_, _ = repo.RecordAttempt(ctx, "u1", "Airway", true)
	_, _ = repo.RecordAttempt(ctx, "u1", "Trauma", false)
	_, _ = repo.RecordAttempt(ctx, "u1", "Cardiology", false)

	recs, err := repo.ListByAccuracy(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	got := []string{recs[0].Topic, recs[1].Topic, recs[2].Topic}
	want := []string{"Cardiology", "Trauma", "Airway"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPerformanceRepo_ConcurrentAttempts(t *testing.T) {
	s := newTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		correct := i%2 == 0
		go func() {
			defer wg.Done()
			if _, err := repo.RecordAttempt(ctx, "u1", "Trauma", correct); err != nil {
				t.Errorf("record attempt: %v", err)
			}
		}()
	}
	wg.Wait()

	recs, err := repo.ListByAccuracy(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Attempts != n {
		t.Fatalf("attempts = %d, want %d (lost updates)", recs[0].Attempts, n)
	}
	if math.Abs(recs[0].Accuracy-0.5) > 1e-9 {
		t.Fatalf("accuracy = %v, want 0.5", recs[0].Accuracy)
	}
}

func TestPerformanceRepo_Reset(t *testing.T) {
	s := newTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	_, _ = repo.RecordAttempt(ctx, "u1", "Airway", true)
	_, _ = repo.RecordAttempt(ctx, "u2", "Airway", true)
	if err := repo.Reset(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	recs, _ := repo.ListByAccuracy(ctx, "u1")
	if len(recs) != 0 {
		t.Errorf("u1 records after reset = %d, want 0", len(recs))
	}
	recs, _ = repo.ListByAccuracy(ctx, "u2")
	if len(recs) != 1 {
		t.Errorf("u2 records = %d, want 1 (reset must not cross users)", len(recs))
	}
}

func storedScenario(id, topic string, createdAt time.Time) *scenario.Scenario {
	return &scenario.Scenario{
		ID:        id,
		Domain:    scenario.DomainMedical,
		Topic:     topic,
		Vignette:  "A 54-year-old male reports crushing substernal chest pain.",
		Question:  "What is the MOST appropriate initial intervention?",
		Cues:      []scenario.Cue{{Text: "chest pain", Rationale: "r"}},
		Choices:   []scenario.Choice{{ID: scenario.ChoiceA, Text: "Aspirin", Correct: true, WhyRight: "r"}},
		CreatedAt: createdAt,
	}
}

func TestScenarioRepo_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := s.ScenarioRepo()
	ctx := context.Background()

	if got, err := repo.Latest(ctx, "u1", "Cardiology"); err != nil || got != nil {
		t.Fatalf("empty repo: got %v, %v; want nil, nil", got, err)
	}

	orig := storedScenario("s1", "Cardiology", time.Now().UTC())
	if err := repo.Insert(ctx, "u1", orig); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Latest(ctx, "u1", "Cardiology")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "s1" {
		t.Fatalf("latest = %+v, want s1", got)
	}
	if got.Vignette != orig.Vignette || len(got.Choices) != 1 || !got.Choices[0].Correct {
		t.Error("payload did not survive the round trip")
	}
}

func TestScenarioRepo_LatestWins(t *testing.T) {
	s := newTestStore(t)
	repo := s.ScenarioRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	_ = repo.Insert(ctx, "u1", storedScenario("older", "Trauma", base))
	_ = repo.Insert(ctx, "u1", storedScenario("newer", "Trauma", base.Add(time.Second)))

	got, err := repo.Latest(ctx, "u1", "Trauma")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "newer" {
		t.Fatalf("latest = %q, want newer", got.ID)
	}
}

func TestScenarioRepo_IsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	repo := s.ScenarioRepo()
	ctx := context.Background()

	_ = repo.Insert(ctx, "u1", storedScenario("s1", "Trauma", time.Now().UTC()))

	got, err := repo.Latest(ctx, "u2", "Trauma")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("u2 sees u1's scenario %q", got.ID)
	}
}

func TestScenarioRepo_CountByTopic(t *testing.T) {
	s := newTestStore(t)
	repo := s.ScenarioRepo()
	ctx := context.Background()

	now := time.Now().UTC()
	_ = repo.Insert(ctx, "u1", storedScenario("s1", "Trauma", now))
	_ = repo.Insert(ctx, "u1", storedScenario("s2", "Trauma", now))
	_ = repo.Insert(ctx, "u1", storedScenario("s3", "Airway", now))

	counts, err := repo.CountByTopic(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if counts["Trauma"] != 2 || counts["Airway"] != 1 {
		t.Fatalf("counts = %v, want Trauma:2 Airway:1", counts)
	}
}

func TestAttemptRepo_ReportAndSessions(t *testing.T) {
	s := newTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	a := &exam.Attempt{
		ItemID:           "item-1",
		Topic:            "Trauma",
		Selected:         scenario.ChoiceB,
		Correct:          false,
		TimeSpentSeconds: 42,
		Expired:          false,
	}
	if err := repo.Report(ctx, "sess-1", "u1", a); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM exam_attempts WHERE session_id = 'sess-1'`,
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("attempts stored = %d, want 1", count)
	}

	sess := &exam.Session{ID: "sess-1", UserID: "u1", StartTime: time.Now()}
	if err := repo.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	sessions, err := repo.RecentSessions(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != "sess-1" {
		t.Fatalf("sessions = %+v, want one with ID sess-1", sessions)
	}
}

func TestLLMEventRepo_AppendAndQuery(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []llm.RequestEvent{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 120, OutputTokens: 60, LatencyMs: 1100, Success: true},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "ping", InputTokens: 10, OutputTokens: 5, LatencyMs: 200, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2 (limit)", len(got))
	}
	if got[0].Purpose != "ping" {
		t.Errorf("newest first: got %q, want ping", got[0].Purpose)
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "scenario-gen"})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered events = %d, want 2", len(filtered))
	}

	one, err := repo.GetLLMEvent(ctx, filtered[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if one == nil || one.RequestBody != "req" || one.ResponseBody != "resp" {
		t.Fatalf("event = %+v, want captured bodies", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown event id")
	}
}

func TestLLMEventRepo_UsageAggregates(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	_ = repo.AppendLLMRequest(ctx, llm.RequestEvent{Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 1000, Success: true})
	_ = repo.AppendLLMRequest(ctx, llm.RequestEvent{Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 2000, Success: true})

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 1 {
		t.Fatalf("purposes = %d, want 1", len(byPurpose))
	}
	u := byPurpose[0]
	if u.Calls != 2 || u.InputTokens != 200 || u.OutputTokens != 100 || u.AvgLatencyMs != 1500 {
		t.Fatalf("usage = %+v", u)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 2 {
		t.Fatalf("model usage = %+v", byModel)
	}
}

func TestStore_CacheIntegration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gen := &countingGenerator{}
	cache := scenario.NewCache(s.ScenarioRepo(), gen)

	first, err := cache.GetOrGenerate(ctx, "u1", "Airway")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.GetOrGenerate(ctx, "u1", "Airway")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("warm cache regenerated: %q then %q", first.ID, second.ID)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
}

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Generate(_ context.Context, topic string) (*scenario.Scenario, error) {
	g.calls++
	return storedScenario("gen-1", topic, time.Now().UTC()), nil
}
