package performance

import (
	"context"
	"math"
	"sync"
	"testing"
)

func TestOnlineMean_MatchesBatchMean(t *testing.T) {
	// 3 correct out of 5 folded one at a time must land on 0.6 exactly
	// as a batch mean would.
	outcomes := []float64{1, 0, 1, 1, 0}
	acc := 0.0
	for n, x := range outcomes {
		acc = OnlineMean(acc, n, x)
	}
	if math.Abs(acc-0.6) > 1e-9 {
		t.Fatalf("accuracy = %v, want 0.6", acc)
	}
}

func TestTracker_RecordAttempt(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	ctx := context.Background()

	rec, err := tr.RecordAttempt(ctx, "u1", "Airway", true)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Accuracy != 1.0 || rec.Attempts != 1 {
		t.Fatalf("after 1 correct: accuracy=%v attempts=%d", rec.Accuracy, rec.Attempts)
	}

	rec, err = tr.RecordAttempt(ctx, "u1", "Airway", false)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Accuracy != 0.5 || rec.Attempts != 2 {
		t.Fatalf("after 1/2 correct: accuracy=%v attempts=%d", rec.Accuracy, rec.Attempts)
	}
}

func TestTracker_WeakestTopic(t *testing.T) {
	repo := NewMemoryRepo()
	tr := NewTracker(repo)
	ctx := context.Background()

	seed := []struct {
		topic   string
		correct int
		total   int
	}{
		{"Airway", 9, 10},
		{"Trauma", 4, 10},
		{"Cardiology", 7, 10},
	}
	for _, s := range seed {
		for i := 0; i < s.total; i++ {
			if _, err := tr.RecordAttempt(ctx, "u1", s.topic, i < s.correct); err != nil {
				t.Fatal(err)
			}
		}
	}

	got, err := tr.WeakestTopic(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Trauma" {
		t.Fatalf("weakest = %q, want Trauma", got)
	}
}

func TestTracker_WeakestTopic_NoHistory(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	got, err := tr.WeakestTopic(context.Background(), "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Airway" {
		t.Fatalf("weakest for fresh user = %q, want Airway", got)
	}
}

func TestTracker_WeakestTopic_TieBreaksAlphabetically(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	ctx := context.Background()

	// Both topics at 0.0 after one wrong answer each.
	_, _ = tr.RecordAttempt(ctx, "u1", "Trauma", false)
	_, _ = tr.RecordAttempt(ctx, "u1", "Cardiology", false)

	got, err := tr.WeakestTopic(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Cardiology" {
		t.Fatalf("tie broke to %q, want Cardiology", got)
	}
}

func TestTracker_TopWeakTopics_PadsWithFallbacks(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	ctx := context.Background()

	_, _ = tr.RecordAttempt(ctx, "u1", "Obstetrics", false)

	got, err := tr.TopWeakTopics(ctx, "u1", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Obstetrics", "Airway", "Trauma"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTracker_TopWeakTopics_OrdersWeakestFirst(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	ctx := context.Background()

	_, _ = tr.RecordAttempt(ctx, "u1", "Airway", true)
	_, _ = tr.RecordAttempt(ctx, "u1", "Trauma", false)
	_, _ = tr.RecordAttempt(ctx, "u1", "Cardiology", true)
	_, _ = tr.RecordAttempt(ctx, "u1", "Cardiology", false)

	got, err := tr.TopWeakTopics(ctx, "u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "Trauma" || got[1] != "Cardiology" {
		t.Fatalf("got %v, want [Trauma Cardiology]", got)
	}
}

func TestMemoryRepo_ConcurrentRecordAttempts(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		correct := i%2 == 0
		go func() {
			defer wg.Done()
			_, _ = repo.RecordAttempt(ctx, "u1", "Airway", correct)
		}()
	}
	wg.Wait()

	recs, err := repo.ListByAccuracy(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Attempts != n {
		t.Fatalf("attempts = %d, want %d (lost updates)", recs[0].Attempts, n)
	}
	if math.Abs(recs[0].Accuracy-0.5) > 1e-9 {
		t.Fatalf("accuracy = %v, want 0.5", recs[0].Accuracy)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(NewMemoryRepo())
	ctx := context.Background()

	_, _ = tr.RecordAttempt(ctx, "u1", "Airway", false)
	if err := tr.Reset(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	got, err := tr.WeakestTopic(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Airway" {
		t.Fatalf("after reset weakest = %q, want fallback Airway", got)
	}
}
