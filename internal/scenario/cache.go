package scenario

import (
	"context"
	"fmt"
)

// Repo is the persistence contract for cached scenarios: append-only
// inserts and a "most recent for (user, topic)" lookup.
type Repo interface {
	// Latest returns the most recently cached scenario for the pair,
	// or nil if none exists.
	Latest(ctx context.Context, userID, topic string) (*Scenario, error)

	// Insert appends a validated scenario for the pair.
	Insert(ctx context.Context, userID string, s *Scenario) error
}

// Cache decides between reusing a previously generated scenario and
// requesting a fresh one. Policy: most-recent wins, generate only on
// total absence. Once any scenario is cached for a topic, repeated
// calls return it unchanged, however stale; regeneration is the
// caller's decision, as is retry on generator failure.
type Cache struct {
	repo Repo
	gen  Generator
}

// NewCache creates a Cache over the given repo and generator.
func NewCache(repo Repo, gen Generator) *Cache {
	return &Cache{repo: repo, gen: gen}
}

// GetOrGenerate returns the cached scenario for (user, topic) if one
// exists, otherwise generates, validates, caches, and returns a new
// one. Output that fails validation is never cached.
func (c *Cache) GetOrGenerate(ctx context.Context, userID, topic string) (*Scenario, error) {
	cached, err := c.repo.Latest(ctx, userID, topic)
	if err != nil {
		return nil, fmt.Errorf("cache lookup for topic %q: %w", topic, err)
	}
	if cached != nil {
		return cached, nil
	}
	return c.GenerateFresh(ctx, userID, topic)
}

// GenerateFresh generates, validates, and caches a new scenario for
// (user, topic) regardless of what is already cached; the new scenario
// becomes the latest one. Exam sampling uses this when the cached item
// has already been served in the session.
func (c *Cache) GenerateFresh(ctx context.Context, userID, topic string) (*Scenario, error) {
	s, err := c.gen.Generate(ctx, topic)
	if err != nil {
		// Generator and validation errors pass through unchanged;
		// nothing is cached on failure.
		return nil, err
	}

	if err := c.repo.Insert(ctx, userID, s); err != nil {
		return nil, fmt.Errorf("cache scenario for topic %q: %w", topic, err)
	}
	return s, nil
}
