package controllers

import (
	"errors"
	"testing"
	"time"

	"medialog/internal/models"
)

func seedTrendingData(t *testing.T, db *models.Database, engine *ListController) {
	t.Helper()

	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		seedUser(t, db, id)
	}

	// three users track movie 42, one tracks movie 7
	for i, user := range []string{"u1", "u2", "u3"} {
		status := []models.Status{models.StatusWatching, models.StatusCompleted, models.StatusPlanToWatch}[i]
		if _, err := engine.AddItem(user, models.MediaTypeMovie, &models.ListItem{ID: "42", Title: "Answer"}, status); err != nil {
			t.Fatalf("seed add failed: %v", err)
		}
	}
	if _, err := engine.AddItem("u4", models.MediaTypeMovie, &models.ListItem{ID: "7", Title: "Seven"}, ""); err != nil {
		t.Fatalf("seed add failed: %v", err)
	}
}

func TestTrendingOrdering(t *testing.T) {
	db := newTestDatabase(t)
	engine := NewListController(db, testLogger())
	seedTrendingData(t, db, engine)

	trending := NewTrendingController(db, time.Minute, testLogger())
	entries, err := trending.Trending(models.MediaTypeMovie, 10)
	if err != nil {
		t.Fatalf("trending failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Item.ID != "42" || entries[0].Count != 3 {
		t.Errorf("expected id 42 with count 3 first, got %s with %d", entries[0].Item.ID, entries[0].Count)
	}
	if entries[1].Item.ID != "7" || entries[1].Count != 1 {
		t.Errorf("expected id 7 with count 1 second, got %s with %d", entries[1].Item.ID, entries[1].Count)
	}
	// occurrences across different buckets all count
	if entries[0].Item.Title != "Answer" {
		t.Errorf("first occurrence payload must represent the item, got %q", entries[0].Item.Title)
	}
}

func TestTrendingLimit(t *testing.T) {
	db := newTestDatabase(t)
	engine := NewListController(db, testLogger())
	seedTrendingData(t, db, engine)

	trending := NewTrendingController(db, time.Minute, testLogger())
	entries, err := trending.Trending(models.MediaTypeMovie, 1)
	if err != nil {
		t.Fatalf("trending failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the ranking truncated to 1, got %d", len(entries))
	}
	if entries[0].Item.ID != "42" {
		t.Errorf("truncation must keep the top entry, got %s", entries[0].Item.ID)
	}
}

func TestTrendingEmptyAndUnknownType(t *testing.T) {
	db := newTestDatabase(t)
	trending := NewTrendingController(db, time.Minute, testLogger())

	entries, err := trending.Trending(models.MediaTypeGame, 10)
	if err != nil {
		t.Fatalf("trending on empty store failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty ranking, got %d entries", len(entries))
	}

	if _, err := trending.Trending("podcast", 10); !errors.Is(err, models.ErrInvalidMediaType) {
		t.Errorf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestTrendingServesCachedRanking(t *testing.T) {
	db := newTestDatabase(t)
	engine := NewListController(db, testLogger())
	seedTrendingData(t, db, engine)

	trending := NewTrendingController(db, time.Minute, testLogger())
	if _, err := trending.Trending(models.MediaTypeMovie, 10); err != nil {
		t.Fatalf("trending failed: %v", err)
	}

	// a write after the snapshot is invisible until the next refresh
	seedUser(t, db, "u5")
	if _, err := engine.AddItem("u5", models.MediaTypeMovie, &models.ListItem{ID: "7", Title: "Seven"}, ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries, err := trending.Trending(models.MediaTypeMovie, 10)
	if err != nil {
		t.Fatalf("trending failed: %v", err)
	}
	if entries[1].Count != 1 {
		t.Fatalf("expected the cached snapshot, got count %d", entries[1].Count)
	}

	trending.Refresh()
	entries, err = trending.Trending(models.MediaTypeMovie, 10)
	if err != nil {
		t.Fatalf("trending failed: %v", err)
	}
	if entries[1].Count != 2 {
		t.Fatalf("expected refreshed count 2 for id 7, got %d", entries[1].Count)
	}
}
