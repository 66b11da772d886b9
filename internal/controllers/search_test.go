package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"

	"medialog/internal/models"
)

func TestRankByTitle(t *testing.T) {
	results := []models.CatalogueItem{
		{ID: "1", Title: "Naruto Shippuden"},
		{ID: "2", Title: "Boruto"},
		{ID: "3", Title: "Naruto"},
	}

	rankByTitle(results, "naruto")

	if results[0].ID != "3" {
		t.Errorf("exact title should rank first, got %s", results[0].ID)
	}
}

func TestRankByTitleStableOnTies(t *testing.T) {
	results := []models.CatalogueItem{
		{ID: "a", Title: "Dune"},
		{ID: "b", Title: "Date"},
		{ID: "c", Title: "Dine"},
	}

	// all three are distance 1 from the query; provider order must hold
	rankByTitle(results, "dane")

	for i, expected := range []models.ItemID{"a", "b", "c"} {
		if results[i].ID != expected {
			t.Errorf("position %d: expected %s, got %s", i, expected, results[i].ID)
		}
	}
}

func TestSearchServesCachedResults(t *testing.T) {
	// nil clients: a cache hit must never reach a provider
	ctrl := NewSearchController(nil, nil, nil, time.Minute, testLogger())

	cached := []models.CatalogueItem{{ID: "603", Title: "The Matrix", Type: models.MediaTypeMovie}}
	ctrl.cache.Set("movie:the matrix", cached, cache.DefaultExpiration)

	results, err := ctrl.Search(context.Background(), models.MediaTypeMovie, "The Matrix")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "603" {
		t.Fatalf("expected the cached results, got %+v", results)
	}
}

func TestSearchRejectsUnknownType(t *testing.T) {
	ctrl := NewSearchController(nil, nil, nil, time.Minute, testLogger())

	if _, err := ctrl.Search(context.Background(), "podcast", "anything"); err == nil {
		t.Error("expected an error for an unknown media type")
	}
	if _, err := ctrl.Details(context.Background(), "podcast", "1"); err == nil {
		t.Error("expected an error for an unknown media type")
	}
}
