package inventory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/showroom/internal/models"
)

func TestIndex_SearchFindsName(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewIndex(filepath.Join(dir, "inventory"))
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	ctx := context.Background()
	car := &models.Car{
		ID:      "car-1",
		Name:    "Hyundai Ioniq 5",
		Tagline: "Electric crossover",
		Price:   "$45,000",
		Specs:   []models.CarSpec{{Label: "Range", Value: "488 km"}},
	}
	if err := idx.IndexCar(ctx, car); err != nil {
		t.Fatalf("IndexCar: %v", err)
	}

	// Standard analyzer (no stemming) so the model name matches as typed.
	results, err := idx.Search(ctx, "ioniq", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a hit for \"ioniq\"")
	}
	if results[0].ID != "car-1" {
		t.Errorf("first result ID = %q, want car-1", results[0].ID)
	}
}

func TestIndex_SearchFindsSpecs(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("NewMemoryIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	ctx := context.Background()
	car := &models.Car{
		ID:    "car-2",
		Name:  "Roadster",
		Specs: []models.CarSpec{{Label: "Transmission", Value: "manual"}},
	}
	if err := idx.IndexCar(ctx, car); err != nil {
		t.Fatalf("IndexCar: %v", err)
	}

	results, err := idx.Search(ctx, "manual", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a hit for spec value \"manual\"")
	}
}

func TestIndex_Delete(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("NewMemoryIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	ctx := context.Background()
	car := &models.Car{ID: "car-3", Name: "Uniquemobile"}
	if err := idx.IndexCar(ctx, car); err != nil {
		t.Fatalf("IndexCar: %v", err)
	}
	if err := idx.Delete(ctx, "car-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	results, err := idx.Search(ctx, "uniquemobile", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results after delete, got %d", len(results))
	}
}

func TestIndex_Rebuild(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("NewMemoryIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	cars := []*models.Car{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Beta"},
		{ID: "c", Name: "Gamma"},
	}
	if err := idx.Rebuild(context.Background(), cars); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	count, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if count != 3 {
		t.Errorf("DocCount = %d, want 3", count)
	}
}

func TestNewIndex_reopensExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory")

	idx1, err := NewIndex(path)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx1.IndexCar(ctx, &models.Car{ID: "x", Name: "Persistent"}); err != nil {
		t.Fatalf("IndexCar: %v", err)
	}
	if err := idx1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx2, err := NewIndex(path)
	if err != nil {
		t.Fatalf("NewIndex (reopen): %v", err)
	}
	defer func() {
		_ = idx2.Close()
	}()
	results, err := idx2.Search(ctx, "persistent", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("reopened index should keep documents; got %d results", len(results))
	}
}
