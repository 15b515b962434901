// Package inventory provides keyword search over car records using Bleve.
package inventory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/showroom/internal/models"
)

// indexedCar is the flattened document shape stored in the index.
type indexedCar struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Specs       string `json:"specs"`
}

// Index is a Bleve-backed keyword index over the car collection.
type Index struct {
	index bleve.Index
}

// Result is a single search hit.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// reused; remove the directory to force a rebuild with a new mapping.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so model names
	// like "Ioniq" match exactly as typed.
	textFieldMapping.Analyzer = standard.Name
	for _, field := range []string{"name", "tagline", "price", "description", "specs"} {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	im.AddDocumentMapping("car", docMapping)
	im.DefaultType = "car"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open inventory index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewMemoryIndex creates an in-memory index, used by tests and the CLI.
func NewMemoryIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexCar adds or replaces a car in the index.
func (i *Index) IndexCar(ctx context.Context, car *models.Car) error {
	specs := make([]string, 0, len(car.Specs))
	for _, s := range car.Specs {
		specs = append(specs, s.Label+" "+s.Value)
	}
	doc := indexedCar{
		Name:        car.Name,
		Tagline:     car.Tagline,
		Price:       car.Price,
		Description: car.Description,
		Specs:       strings.Join(specs, " "),
	}
	return i.index.Index(car.ID, doc)
}

// Delete removes a car from the index.
func (i *Index) Delete(ctx context.Context, id string) error {
	return i.index.Delete(id)
}

// Search runs a match query across all fields and returns up to limit hits.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("inventory search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for n, hit := range results.Hits {
		out[n] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Rebuild re-indexes the full car collection, replacing any stale entries.
func (i *Index) Rebuild(ctx context.Context, cars []*models.Car) error {
	for _, car := range cars {
		if err := i.IndexCar(ctx, car); err != nil {
			return fmt.Errorf("failed to index car %s: %w", car.ID, err)
		}
	}
	return nil
}

// DocCount returns the number of indexed cars.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}
