package inventory

import (
	"fmt"
	"strings"

	"github.com/hyperjump/showroom/internal/models"
)

// Summary renders the car collection as the line-per-vehicle context text
// embedded in chat prompts:
//
//	- Name: Tagline, Price: P. Specs: Label: Value, Label: Value
//
// An empty collection yields an empty string so the relay can fall back to
// its placeholder sentence.
func Summary(cars []*models.Car) string {
	lines := make([]string, 0, len(cars))
	for _, car := range cars {
		line := fmt.Sprintf("- %s: %s, Price: %s", car.Name, car.Tagline, car.Price)
		if len(car.Specs) > 0 {
			pairs := make([]string, 0, len(car.Specs))
			for _, s := range car.Specs {
				pairs = append(pairs, fmt.Sprintf("%s: %s", s.Label, s.Value))
			}
			line += ". Specs: " + strings.Join(pairs, ", ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
