// Package models defines core data structures for cars, settings, appointments, and chat.
package models

import "time"

// Car represents a vehicle record shown on the landing page.
// Price is a free-text label ("Premium Pricing", "$10,000"), not a number.
type Car struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Tagline     string    `json:"tagline" db:"tagline"`
	Price       string    `json:"price" db:"price"`
	Image       string    `json:"image" db:"image"`
	Images      []string  `json:"images,omitempty" db:"images"`
	Description string    `json:"description" db:"description"`
	Specs       []CarSpec `json:"specs,omitempty" db:"specs"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CarSpec is a single label/value specification pair. Both fields are
// unconstrained strings; order is preserved.
type CarSpec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CarInput is the input for creating or updating a car record.
type CarInput struct {
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Price       string    `json:"price"`
	Image       string    `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description"`
	Specs       []CarSpec `json:"specs,omitempty"`
}

// Normalize derives the cover image from the image list. When Images is
// non-empty the first entry becomes the cover; when only the legacy single
// Image field is set it is promoted into the list so both shapes round-trip.
func (c *Car) Normalize() {
	if len(c.Images) > 0 {
		c.Image = c.Images[0]
		return
	}
	if c.Image != "" {
		c.Images = []string{c.Image}
	}
}
