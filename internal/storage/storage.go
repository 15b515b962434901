// Package storage defines the persistence interface for cars, settings, and appointments.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/showroom/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines the persistence operations of the storefront.
type Storage interface {
	// Car operations
	CreateCar(ctx context.Context, car *models.Car) error
	GetCar(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id string) error
	ListCars(ctx context.Context) ([]*models.Car, error)
	CountCars(ctx context.Context) (int64, error)

	// Settings operations. The document is replaced wholesale on save;
	// GetSettings returns ErrNotFound when nothing has been saved yet.
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error

	// Appointment operations. Leads are append-only.
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	ListAppointments(ctx context.Context) ([]*models.Appointment, error)
	CountAppointments(ctx context.Context) (int64, error)

	Close() error
}
