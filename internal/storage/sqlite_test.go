package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/showroom/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "db", "showroom.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestCarCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	car := &models.Car{
		ID:          "car-1",
		Name:        "Ioniq 5",
		Tagline:     "Electric crossover",
		Price:       "$45,000",
		Images:      []string{"a.jpg", "b.jpg"},
		Description: "A very nice car.",
		Specs:       []models.CarSpec{{Label: "Range", Value: "488 km"}, {Label: "Seats", Value: "5"}},
	}
	if err := s.CreateCar(ctx, car); err != nil {
		t.Fatalf("CreateCar: %v", err)
	}

	got, err := s.GetCar(ctx, "car-1")
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	// Cover image is derived from the image list on write.
	if got.Image != "a.jpg" {
		t.Errorf("cover image = %q, want a.jpg", got.Image)
	}
	if len(got.Images) != 2 || got.Images[1] != "b.jpg" {
		t.Errorf("images = %v", got.Images)
	}
	if len(got.Specs) != 2 || got.Specs[0].Label != "Range" || got.Specs[1].Value != "5" {
		t.Errorf("specs order not preserved: %v", got.Specs)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	got.Price = "$42,000"
	if err := s.UpdateCar(ctx, got); err != nil {
		t.Fatalf("UpdateCar: %v", err)
	}
	updated, err := s.GetCar(ctx, "car-1")
	if err != nil {
		t.Fatalf("GetCar after update: %v", err)
	}
	if updated.Price != "$42,000" {
		t.Errorf("price after update = %q", updated.Price)
	}

	if err := s.DeleteCar(ctx, "car-1"); err != nil {
		t.Fatalf("DeleteCar: %v", err)
	}
	if _, err := s.GetCar(ctx, "car-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCar after delete: got %v, want ErrNotFound", err)
	}
}

func TestGetCar_notFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetCar(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateCar_notFound(t *testing.T) {
	s := newTestStorage(t)
	err := s.UpdateCar(context.Background(), &models.Car{ID: "missing", Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListCars_orderAndCount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i, id := range []string{"first", "second", "third"} {
		car := &models.Car{ID: id, Name: id}
		if err := s.CreateCar(ctx, car); err != nil {
			t.Fatalf("CreateCar %d: %v", i, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cars, err := s.ListCars(ctx)
	if err != nil {
		t.Fatalf("ListCars: %v", err)
	}
	if len(cars) != 3 {
		t.Fatalf("got %d cars, want 3", len(cars))
	}
	if cars[0].ID != "first" || cars[2].ID != "third" {
		t.Errorf("cars not in insertion order: %s, %s, %s", cars[0].ID, cars[1].ID, cars[2].ID)
	}

	count, err := s.CountCars(ctx)
	if err != nil {
		t.Fatalf("CountCars: %v", err)
	}
	if count != 3 {
		t.Errorf("CountCars = %d, want 3", count)
	}
}

func TestSettings_roundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.GetSettings(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSettings before save: got %v, want ErrNotFound", err)
	}

	settings := models.DefaultSettings()
	settings.Profile.Name = "Tono Motors"
	settings.Chatbot.CustomInstructions = "We are open 9-5."
	settings.Brochure.URL = "https://example.com/brochure.pdf"
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.Profile.Name != "Tono Motors" {
		t.Errorf("profile name = %q", got.Profile.Name)
	}
	if got.Chatbot.CustomInstructions != "We are open 9-5." {
		t.Errorf("custom instructions = %q", got.Chatbot.CustomInstructions)
	}
	if got.Brochure.URL != "https://example.com/brochure.pdf" {
		t.Errorf("brochure url = %q", got.Brochure.URL)
	}

	// Saving again replaces the whole document (last writer wins).
	settings.Profile.Name = "Tono Premium Motors"
	settings.Socials = nil
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings (replace): %v", err)
	}
	got, err = s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings after replace: %v", err)
	}
	if got.Profile.Name != "Tono Premium Motors" {
		t.Errorf("profile name after replace = %q", got.Profile.Name)
	}
	if len(got.Socials) != 0 {
		t.Errorf("socials should be gone after wholesale replace: %v", got.Socials)
	}
}

func TestAppointments(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	older := models.NewAppointment(&models.AppointmentInput{
		Model: "Ioniq 5", Name: "Budi", Phone: "+6281234567890",
	}, time.Now())
	older.ID = "appt-1"
	if err := s.CreateAppointment(ctx, older); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // created_at has second precision

	newer := models.NewAppointment(&models.AppointmentInput{
		Model: "Palisade", Name: "Sari", Phone: "+6289876543210",
	}, time.Now())
	newer.ID = "appt-2"
	if err := s.CreateAppointment(ctx, newer); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	leads, err := s.ListAppointments(ctx)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("got %d leads, want 2", len(leads))
	}
	// Inbox order: newest first.
	if leads[0].ID != "appt-2" {
		t.Errorf("first lead = %s, want appt-2", leads[0].ID)
	}
	if leads[0].Status != models.StatusNew {
		t.Errorf("lead status = %q", leads[0].Status)
	}
	if leads[0].FormName != "Test Drive Request" {
		t.Errorf("lead formName = %q", leads[0].FormName)
	}

	count, err := s.CountAppointments(ctx)
	if err != nil {
		t.Fatalf("CountAppointments: %v", err)
	}
	if count != 2 {
		t.Errorf("CountAppointments = %d, want 2", count)
	}
}
