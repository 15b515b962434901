// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/showroom/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cars (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tagline TEXT,
		price TEXT,
		image TEXT,
		images TEXT,
		description TEXT,
		specs TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars(created_at);

	CREATE TABLE IF NOT EXISTS settings (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		model TEXT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		form_name TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_appointments_created_at ON appointments(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateCar inserts a car record. The cover image is derived before writing.
func (s *SQLiteStorage) CreateCar(ctx context.Context, car *models.Car) error {
	car.Normalize()
	imagesJSON, specsJSON, err := marshalCarFields(car)
	if err != nil {
		return err
	}

	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cars (id, name, tagline, price, image, images, description, specs, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		car.ID, car.Name, car.Tagline, car.Price, car.Image, imagesJSON, car.Description, specsJSON,
		car.CreatedAt, car.UpdatedAt,
	)
	return err
}

// GetCar returns a car by ID.
func (s *SQLiteStorage) GetCar(ctx context.Context, id string) (*models.Car, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, tagline, price, image, images, description, specs, created_at, updated_at
		 FROM cars WHERE id = ?`, id,
	)
	car, err := scanCar(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("car %s: %w", id, ErrNotFound)
	}
	return car, err
}

// UpdateCar replaces an existing car record wholesale.
func (s *SQLiteStorage) UpdateCar(ctx context.Context, car *models.Car) error {
	car.Normalize()
	imagesJSON, specsJSON, err := marshalCarFields(car)
	if err != nil {
		return err
	}

	car.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE cars SET name = ?, tagline = ?, price = ?, image = ?, images = ?, description = ?, specs = ?, updated_at = ?
		 WHERE id = ?`,
		car.Name, car.Tagline, car.Price, car.Image, imagesJSON, car.Description, specsJSON,
		car.UpdatedAt, car.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("car %s: %w", car.ID, ErrNotFound)
	}
	return nil
}

// DeleteCar removes a car by ID. No other entity references cars, so there
// is no cascade.
func (s *SQLiteStorage) DeleteCar(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	return err
}

// ListCars returns all cars, oldest first (the order they appear on the page).
func (s *SQLiteStorage) ListCars(ctx context.Context) ([]*models.Car, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tagline, price, image, images, description, specs, created_at, updated_at
		 FROM cars ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// CountCars returns the total number of car records.
func (s *SQLiteStorage) CountCars(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count)
	return count, err
}

// GetSettings returns the singleton settings document.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM settings WHERE id = ?`, models.SettingsDocID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settings: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings overwrites the whole settings document (last writer wins).
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		models.SettingsDocID, string(data), time.Now(),
	)
	return err
}

// CreateAppointment inserts a lead record.
func (s *SQLiteStorage) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (id, model, name, phone, date, status, form_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Model, a.Name, a.Phone, a.Date, a.Status, a.FormName,
	)
	return err
}

// ListAppointments returns all leads, newest first (inbox order).
func (s *SQLiteStorage) ListAppointments(ctx context.Context) ([]*models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model, name, phone, date, status, form_name
		 FROM appointments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.Model, &a.Name, &a.Phone, &a.Date, &a.Status, &a.FormName); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CountAppointments returns the total number of leads.
func (s *SQLiteStorage) CountAppointments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func marshalCarFields(car *models.Car) (imagesJSON, specsJSON string, err error) {
	images, err := json.Marshal(car.Images)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal images: %w", err)
	}
	specs, err := json.Marshal(car.Specs)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal specs: %w", err)
	}
	return string(images), string(specs), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCar(row rowScanner) (*models.Car, error) {
	var car models.Car
	var imagesJSON, specsJSON string
	err := row.Scan(&car.ID, &car.Name, &car.Tagline, &car.Price, &car.Image,
		&imagesJSON, &car.Description, &specsJSON, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imagesJSON != "" {
		if err := json.Unmarshal([]byte(imagesJSON), &car.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}
	if specsJSON != "" {
		if err := json.Unmarshal([]byte(specsJSON), &car.Specs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal specs: %w", err)
		}
	}
	return &car, nil
}
