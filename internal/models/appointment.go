package models

import (
	"regexp"
	"strings"
	"time"
)

// Appointment is a user-submitted lead tied to a vehicle of interest.
// Leads are created by the public page and read by the admin inbox; they are
// never updated or deleted in-app.
type Appointment struct {
	ID       string `json:"id" db:"id"`
	Model    string `json:"model" db:"model"`
	Name     string `json:"name" db:"name"`
	Phone    string `json:"phone" db:"phone"`
	Date     string `json:"date" db:"date"` // RFC3339, set at submission time
	Status   string `json:"status" db:"status"`
	FormName string `json:"formName" db:"form_name"`
}

// AppointmentInput is the public submission payload.
type AppointmentInput struct {
	Model string `json:"model"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// StatusNew is the status assigned to every freshly submitted lead.
const StatusNew = "new"

// NewAppointment builds a lead from a submission with a server-side timestamp.
func NewAppointment(in *AppointmentInput, now time.Time) *Appointment {
	return &Appointment{
		Model:    in.Model,
		Name:     in.Name,
		Phone:    in.Phone,
		Date:     now.UTC().Format(time.RFC3339),
		Status:   StatusNew,
		FormName: "Test Drive Request",
	}
}

var phoneDigits = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidPhone reports whether s looks like a dialable phone number.
// Common separators (spaces, dashes, dots, parentheses) are stripped before
// checking for an optional leading "+" and 7-15 digits.
func ValidPhone(s string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	return phoneDigits.MatchString(cleaned)
}
