// Package accounts holds organizations and their users. Organization
// settings drive export and notification behavior on every pipeline run, so
// reads go through a Redis cache.
package accounts

import (
	"errors"
	"time"
)

var (
	// ErrOrgNotFound is returned when an organization is not found
	ErrOrgNotFound = errors.New("organization not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)

// Organization is a tenant of the platform.
type Organization struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DefaultLanguage string    `json:"default_language"`
	SpreadsheetID   string    `json:"spreadsheet_id,omitempty"`
	SheetRange      string    `json:"sheet_range,omitempty"`
	NotifyEmails    []string  `json:"notify_emails,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExportConfigured reports whether the org has a sheet to export to.
func (o *Organization) ExportConfigured() bool {
	return o != nil && o.SpreadsheetID != "" && o.SheetRange != ""
}

// User belongs to an organization; the auth middleware resolves JWT
// subjects to users to establish org scope.
type User struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
