// Package validation checks client input before it reaches a store.
// Every function reports the first violated rule only.
package validation

import (
	"errors"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"focusflow/models"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordLength is the longest password bcrypt can hash, in bytes.
const MaxPasswordLength = 72

// Error is a client error; handlers map it to 400.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(field, msg string) error { return &Error{Field: field, Message: msg} }

// IsValidation reports whether err carries a validation failure.
func IsValidation(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

// Habit validates a create or update payload. Fields are checked in a fixed
// order: title, description, category, frequency, priority, status, streak,
// target_date.
func Habit(req models.HabitRequest) error {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return fail("title", "Title is required")
	}
	if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		return fail("description", "Description is required")
	}
	if !optionalEnum(req.Category, models.Categories) {
		return fail("category", "Invalid category")
	}
	if !optionalEnum(req.Frequency, models.Frequencies) {
		return fail("frequency", "Invalid frequency")
	}
	if !optionalEnum(req.Priority, models.Priorities) {
		return fail("priority", "Invalid priority")
	}
	if !optionalEnum(req.Status, models.Statuses) {
		return fail("status", "Invalid status")
	}
	if req.Streak.Set && (!req.Streak.Valid || req.Streak.Value < 0) {
		return fail("streak", "Invalid streak")
	}
	if d := req.TargetDate.Ptr(); d != nil && !isDate(*d) {
		return fail("target_date", "Invalid target_date")
	}
	return nil
}

// HabitID parses a path id. Only plain positive decimal integers are accepted.
func HabitID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "+") {
		return 0, fail("id", "Invalid id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fail("id", "Invalid id")
	}
	return id, nil
}

// HabitQuery builds a list query from URL parameters such as
// ?status=Active&sort=-streak&fields=title,status.
func HabitQuery(values url.Values) (models.HabitQuery, error) {
	q := models.HabitQuery{SortField: "id"}

	filters := []struct {
		key     string
		allowed []string
		dst     *string
	}{
		{"category", models.Categories, &q.Filter.Category},
		{"frequency", models.Frequencies, &q.Filter.Frequency},
		{"priority", models.Priorities, &q.Filter.Priority},
		{"status", models.Statuses, &q.Filter.Status},
	}
	for _, f := range filters {
		v := strings.TrimSpace(values.Get(f.key))
		if v == "" {
			continue
		}
		if !contains(f.allowed, v) {
			return q, fail(f.key, "Invalid "+f.key)
		}
		*f.dst = v
	}

	if sort := strings.TrimSpace(values.Get("sort")); sort != "" {
		if strings.HasPrefix(sort, "-") {
			q.SortDesc = true
			sort = sort[1:]
		}
		if !models.IsHabitField(sort) {
			return q, fail("sort", "Invalid sort field")
		}
		q.SortField = sort
	}

	if fields := strings.TrimSpace(values.Get("fields")); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !models.IsHabitField(f) {
				return q, fail("fields", "Invalid field: "+f)
			}
			q.Fields = append(q.Fields, f)
		}
	}
	return q, nil
}

// Register validates a registration payload.
func Register(req models.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fail("username", "Username is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fail("email", "Email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fail("email", "Invalid email")
	}
	if len(req.Password) < MinPasswordLength {
		return fail("password", "Password must be at least 6 characters")
	}
	// bcrypt refuses longer inputs
	if len(req.Password) > MaxPasswordLength {
		return fail("password", "Password must be at most 72 bytes")
	}
	return nil
}

// Login validates a login payload.
func Login(req models.LoginRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fail("username", "Username is required")
	}
	if req.Password == "" {
		return fail("password", "Password is required")
	}
	return nil
}

func optionalEnum(p *string, allowed []string) bool {
	if p == nil {
		return true
	}
	v := strings.TrimSpace(*p)
	return v == "" || contains(allowed, v)
}

func isDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
