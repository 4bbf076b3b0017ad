package models

import (
	"strings"
	"time"
)

// Allowed values for the enumerated habit fields.
var (
	Categories  = []string{"Health", "Fitness", "Learning", "Productivity", "Social", "Mindfulness", "General"}
	Frequencies = []string{"Daily", "Weekly", "Bi-weekly", "Monthly"}
	Priorities  = []string{"Low", "Medium", "High"}
	Statuses    = []string{"Active", "Paused", "Completed"}
)

// Defaults applied when an optional field is omitted on create.
const (
	DefaultCategory  = "General"
	DefaultFrequency = "Daily"
	DefaultPriority  = "Medium"
	DefaultStatus    = "Active"
)

// Habit represents a habit that a user wants to track
type Habit struct {
	ID          int       `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Frequency   string    `json:"frequency" bson:"frequency"`
	Priority    string    `json:"priority" bson:"priority"`
	Status      string    `json:"status" bson:"status"`
	TargetDate  *string   `json:"target_date" bson:"target_date"`
	Streak      int       `json:"streak" bson:"streak"`
	Notes       string    `json:"notes" bson:"notes"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// HabitRequest is the payload for creating or updating a habit.
// Nil pointers and unset optional values mean the field was omitted.
type HabitRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Frequency   *string        `json:"frequency"`
	Priority    *string        `json:"priority"`
	Status      *string        `json:"status"`
	TargetDate  OptionalString `json:"target_date"`
	Streak      OptionalInt    `json:"streak"`
	Notes       *string        `json:"notes"`
}

// NewHabit builds the document stored for a create request.
func NewHabit(req HabitRequest, id int, now time.Time) Habit {
	h := Habit{
		ID:        id,
		Category:  DefaultCategory,
		Frequency: DefaultFrequency,
		Priority:  DefaultPriority,
		Status:    DefaultStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(&h)
	return h
}

// Apply overwrites the fields of h that are present in the request.
// It does not touch the timestamps.
func (req HabitRequest) Apply(h *Habit) {
	if req.Title != nil {
		h.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		h.Description = strings.TrimSpace(*req.Description)
	}
	if v := enumValue(req.Category); v != "" {
		h.Category = v
	}
	if v := enumValue(req.Frequency); v != "" {
		h.Frequency = v
	}
	if v := enumValue(req.Priority); v != "" {
		h.Priority = v
	}
	if v := enumValue(req.Status); v != "" {
		h.Status = v
	}
	if req.TargetDate.Set {
		h.TargetDate = req.TargetDate.Ptr()
	}
	if req.Streak.Set && req.Streak.Valid {
		h.Streak = req.Streak.Value
	}
	if req.Notes != nil {
		h.Notes = strings.TrimSpace(*req.Notes)
	}
}

// Change is one stored field written by an update.
type Change struct {
	Field string
	Value any
}

// Changes lists the fields present in the request with the values Apply
// would store, in document order. TargetDate values are *string, nil for null.
func (req HabitRequest) Changes() []Change {
	var cs []Change
	if req.Title != nil {
		cs = append(cs, Change{"title", strings.TrimSpace(*req.Title)})
	}
	if req.Description != nil {
		cs = append(cs, Change{"description", strings.TrimSpace(*req.Description)})
	}
	for _, e := range []struct {
		field string
		value *string
	}{
		{"category", req.Category},
		{"frequency", req.Frequency},
		{"priority", req.Priority},
		{"status", req.Status},
	} {
		if v := enumValue(e.value); v != "" {
			cs = append(cs, Change{e.field, v})
		}
	}
	if req.TargetDate.Set {
		cs = append(cs, Change{"target_date", req.TargetDate.Ptr()})
	}
	if req.Streak.Set && req.Streak.Valid {
		cs = append(cs, Change{"streak", req.Streak.Value})
	}
	if req.Notes != nil {
		cs = append(cs, Change{"notes", strings.TrimSpace(*req.Notes)})
	}
	return cs
}

// SameContent reports whether two habits carry the same user-editable fields.
func (h Habit) SameContent(o Habit) bool {
	return h.ID == o.ID &&
		h.Title == o.Title &&
		h.Description == o.Description &&
		h.Category == o.Category &&
		h.Frequency == o.Frequency &&
		h.Priority == o.Priority &&
		h.Status == o.Status &&
		equalStringPtr(h.TargetDate, o.TargetDate) &&
		h.Streak == o.Streak &&
		h.Notes == o.Notes
}

// enumValue treats an empty enum string the same as an omitted one.
func enumValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
