package models

import "encoding/json"

// HabitFields lists every habit field name. The same names are used for
// JSON keys, document keys and SQL columns.
var HabitFields = []string{
	"id", "title", "description", "category", "frequency", "priority",
	"status", "target_date", "streak", "notes", "created_at", "updated_at",
}

// HabitFilter holds exact-match filters; empty values are ignored.
type HabitFilter struct {
	Category  string
	Frequency string
	Priority  string
	Status    string
}

// HabitQuery describes a list request.
type HabitQuery struct {
	Filter HabitFilter
	// SortField defaults to "id". Ties are always broken by id ascending.
	SortField string
	SortDesc  bool
	// Fields restricts the returned fields; "id" is always included.
	Fields []string
}

// Pairs returns the non-empty filters as field/value pairs in a fixed order.
func (f HabitFilter) Pairs() [][2]string {
	var out [][2]string
	for _, p := range [][2]string{
		{"category", f.Category},
		{"frequency", f.Frequency},
		{"priority", f.Priority},
		{"status", f.Status},
	} {
		if p[1] != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsHabitField reports whether name is a known habit field.
func IsHabitField(name string) bool {
	for _, f := range HabitFields {
		if f == name {
			return true
		}
	}
	return false
}

// Project keeps only the listed fields of h and zeroes the rest.
func (h Habit) Project(fields []string) Habit {
	if len(fields) == 0 {
		return h
	}
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	out := Habit{ID: h.ID}
	if keep["title"] {
		out.Title = h.Title
	}
	if keep["description"] {
		out.Description = h.Description
	}
	if keep["category"] {
		out.Category = h.Category
	}
	if keep["frequency"] {
		out.Frequency = h.Frequency
	}
	if keep["priority"] {
		out.Priority = h.Priority
	}
	if keep["status"] {
		out.Status = h.Status
	}
	if keep["target_date"] {
		out.TargetDate = h.TargetDate
	}
	if keep["streak"] {
		out.Streak = h.Streak
	}
	if keep["notes"] {
		out.Notes = h.Notes
	}
	if keep["created_at"] {
		out.CreatedAt = h.CreatedAt
	}
	if keep["updated_at"] {
		out.UpdatedAt = h.UpdatedAt
	}
	return out
}

// View renders h as a JSON object restricted to fields (plus id).
// With no fields the full document is returned.
func (h Habit) View(fields []string) (map[string]any, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return all, nil
	}
	out := map[string]any{"id": all["id"]}
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}
