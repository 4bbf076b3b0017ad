package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"focusflow/models"
)

// SQLiteStore keeps habits and users in an embedded SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	habits *SQLiteHabitRepository
	users  *UserRepository
}

// NewSQLiteStore opens the database at dbPath and creates the tables.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	habits, err := NewSQLiteHabitRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	users, err := NewUserRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, habits: habits, users: users}, nil
}

func (s *SQLiteStore) Habits() HabitStore { return s.habits }
func (s *SQLiteStore) Users() UserStore   { return s.users }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

// SQLiteHabitRepository handles database operations for habits
type SQLiteHabitRepository struct {
	db *sql.DB
}

// NewSQLiteHabitRepository creates the habits table if needed. The id column
// is a plain primary key; ids are assigned by the allocator.
func NewSQLiteHabitRepository(db *sql.DB) (*SQLiteHabitRepository, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS habits (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		frequency TEXT NOT NULL,
		priority TEXT NOT NULL,
		status TEXT NOT NULL,
		target_date TEXT,
		streak INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create habits table: %w", err)
	}
	return &SQLiteHabitRepository{db: db}, nil
}

const habitColumns = "id, title, description, category, frequency, priority, status, target_date, streak, notes, created_at, updated_at"

// List retrieves habits matching the query
func (r *SQLiteHabitRepository) List(ctx context.Context, q models.HabitQuery) ([]models.Habit, error) {
	sortField := q.SortField
	if sortField == "" {
		sortField = "id"
	}
	if !models.IsHabitField(sortField) {
		return nil, fmt.Errorf("unknown sort field %q", sortField)
	}

	var (
		where []string
		args  []any
	)
	for _, p := range q.Filter.Pairs() {
		where = append(where, p[0]+" = ?")
		args = append(args, p[1])
	}

	query := "SELECT " + habitColumns + " FROM habits"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	query += " ORDER BY " + sortField + " " + dir
	if sortField != "id" {
		query += ", id ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h.Project(q.Fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	return habits, nil
}

// GetByID retrieves a single habit by ID
func (r *SQLiteHabitRepository) GetByID(ctx context.Context, id int) (*models.Habit, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create adds a new habit
func (r *SQLiteHabitRepository) Create(ctx context.Context, req models.HabitRequest) (*models.Habit, error) {
	ts, err := prepareCreate(req)
	if err != nil {
		return nil, err
	}

	var habit models.Habit
	_, err = insertWithNextID(ctx, r.nextID, func(ctx context.Context, id int) error {
		habit = models.NewHabit(req, id, ts)
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO habits ("+habitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			habitArgs(habit)...,
		)
		return err
	}, isSQLiteConstraint)
	if err != nil {
		return nil, fmt.Errorf("failed to insert habit: %w", err)
	}
	return &habit, nil
}

// Update modifies an existing habit
func (r *SQLiteHabitRepository) Update(ctx context.Context, id int, req models.HabitRequest) (bool, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	changes, changed, err := prepareUpdate(*existing, req)
	if err != nil || !changed {
		return false, err
	}

	set := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		set = append(set, c.Field+" = ?")
		args = append(args, sqliteValue(c.Value))
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, "UPDATE habits SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("failed to update habit %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// Delete removes a habit
func (r *SQLiteHabitRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete habit %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteHabitRepository) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM habits")
	return err
}

func (r *SQLiteHabitRepository) nextID(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM habits").Scan(&next)
	return next, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var (
		h                  models.Habit
		targetDate         sql.NullString
		created, updatedMs int64
	)
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.Category, &h.Frequency, &h.Priority,
		&h.Status, &targetDate, &h.Streak, &h.Notes, &created, &updatedMs)
	if err != nil {
		return h, err
	}
	if targetDate.Valid {
		v := targetDate.String
		h.TargetDate = &v
	}
	h.CreatedAt = time.UnixMilli(created).UTC()
	h.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return h, nil
}

func habitArgs(h models.Habit) []any {
	return []any{
		h.ID, h.Title, h.Description, h.Category, h.Frequency, h.Priority, h.Status,
		nullString(h.TargetDate), h.Streak, h.Notes, h.CreatedAt.UnixMilli(), h.UpdatedAt.UnixMilli(),
	}
}

// sqliteValue converts a change value to its column representation.
func sqliteValue(v any) any {
	switch v := v.(type) {
	case *string:
		return nullString(v)
	case time.Time:
		return v.UnixMilli()
	}
	return v
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// isSQLiteConstraint matches primary key and unique index violations.
func isSQLiteConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
