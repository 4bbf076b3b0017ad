package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/models"
	"focusflow/repository"
	"focusflow/session"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type testEnv struct {
	router http.Handler
	store  repository.Store
}

// setupTestRouter builds the full router over a fresh in-memory database
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	store, err := repository.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	sessions, err := session.NewManager(session.Options{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)

	return &testEnv{
		store: store,
		router: newRouter(routerConfig{
			Store:          store,
			Sessions:       sessions,
			Logger:         testLogger,
			CORSOrigins:    []string{"*"},
			RequestTimeout: 5 * time.Second,
		}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login registers a user directly in the store and logs in over HTTP
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	_, err := e.store.Users().Create(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)
	w := e.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "testuser", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (e *testEnv) createHabit(t *testing.T, cookies []*http.Cookie, body map[string]any) models.Habit {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/habits", body, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var h models.Habit
	require.NoError(t, json.NewDecoder(w.Body).Decode(&h))
	return h
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

// ==================== AUTHENTICATION TESTS ====================

// Test 1: Register new user successfully
func TestRegister_Success(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[models.AuthResponse](t, w)
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Empty(t, w.Result().Cookies(), "registering does not log in")
}

// Test 2: Register with invalid fields
func TestRegister_Validation(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name string
		req  models.RegisterRequest
		want string
	}{
		{"missing username", models.RegisterRequest{Email: "a@b.com", Password: "password123"}, "Username is required"},
		{"missing email", models.RegisterRequest{Username: "a", Password: "password123"}, "Email is required"},
		{"bad email", models.RegisterRequest{Username: "a", Email: "not-an-email", Password: "password123"}, "Invalid email"},
		{"short password", models.RegisterRequest{Username: "a", Email: "a@b.com", Password: "12345"}, "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/register", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorOf(t, w))
		})
	}
}

// Test 3: Register duplicate username or email
func TestRegister_Duplicate(t *testing.T) {
	env := setupTestRouter(t)
	first := models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/register", first, nil).Code)

	w := env.do(t, http.MethodPost, "/api/register", first, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", errorOf(t, w))

	sameEmail := models.RegisterRequest{Username: "bob", Email: "ALICE@example.com", Password: "password123"}
	w = env.do(t, http.MethodPost, "/api/register", sameEmail, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// Test 4: Login successfully
func TestLogin_Success(t *testing.T) {
	env := setupTestRouter(t)
	_, err := env.store.Users().Create(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "testuser", Password: "password123"}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.AuthResponse](t, w)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "testuser", resp.User.Username)
	assert.Equal(t, "test@example.com", resp.User.Email)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

// Test 5: Login with wrong password or unknown user
func TestLogin_InvalidCredentials(t *testing.T) {
	env := setupTestRouter(t)
	_, err := env.store.Users().Create(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)

	for _, req := range []models.LoginRequest{
		{Username: "testuser", Password: "wrongpassword"},
		{Username: "nobody", Password: "password123"},
	} {
		w := env.do(t, http.MethodPost, "/api/login", req, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", errorOf(t, w))
		assert.Empty(t, w.Result().Cookies())
	}
}

// Test 6: Login with missing credentials
func TestLogin_MissingCredentials(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Password: "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username is required", errorOf(t, w))

	w = env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "testuser"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password is required", errorOf(t, w))
}

// Test 7: Login with a form post
func TestLogin_FormBody(t *testing.T) {
	env := setupTestRouter(t)
	_, err := env.store.Users().Create(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)

	w := env.postForm(t, "/api/login", url.Values{"username": {"testuser"}, "password": {"password123"}}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

// Test 8: Malformed JSON body
func TestLogin_MalformedBody(t *testing.T) {
	env := setupTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", errorOf(t, w))
}

// Test 9: Auth status follows the session
func TestAuthStatus(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/auth/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	cookies := env.login(t)
	w = env.do(t, http.MethodGet, "/api/auth/status", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true,"user":{"username":"testuser"}}`, w.Body.String())
}

// Test 10: Logout ends the session
func TestLogout(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, w.Body.String())

	// the old cookie no longer opens a session
	w = env.do(t, http.MethodPost, "/api/habits", map[string]any{"title": "Run", "description": "5k"}, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// logging out twice is harmless
	w = env.do(t, http.MethodPost, "/api/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// Test 11: Protected routes without a session
func TestProtectedRoute_NoSession(t *testing.T) {
	env := setupTestRouter(t)
	body := map[string]any{"title": "Run", "description": "5k"}

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/habits"},
		{http.MethodPut, "/api/habits/1"},
		{http.MethodDelete, "/api/habits/1"},
	} {
		w := env.do(t, tc.method, tc.path, body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method)
		assert.Equal(t, "Authentication required", errorOf(t, w))
	}
}

// Test 12: Protected route with a forged cookie
func TestProtectedRoute_InvalidCookie(t *testing.T) {
	env := setupTestRouter(t)
	forged := []*http.Cookie{{Name: session.DefaultCookieName, Value: "invalid.token.here"}}

	w := env.do(t, http.MethodPost, "/api/habits", map[string]any{"title": "Run", "description": "5k"}, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ==================== HABIT TESTS ====================

// Test 13: Create habit with defaults
func TestCreateHabit_Success(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)

	h := env.createHabit(t, cookies, map[string]any{
		"title":       "  Morning Run  ",
		"description": "Run 5km every morning",
	})

	assert.Equal(t, 1, h.ID)
	assert.Equal(t, "Morning Run", h.Title)
	assert.Equal(t, "General", h.Category)
	assert.Equal(t, "Daily", h.Frequency)
	assert.Equal(t, "Medium", h.Priority)
	assert.Equal(t, "Active", h.Status)
	assert.Nil(t, h.TargetDate)
	assert.Zero(t, h.Streak)
	assert.False(t, h.CreatedAt.IsZero())
	assert.Equal(t, h.CreatedAt, h.UpdatedAt)
}

// Test 14: Create habit with invalid fields reports the first failure
func TestCreateHabit_Validation(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing title", map[string]any{"description": "x"}, "Title is required"},
		{"blank title", map[string]any{"title": "   ", "description": "x"}, "Title is required"},
		{"missing description", map[string]any{"title": "x"}, "Description is required"},
		{"category before priority", map[string]any{"title": "x", "description": "x", "category": "Chores", "priority": "Urgent"}, "Invalid category"},
		{"bad frequency", map[string]any{"title": "x", "description": "x", "frequency": "Hourly"}, "Invalid frequency"},
		{"bad status", map[string]any{"title": "x", "description": "x", "status": "Done"}, "Invalid status"},
		{"negative streak", map[string]any{"title": "x", "description": "x", "streak": -1}, "Invalid streak"},
		{"bad target date", map[string]any{"title": "x", "description": "x", "target_date": "soon"}, "Invalid target_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/habits", tt.body, cookies)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorOf(t, w))
		})
	}

	w := env.do(t, http.MethodGet, "/api/habits", nil, nil)
	assert.JSONEq(t, `[]`, w.Body.String(), "nothing was stored")
}

// Test 15: Create habit from a form post
func TestCreateHabit_FormBody(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)

	w := env.postForm(t, "/api/habits", url.Values{
		"title":       {"Read"},
		"description": {"Read a chapter"},
		"category":    {"Learning"},
		"streak":      {"7"},
		"target_date": {""},
	}, cookies)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	h := decode[models.Habit](t, w)
	assert.Equal(t, "Learning", h.Category)
	assert.Equal(t, 7, h.Streak)
	assert.Nil(t, h.TargetDate)
}

// Test 16: Get all habits is public and sorted by id
func TestGetAllHabits_Success(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	env.createHabit(t, cookies, map[string]any{"title": "Habit 1", "description": "First"})
	env.createHabit(t, cookies, map[string]any{"title": "Habit 2", "description": "Second"})

	w := env.do(t, http.MethodGet, "/api/habits", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	habits := decode[[]models.Habit](t, w)
	require.Len(t, habits, 2)
	assert.Equal(t, 1, habits[0].ID)
	assert.Equal(t, 2, habits[1].ID)
}

// Test 17: Get all habits when empty returns an array
func TestGetAllHabits_Empty(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/habits", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

// Test 18: Filter, sort and project the list
func TestGetAllHabits_Query(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	env.createHabit(t, cookies, map[string]any{"title": "A", "description": "a", "streak": 3})
	env.createHabit(t, cookies, map[string]any{"title": "B", "description": "b", "streak": 10, "status": "Paused"})
	env.createHabit(t, cookies, map[string]any{"title": "C", "description": "c", "streak": 7})

	w := env.do(t, http.MethodGet, "/api/habits?status=Active&sort=-streak&fields=title,streak", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":3,"title":"C","streak":7},{"id":1,"title":"A","streak":3}]`, w.Body.String())

	for _, q := range []string{"?status=Done", "?sort=color", "?fields=title,password"} {
		w = env.do(t, http.MethodGet, "/api/habits"+q, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

// Test 19: Get single habit
func TestGetHabit_Success(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	created := env.createHabit(t, cookies, map[string]any{"title": "Test Habit", "description": "Test"})

	w := env.do(t, http.MethodGet, "/api/habits/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h := decode[models.Habit](t, w)
	assert.Equal(t, created.Title, h.Title)
	assert.True(t, created.CreatedAt.Equal(h.CreatedAt))
}

// Test 20: Get non-existent habit
func TestGetHabit_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/habits/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Habit not found", errorOf(t, w))
}

// Test 21: Malformed ids are rejected before the store
func TestGetHabit_InvalidID(t *testing.T) {
	env := setupTestRouter(t)

	for _, id := range []string{"invalid", "0", "-1", "+1", "1.5", "1e3"} {
		w := env.do(t, http.MethodGet, "/api/habits/"+id, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "Invalid id", errorOf(t, w))
	}
}

// Test 22: Update habit keeps omitted fields
func TestUpdateHabit_Success(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	created := env.createHabit(t, cookies, map[string]any{
		"title": "Original", "description": "Original desc", "streak": 5, "notes": "keep me",
	})

	time.Sleep(2 * time.Millisecond)
	w := env.do(t, http.MethodPut, "/api/habits/1", map[string]any{
		"title": "Updated", "description": "Updated desc", "priority": "High",
	}, cookies)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	h := decode[models.Habit](t, w)
	assert.Equal(t, "Updated", h.Title)
	assert.Equal(t, "High", h.Priority)
	assert.Equal(t, 5, h.Streak)
	assert.Equal(t, "keep me", h.Notes)
	assert.True(t, h.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, h.UpdatedAt.After(created.UpdatedAt))
}

// Test 23: Update with identical content still succeeds
func TestUpdateHabit_Unchanged(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	created := env.createHabit(t, cookies, map[string]any{"title": "Same", "description": "Same"})

	w := env.do(t, http.MethodPut, "/api/habits/1", map[string]any{"title": "Same", "description": "Same"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	h := decode[models.Habit](t, w)
	assert.True(t, h.UpdatedAt.Equal(created.UpdatedAt))
}

// Test 24: Update non-existent or invalid
func TestUpdateHabit_Errors(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPut, "/api/habits/999", map[string]any{"title": "x", "description": "x"}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Habit not found", errorOf(t, w))

	env.createHabit(t, cookies, map[string]any{"title": "x", "description": "x"})
	w = env.do(t, http.MethodPut, "/api/habits/1", map[string]any{"title": "", "description": "x"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required", errorOf(t, w))

	w = env.do(t, http.MethodPut, "/api/habits/abc", map[string]any{"title": "x", "description": "x"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", errorOf(t, w))
}

// Test 25: Delete habit
func TestDeleteHabit_Success(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	env.createHabit(t, cookies, map[string]any{"title": "To Delete", "description": "Will be deleted"})

	w := env.do(t, http.MethodDelete, "/api/habits/1", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Habit deleted successfully"}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/habits/1", nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Habit not found", errorOf(t, w))

	w = env.do(t, http.MethodGet, "/api/habits/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Test 26: Delete without a session leaves the habit
func TestDeleteHabit_NoSession(t *testing.T) {
	env := setupTestRouter(t)
	cookies := env.login(t)
	env.createHabit(t, cookies, map[string]any{"title": "Stay", "description": "Stay"})

	w := env.do(t, http.MethodDelete, "/api/habits/1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/habits/1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ==================== SERVICE TESTS ====================

// Test 27: Health, info and unknown routes
func TestServiceEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/info", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]any](t, w)
	assert.Equal(t, "FocusFlow", info["project"])

	w = env.do(t, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", errorOf(t, w))

	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/api/habits/1"},
		{http.MethodDelete, "/api/info"},
		{http.MethodPut, "/health"},
	} {
		w = env.do(t, tc.method, tc.path, nil, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Method not allowed", errorOf(t, w))
	}
}

// Test 28: Health reports a closed store as down
func TestHealth_Down(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.store.Close(context.Background()))

	w := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"down"}`, w.Body.String())
}

// Test 29: Seeding loads sample data once and the demo user can log in
func TestSeed(t *testing.T) {
	env := setupTestRouter(t)
	ctx := context.Background()

	n, err := seed(ctx, env.store, testLogger, false)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	n, err = seed(ctx, env.store, testLogger, false)
	require.NoError(t, err)
	assert.Zero(t, n, "existing habits are left alone")

	n, err = seed(ctx, env.store, testLogger, true)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	w := env.do(t, http.MethodGet, "/api/habits/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Morning Meditation", decode[models.Habit](t, w).Title)

	w = env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: demoUsername, Password: demoPassword}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// Test 30: Full workflow - create anonymously, log in, update
func TestIntegration_FullWorkflow(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: "runner", Email: "runner@example.com", Password: "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "runner", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	h := env.createHabit(t, cookies, map[string]any{"title": "Run", "description": "5k", "streak": 2})
	assert.Equal(t, 1, h.ID)
	assert.Equal(t, "General", h.Category)

	update := map[string]any{"title": "Run", "description": "5k", "status": "Completed"}
	w = env.do(t, http.MethodPut, "/api/habits/1", update, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/habits/1", nil, nil)
	assert.Equal(t, "Active", decode[models.Habit](t, w).Status, "anonymous update must not write")

	w = env.do(t, http.MethodPut, "/api/habits/1", update, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Habit](t, w)
	assert.Equal(t, "Completed", updated.Status)
	assert.Equal(t, 2, updated.Streak)
}
