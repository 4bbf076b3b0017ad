package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"focusflow/models"
	"focusflow/repository"
	"focusflow/respond"
	"focusflow/validation"
)

// HabitHandler handles all habit-related HTTP requests
type HabitHandler struct {
	store  repository.HabitStore
	logger *slog.Logger
}

// NewHabitHandler creates a new handler
func NewHabitHandler(store repository.HabitStore, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{
		store:  store,
		logger: logger,
	}
}

// GetAllHabits handles GET /api/habits
func (h *HabitHandler) GetAllHabits(w http.ResponseWriter, r *http.Request) {
	q, err := validation.HabitQuery(r.URL.Query())
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	h.logger.Debug("listing habits", "filter", q.Filter, "sort", q.SortField, "desc", q.SortDesc)

	habits, err := h.store.List(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	if len(q.Fields) == 0 {
		respond.JSON(w, http.StatusOK, habits)
		return
	}

	views := make([]map[string]any, 0, len(habits))
	for _, habit := range habits {
		v, err := habit.View(q.Fields)
		if err != nil {
			writeStoreError(w, r, h.logger, err, "")
			return
		}
		views = append(views, v)
	}
	respond.JSON(w, http.StatusOK, views)
}

// GetHabit handles GET /api/habits/{id}
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.habitID(w, r)
	if !ok {
		return
	}

	habit, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "Habit not found")
		return
	}
	respond.JSON(w, http.StatusOK, habit)
}

// CreateHabit handles POST /api/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req models.HabitRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Habit(req); err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	habit, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	h.logger.Info("habit created", "id", habit.ID, "title", habit.Title)
	respond.JSON(w, http.StatusCreated, habit)
}

// UpdateHabit handles PUT /api/habits/{id}. Fields omitted from the body
// keep their stored values.
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.habitID(w, r)
	if !ok {
		return
	}

	var req models.HabitRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Habit(req); err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	changed, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "Habit not found")
		return
	}

	habit, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "Habit not found")
		return
	}

	h.logger.Info("habit updated", "id", id, "changed", changed)
	respond.JSON(w, http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/habits/{id}
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.habitID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "Habit not found")
		return
	}
	if !deleted {
		respond.Error(w, http.StatusNotFound, "Habit not found")
		return
	}

	h.logger.Info("habit deleted", "id", id)
	respond.Message(w, "Habit deleted successfully")
}

func (h *HabitHandler) habitID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := validation.HabitID(raw)
	if err != nil {
		h.logger.Warn("invalid habit ID", "id", raw)
		respond.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
