package handler

import (
	"encoding/json"
	"net/http"

	"wlog/internal/api/middleware"
	"wlog/internal/app/service"
	"wlog/internal/common"

	"github.com/go-chi/chi/v5"
)

type WorkoutExerciseHandler struct {
	workoutExerciseService *service.WorkoutExerciseService
}

func NewWorkoutExerciseHandler(workoutExerciseService *service.WorkoutExerciseService) *WorkoutExerciseHandler {
	return &WorkoutExerciseHandler{workoutExerciseService: workoutExerciseService}
}

func (h *WorkoutExerciseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.patch)
	r.Delete("/{id}", h.delete)
}

func (h *WorkoutExerciseHandler) list(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	entries, err := h.workoutExerciseService.List(r.Context(), claims)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *WorkoutExerciseHandler) get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	entry, err := h.workoutExerciseService.Get(r.Context(), claims, id)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entry)
}

func (h *WorkoutExerciseHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req service.CreateWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.workoutExerciseService.Create(r.Context(), claims, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *WorkoutExerciseHandler) patch(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var updates service.PatchUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.workoutExerciseService.Patch(r.Context(), claims, id, updates)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entry)
}

func (h *WorkoutExerciseHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.workoutExerciseService.Delete(r.Context(), claims, id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondNoContent(w)
}
