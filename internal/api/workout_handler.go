package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fittrack/internal/apperrors"
	"fittrack/internal/domain"
	"fittrack/internal/service"
	"fittrack/internal/token"
)

// WorkoutHandler holds the workout, export and token dependencies.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	exportService  service.ExportService
	tokens         *token.Codec
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, exportService service.ExportService, tokens *token.Codec) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		exportService:  exportService,
		tokens:         tokens,
	}
}

// --- DTOs ---

type ExerciseEntryRequest struct {
	Name   string   `json:"name"`
	Sets   *int     `json:"sets"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

type CreateWorkoutRequest struct {
	Date      string                 `json:"date"`
	Note      string                 `json:"note"`
	Exercises []ExerciseEntryRequest `json:"exercises"`
}

type AddExerciseRequest struct {
	Name   string   `json:"name" binding:"required"`
	Sets   *int     `json:"sets"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

type WorkoutResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Date          string `json:"date"`
	Note          string `json:"note"`
	ExerciseCount int    `json:"exercise_count"`
}

type ExerciseResponse struct {
	ID        int64    `json:"id"`
	WorkoutID int64    `json:"workout_id"`
	Name      string   `json:"name"`
	Sets      int      `json:"sets"`
	Reps      int      `json:"reps"`
	Weight    *float64 `json:"weight"`
	// DeleteToken is a signed, expiring link token for deleting this
	// exercise without re-sending the session-scoped id.
	DeleteToken string `json:"delete_token,omitempty"`
}

type WorkoutDetailResponse struct {
	WorkoutResponse
	Exercises []ExerciseResponse `json:"exercises"`
}

func mapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		Date:          w.DateISO(),
		Note:          w.Note,
		ExerciseCount: w.ExerciseCount,
	}
}

// --- Handler Methods ---

// ListWorkouts returns the user's workouts, newest first.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}

	out := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		out[i] = mapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "workouts": out})
}

// GetWorkout returns one workout with its exercises and per-exercise delete
// tokens.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	workoutID, ok := paramID(c, "id")
	if !ok {
		return
	}

	workout, exercises, err := h.workoutService.Get(c.Request.Context(), userID, workoutID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}

	detail := WorkoutDetailResponse{
		WorkoutResponse: mapWorkoutToResponse(workout),
		Exercises:       make([]ExerciseResponse, len(exercises)),
	}
	for i, ex := range exercises {
		deleteToken, err := h.tokens.Encode(ex.ID, token.PurposeExerciseDelete)
		if err != nil {
			abortWithAppError(c, apperrors.Internal(err))
			return
		}
		detail.Exercises[i] = ExerciseResponse{
			ID:          ex.ID,
			WorkoutID:   ex.WorkoutID,
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			Weight:      ex.Weight,
			DeleteToken: deleteToken,
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "workout": detail})
}

// CreateWorkout creates a workout with optional bulk exercises.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithAppError(c, apperrors.InvalidInput("invalid request body"))
		return
	}

	entries := make([]service.ExerciseInput, len(req.Exercises))
	for i, e := range req.Exercises {
		entries[i] = service.ExerciseInput{Name: e.Name, Sets: e.Sets, Reps: e.Reps, Weight: e.Weight}
	}

	id, err := h.workoutService.Create(c.Request.Context(), userID, req.Date, req.Note, entries)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

// DeleteWorkout removes a workout and, by cascade, its exercises.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	workoutID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), userID, workoutID); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Workout deleted successfully"})
}

// AddExercise appends one exercise to an owned workout.
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	workoutID, ok := paramID(c, "workoutId")
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithAppError(c, apperrors.InvalidInput("exercise name is required"))
		return
	}

	id, err := h.workoutService.AddExercise(c.Request.Context(), userID, workoutID, service.ExerciseInput{
		Name:   req.Name,
		Sets:   req.Sets,
		Reps:   req.Reps,
		Weight: req.Weight,
	})
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

// DeleteExercise removes one exercise by id.
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	exerciseID, ok := paramID(c, "exerciseId")
	if !ok {
		return
	}

	workoutID, err := h.workoutService.DeleteExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "workout_id": workoutID})
}

// DeleteExerciseByToken removes one exercise through a signed delete link.
// Decode failures are non-fatal: the caller is told the link is invalid and
// nothing is deleted.
func (h *WorkoutHandler) DeleteExerciseByToken(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	exerciseID, err := h.tokens.Decode(c.Param("token"), token.PurposeExerciseDelete, token.ExerciseDeleteMaxAge)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "link invalid or expired"})
		return
	}

	workoutID, err := h.workoutService.DeleteExercise(c.Request.Context(), userID, exerciseID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "workout_id": workoutID})
}

// Catalog returns the static exercise name list.
func (h *WorkoutHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "exercises": h.workoutService.Catalog()})
}

// Stats returns the user's workout summary statistics.
func (h *WorkoutHandler) Stats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	stats, err := h.workoutService.Stats(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

// Quickstart seeds a workout from a named preset.
func (h *WorkoutHandler) Quickstart(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	id, err := h.workoutService.Quickstart(c.Request.Context(), userID, c.Param("level"))
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

// ExportCSV returns the full history as CSV, JSON-wrapped by default or as a
// raw attachment with ?download=1.
func (h *WorkoutHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	result, err := h.exportService.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}

	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="workouts.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(result.CSV))
		return
	}

	resp := gin.H{"ok": true, "csv": result.CSV}
	if result.ArchiveURL != "" {
		resp["archive_url"] = result.ArchiveURL
	}
	c.JSON(http.StatusOK, resp)
}

// paramID parses an integer path parameter, recording InvalidInput on
// failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithAppError(c, apperrors.InvalidInput("invalid "+name))
		return 0, false
	}
	return id, true
}
