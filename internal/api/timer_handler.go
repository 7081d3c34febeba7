package api

import (
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/tracker"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimerHandler exposes the stopwatch of each workout card.
// Only stopwatches of the caller's own workouts are started, so the registry
// holds at most one entry per existing workout.
type TimerHandler struct {
	stopwatches *tracker.StopwatchRegistry
	workoutRepo repository.WorkoutRepository
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(stopwatches *tracker.StopwatchRegistry, workoutRepo repository.WorkoutRepository) *TimerHandler {
	return &TimerHandler{stopwatches: stopwatches, workoutRepo: workoutRepo}
}

// GetTimer godoc
// @Summary Read a workout stopwatch
// @Tags Timer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} tracker.TimerView
// @Failure 400 {object} gin.H "Invalid workout ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts/{id}/timer [get]
func (h *TimerHandler) GetTimer(c *gin.Context) {
	userID, workoutID, ok := timerTarget(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stopwatches.Get(userID, workoutID))
}

// ToggleTimer godoc
// @Summary Start or pause a workout stopwatch
// @Tags Timer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} tracker.TimerView
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/timer/toggle [post]
func (h *TimerHandler) ToggleTimer(c *gin.Context) {
	userID, workoutID, ok := timerTarget(c)
	if !ok {
		return
	}

	owned, err := h.ownsWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		log.Errorf("look up workouts of %s: %s", userID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}
	if !owned {
		abortWithError(c, http.StatusNotFound, "Workout not found.")
		return
	}
	c.JSON(http.StatusOK, h.stopwatches.Toggle(userID, workoutID))
}

// ResetTimer godoc
// @Summary Stop and clear a workout stopwatch
// @Tags Timer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} tracker.TimerView
// @Router /workouts/{id}/timer/reset [post]
func (h *TimerHandler) ResetTimer(c *gin.Context) {
	userID, workoutID, ok := timerTarget(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stopwatches.Reset(userID, workoutID))
}

func timerTarget(c *gin.Context) (string, string, bool) {
	session, err := getSessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", "", false
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return "", "", false
	}
	return session.UserID.Hex(), workoutID.Hex(), true
}

func (h *TimerHandler) ownsWorkout(ctx context.Context, userHex, workoutHex string) (bool, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return false, nil
	}
	workouts, err := h.workoutRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, w := range workouts {
		if w.ID.Hex() == workoutHex {
			return true, nil
		}
	}
	return false, nil
}
