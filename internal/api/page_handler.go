package api

import (
	"alcyxob/fitness-tracker/internal/platform"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/tracker"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// PageHandler serves the workout page. Every request mounts its own
// controller on a platform client for the caller's token.
type PageHandler struct {
	authService service.AuthService
	workoutRepo repository.WorkoutRepository
	stopwatches *tracker.StopwatchRegistry
	recorder    tracker.Recorder
}

func NewPageHandler(
	authService service.AuthService,
	workoutRepo repository.WorkoutRepository,
	stopwatches *tracker.StopwatchRegistry,
	recorder tracker.Recorder,
) *PageHandler {
	return &PageHandler{
		authService: authService,
		workoutRepo: workoutRepo,
		stopwatches: stopwatches,
		recorder:    recorder,
	}
}

// --- DTOs ---

// WorkoutRequest is the add and edit workout form.
type WorkoutRequest struct {
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduledTime" binding:"omitempty,datetime=15:04"`
	Notes         string `json:"notes"`
}

type ToggleCompleteRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (r WorkoutRequest) input() tracker.WorkoutInput {
	return tracker.WorkoutInput{Date: r.Date, ScheduledTime: r.ScheduledTime, Notes: r.Notes}
}

// mount builds and mounts the page controller for this request. The caller
// must Unmount it. Requests without a token get an unauthenticated page.
func (h *PageHandler) mount(c *gin.Context) (*tracker.Controller, bool) {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
		return nil, false
	}

	opts := []tracker.Option{tracker.WithStopwatches(h.stopwatches)}
	if h.recorder != nil {
		opts = append(opts, tracker.WithRecorder(h.recorder))
	}
	ctrl := tracker.NewController(platform.NewClient(token, h.authService, h.workoutRepo), opts...)
	ctrl.Mount(c.Request.Context())
	return ctrl, true
}

// GetPage godoc
// @Summary Render the workout page
// @Description Returns the page model: sign-in view without a session, otherwise the dashboard.
// @Tags Page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tracker.PageView
// @Failure 401 {object} gin.H "Malformed Authorization header"
// @Router /page [get]
func (h *PageHandler) GetPage(c *gin.Context) {
	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	c.JSON(http.StatusOK, ctrl.View())
}

// CreateWorkout godoc
// @Summary Add a workout day
// @Description Submits the add-workout dialog. Store failures come back as toasts on the page.
// @Tags Page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "New workout"
// @Success 200 {object} tracker.PageView
// @Failure 400 {object} gin.H "Validation error"
// @Router /workouts [post]
func (h *PageHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	ctrl.SetAddDialogOpen(true)
	h.render(c, ctrl, ctrl.SubmitWorkout(c.Request.Context(), req.input()))
}

// ToggleComplete godoc
// @Summary Mark a workout completed or not
// @Tags Page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param body body ToggleCompleteRequest true "Completion state"
// @Success 200 {object} tracker.PageView
// @Failure 400 {object} gin.H "Validation error"
// @Router /workouts/{id}/complete [patch]
func (h *PageHandler) ToggleComplete(c *gin.Context) {
	var req ToggleCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	h.render(c, ctrl, ctrl.ToggleComplete(c.Request.Context(), c.Param("id"), *req.Completed))
}

// UpdateWorkout godoc
// @Summary Save the edit form of a workout
// @Description Empty notes or time remove the field from the workout.
// @Tags Page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Edited workout"
// @Success 200 {object} tracker.PageView
// @Failure 400 {object} gin.H "Validation error"
// @Router /workouts/{id} [put]
func (h *PageHandler) UpdateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	h.render(c, ctrl, ctrl.UpdateWorkout(c.Request.Context(), c.Param("id"), req.input()))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Page
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} tracker.PageView
// @Router /workouts/{id} [delete]
func (h *PageHandler) DeleteWorkout(c *gin.Context) {
	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	h.render(c, ctrl, ctrl.DeleteWorkout(c.Request.Context(), c.Param("id")))
}

// SignOut godoc
// @Summary Sign out
// @Description Ends the session of the token and returns the sign-in page.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tracker.PageView
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/logout [post]
func (h *PageHandler) SignOut(c *gin.Context) {
	ctrl, ok := h.mount(c)
	if !ok {
		return
	}
	defer ctrl.Unmount()

	if err := ctrl.SignOut(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// render answers with the page. Store errors are already on the page as
// toasts, only form validation fails the request.
func (h *PageHandler) render(c *gin.Context, ctrl *tracker.Controller, err error) {
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation error", "fields": verr.Fields})
		return
	}
	if err != nil {
		log.Debugf("page action failed: %s", err)
	}
	c.JSON(http.StatusOK, ctrl.View())
}

func abortWithValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation error", "fields": validationFields(err)})
}

// validationFields turns binding errors into form field messages.
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "Request body must be a JSON object"}
	}
	return tracker.FieldMessages(verrs)
}
