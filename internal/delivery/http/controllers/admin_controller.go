package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "slotscheduler/internal/delivery/http/helpers"
	"slotscheduler/internal/domain"
)

// ScheduleSessionRequest is the request body for POST /slots
type ScheduleSessionRequest struct {
	User      string    `json:"user"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
}

// Validate implements Validator.
func (s ScheduleSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.User) == "" {
		errs = append(errs, "user is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, "title is required")
	}
	if s.Start.IsZero() {
		errs = append(errs, "start is required")
	}
	if s.End.IsZero() {
		errs = append(errs, "end is required")
	}
	if !s.Start.IsZero() && !s.End.IsZero() && !s.Start.Before(s.End) {
		errs = append(errs, "start must be before end")
	}
	for _, a := range s.Attendees {
		if !emailRegexp.MatchString(strings.TrimSpace(a)) {
			errs = append(errs, "invalid attendee email: "+a)
		}
	}
	return errs
}

// AdminController serves the admin-only routes: the user directory, slot CRUD
// keyed by owner email, and session booking.
type AdminController struct {
	Logger       *slog.Logger
	Users        domain.UserRepository
	Availability domain.AvailabilityService
}

func NewAdminController(logger *slog.Logger, users domain.UserRepository, availability domain.AvailabilityService) *AdminController {
	return &AdminController{
		Logger:       logger,
		Users:        users,
		Availability: availability,
	}
}

// ListUsers godoc
// @Summary List all users
// @Description List every registered user, sorted by name. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains a list of users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, users)
}

// ListAvailability godoc
// @Summary List a user's slots by email
// @Description List the slots owned by the user with the given email. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param email path string true "Owner email"
// @Success 200 {object} helpers.APIResponse "data contains a list of slots"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/availability/{email} [get]
func (c *AdminController) ListAvailability(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(strings.ToLower(r.PathValue("email")))
	slots, err := c.Availability.ListSlots(r.Context(), owner)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse(s))
	}
	h.WriteJSONSuccess(w, http.StatusOK, out)
}

// UpdateSlot godoc
// @Summary Update any user's slot
// @Description Replace a slot's interval regardless of owner. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Param body body SlotRequest true "New interval"
// @Success 200 {object} helpers.APIResponse "data contains the updated slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/availability/{slotID} [put]
func (c *AdminController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	var req SlotRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	slot, err := c.Availability.UpdateSlot(r.Context(), slotID, req.Start, req.End)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "slot not found")
		case errors.Is(err, domain.ErrInvalidInterval):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "start must be before end")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, slotResponse(slot))
}

// DeleteSlot godoc
// @Summary Delete any user's slot
// @Description Delete a slot by ID regardless of owner. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/availability/{slotID} [delete]
func (c *AdminController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if err := c.Availability.DeleteSlot(r.Context(), slotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "slot not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ScheduleSession godoc
// @Summary Book a session on a user's calendar
// @Description Book one slot on the given user's calendar carrying the session title and attendee list, then send invitation emails to the attendees. Email failures are logged and do not fail the booking. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScheduleSessionRequest true "Session data"
// @Success 201 {object} helpers.APIResponse "data contains the booked slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots [post]
func (c *AdminController) ScheduleSession(w http.ResponseWriter, r *http.Request) {
	var req ScheduleSessionRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	owner := strings.TrimSpace(strings.ToLower(req.User))

	slot, err := c.Availability.ScheduleSession(r.Context(), owner, req.Title, req.Start, req.End, req.Attendees)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInterval) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "start must be before end")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, slotResponse(slot))
}
