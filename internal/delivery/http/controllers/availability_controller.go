package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "slotscheduler/internal/delivery/http/helpers"
	"slotscheduler/internal/delivery/http/middleware"
	"slotscheduler/internal/domain"
)

// SlotRequest is the request body for creating or updating a slot. The wire
// form is flat: owner email plus RFC 3339 instants. Duration is recomputed
// server-side; a client-supplied value is ignored.
type SlotRequest struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Duration  int       `json:"duration"`
	Title     string    `json:"title,omitempty"`
	Attendees []string  `json:"attendees,omitempty"`
}

// Validate implements Validator.
func (s SlotRequest) Validate() []string {
	var errs []string
	if s.Start.IsZero() {
		errs = append(errs, "start is required")
	}
	if s.End.IsZero() {
		errs = append(errs, "end is required")
	}
	if !s.Start.IsZero() && !s.End.IsZero() && !s.Start.Before(s.End) {
		errs = append(errs, "start must be before end")
	}
	return errs
}

// SlotResponse is the wire form of a slot in API responses.
type SlotResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Duration  int       `json:"duration"`
	Title     string    `json:"title,omitempty"`
	Attendees []string  `json:"attendees,omitempty"`
}

func slotResponse(slot *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:        slot.ID,
		User:      slot.Owner,
		Start:     slot.Interval.Start,
		End:       slot.Interval.End,
		Duration:  slot.DurationMinutes,
		Title:     slot.Title,
		Attendees: slot.Attendees,
	}
}

type AvailabilityController struct {
	Logger  *slog.Logger
	Service domain.AvailabilityService
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		Logger:  logger,
		Service: svc,
	}
}

// caller returns the authenticated caller's email and admin bit.
func caller(r *http.Request) (email string, admin bool) {
	email, _ = middleware.EmailFromContext(r.Context())
	return email, middleware.IsAdmin(r.Context())
}

// List godoc
// @Summary List a user's availability slots
// @Description List the slots owned by the given user, sorted by start time. Non-admins may only query their own slots. Defaults to the caller when the user parameter is omitted.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param user query string false "Owner email"
// @Success 200 {object} helpers.APIResponse "data contains a list of slots"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/slots [get]
func (c *AvailabilityController) List(w http.ResponseWriter, r *http.Request) {
	email, admin := caller(r)
	owner := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("user")))
	if owner == "" {
		owner = email
	}
	if !admin && owner != email {
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "cannot view another user's slots")
		return
	}

	slots, err := c.Service.ListSlots(r.Context(), owner)
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

// Create godoc
// @Summary Create an availability slot
// @Description Create a slot for the given owner. Non-admins may only create slots for themselves. A request carrying a title or attendees books a session and sends invitation emails.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SlotRequest true "Slot data"
// @Success 201 {object} helpers.APIResponse "data contains the created slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/slots [post]
func (c *AvailabilityController) Create(w http.ResponseWriter, r *http.Request) {
	var req SlotRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email, admin := caller(r)
	owner := strings.TrimSpace(strings.ToLower(req.User))
	if owner == "" {
		owner = email
	}
	if !admin && owner != email {
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "cannot create slots for another user")
		return
	}

	var slot *domain.Slot
	var err error
	if req.Title != "" || len(req.Attendees) > 0 {
		slot, err = c.Service.ScheduleSession(r.Context(), owner, req.Title, req.Start, req.End, req.Attendees)
	} else {
		slot, err = c.Service.CreateSlot(r.Context(), owner, req.Start, req.End)
	}
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

// Update godoc
// @Summary Update an availability slot
// @Description Replace a slot's interval; the duration is recomputed. Non-admins may only update their own slots.
// @Tags availability
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
// @Router /availability/slots/{slotID} [put]
func (c *AvailabilityController) Update(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	var req SlotRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if !c.authorizeSlot(w, r, slotID) {
		return
	}

	slot, err := c.Service.UpdateSlot(r.Context(), slotID, req.Start, req.End)
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

// Delete godoc
// @Summary Delete an availability slot
// @Description Delete a slot by ID. Non-admins may only delete their own slots.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/slots/{slotID} [delete]
func (c *AvailabilityController) Delete(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if !c.authorizeSlot(w, r, slotID) {
		return
	}

	if err := c.Service.DeleteSlot(r.Context(), slotID); err != nil {
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

// authorizeSlot checks that the caller owns the slot or is an admin. A
// missing slot reports 404 so callers cannot probe other users' slot IDs.
// Returns false after writing the response when access is denied.
func (c *AvailabilityController) authorizeSlot(w http.ResponseWriter, r *http.Request, slotID string) bool {
	email, admin := caller(r)
	if admin {
		return true
	}
	slot, err := c.Service.GetSlot(r.Context(), slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "slot not found")
			return false
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return false
	}
	if slot.Owner != email {
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "cannot modify another user's slot")
		return false
	}
	return true
}
