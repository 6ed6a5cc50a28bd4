package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

type BookingController struct {
	Logger   *slog.Logger
	Bookings domain.BookingService
}

func NewBookingController(logger *slog.Logger, bookings domain.BookingService) *BookingController {
	return &BookingController{
		Logger:   logger,
		Bookings: bookings,
	}
}

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

// Validate implements Validator. Returns error messages for required fields.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if c.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if c.Email == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// CreateBookingSuccessResponse is the success response envelope for POST /bookings (201).
type CreateBookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateBooking godoc
// @Summary Book a spot for an event
// @Description Creates a booking for the given event and email. The event must exist and the pair (event, email) must not already be booked.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.CreateBookingSuccessResponse "data contains the created booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event does not exist)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Bookings.CreateBooking(r.Context(), req.EventID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrEventNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
		case errors.Is(err, domain.ErrDuplicateBooking):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "booking creation failed")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}
