package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/service"
)

// BookingHandler serves the booking ledger.  Every route except ListAll sits
// behind the auth gate; the owner of a booking is always the caller.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type bookingReq struct {
	MovieID         string `json:"movieId"`
	Showtime        string `json:"showtime"`
	NumberOfTickets int    `json:"numberOfTickets"`
}

func callerID(c echo.Context) (string, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return "", service.Unauthorized(service.MsgNoToken)
	}
	return u.ID, nil
}

// Create: POST /api/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	b, err := h.Bookings.Create(c.Request().Context(), uid, service.CreateBookingInput{
		MovieID:         req.MovieID,
		Showtime:        req.Showtime,
		NumberOfTickets: req.NumberOfTickets,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// ListMine: GET /api/bookings/mybookings
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	out, err := h.Bookings.ListMine(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get: GET /api/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	b, err := h.Bookings.GetOne(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel: DELETE /api/bookings/:id
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.Bookings.Cancel(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": service.MsgBookingRemoved})
}

// ListAll: GET /api/bookings
func (h *BookingHandler) ListAll(c echo.Context) error {
	out, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
