package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/service"
)

// MsgInvalidPrice is returned when ticketPrice cannot be read as a number.
const MsgInvalidPrice = "ticketPrice must be a valid number."

// MovieHandler serves the public catalog.
type MovieHandler struct {
	Movies *service.MovieService
}

func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type movieReq struct {
	Title       string   `json:"title" validate:"required"`
	Genre       string   `json:"genre" validate:"required"`
	Description string   `json:"description" validate:"required"`
	ImageURL    string   `json:"imageUrl"`
	Duration    string   `json:"duration" validate:"required"`
	Rating      string   `json:"rating" validate:"required"`
	Director    string   `json:"director" validate:"required"`
	Cast        []string `json:"cast" validate:"required"`
	Showtimes   []string `json:"showtimes" validate:"required"`
	TicketPrice price    `json:"ticketPrice"`
}

// List: GET /api/movies
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Get: GET /api/movies/:id
func (h *MovieHandler) Get(c echo.Context) error {
	m, err := h.Movies.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Add: POST /api/movies.  ticketPrice is coerced before any other field is
// looked at.
func (h *MovieHandler) Add(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if !req.TicketPrice.Valid {
		return service.BadRequest(MsgInvalidPrice)
	}
	for _, s := range []*string{&req.Title, &req.Genre, &req.ImageURL, &req.Duration, &req.Rating, &req.Director} {
		*s = strings.TrimSpace(*s)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.Movies.Add(c.Request().Context(), service.MovieInput{
		Title:       req.Title,
		Genre:       req.Genre,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Director:    req.Director,
		Cast:        req.Cast,
		Showtimes:   req.Showtimes,
		TicketPrice: req.TicketPrice.Value,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
