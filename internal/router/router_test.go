package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/service"
	"github.com/iliyamo/cinebook/internal/utils"
)

type testAPI struct {
	e      *echo.Echo
	tokens *utils.TokenService
	store  *store
}

func newTestAPI(t *testing.T, limiter echo.MiddlewareFunc) *testAPI {
	t.Helper()
	st := newStore()
	tokens := utils.NewTokenService("test-secret", time.Hour)
	auth := service.NewAuthService(userStore{st}, utils.NewPasswordHasher(4), tokens)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	RegisterRoutes(e)
	RegisterAPI(e, Deps{
		Auth:     handler.NewAuthHandler(auth),
		Movies:   handler.NewMovieHandler(service.NewMovieService(movieStore{st})),
		Bookings: handler.NewBookingHandler(service.NewBookingService(bookingStore{st}, movieStore{st}, nil)),
		Gate:     auth,
		Limiter:  limiter,
	})
	return &testAPI{e: e, tokens: tokens, store: st}
}

func (a *testAPI) do(method, path, token, body string) (int, string) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func message(body string) string { return gjson.Get(body, "message").String() }

const duneJSON = `{
	"title": "Dune",
	"genre": "Sci-Fi",
	"description": "Spice.",
	"duration": "155 min",
	"rating": "PG-13",
	"director": "Denis Villeneuve",
	"cast": ["Timothée Chalamet", "Zendaya"],
	"showtimes": ["07:00 PM", "10:00 PM"],
	"ticketPrice": "12.50"
}`

func TestBookingScenario(t *testing.T) {
	api := newTestAPI(t, nil)

	code, body := api.do(http.MethodPost, "/api/users/register", "", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code, body)
	aliceID := gjson.Get(body, "id").String()
	aliceToken := gjson.Get(body, "token").String()
	require.NotEmpty(t, aliceToken)
	assert.Equal(t, "Alice", gjson.Get(body, "name").String())
	assert.Equal(t, "a@x.com", gjson.Get(body, "email").String())
	assert.False(t, gjson.Get(body, "password").Exists())

	sub, err := api.tokens.Verify(aliceToken)
	require.NoError(t, err)
	assert.Equal(t, aliceID, sub)

	code, body = api.do(http.MethodPost, "/api/users/login", "", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, code, body)
	sub, err = api.tokens.Verify(gjson.Get(body, "token").String())
	require.NoError(t, err)
	assert.Equal(t, aliceID, sub)

	code, body = api.do(http.MethodGet, "/api/movies", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, gjson.Parse(body).IsArray())
	assert.Len(t, gjson.Parse(body).Array(), 0)

	code, body = api.do(http.MethodPost, "/api/movies", "", duneJSON)
	require.Equal(t, http.StatusCreated, code, body)
	movieID := gjson.Get(body, "id").String()
	assert.Equal(t, 12.5, gjson.Get(body, "ticketPrice").Float())
	assert.Equal(t, model.DefaultImageURL, gjson.Get(body, "imageUrl").String())

	code, body = api.do(http.MethodPost, "/api/bookings", aliceToken,
		`{"movieId":"`+movieID+`","showtime":"07:00 PM","numberOfTickets":2}`)
	require.Equal(t, http.StatusCreated, code, body)
	bookingID := gjson.Get(body, "id").String()
	assert.Equal(t, 25.0, gjson.Get(body, "totalPrice").Float())
	assert.Equal(t, movieID, gjson.Get(body, "movie").String())
	assert.Equal(t, aliceID, gjson.Get(body, "user").String())

	code, body = api.do(http.MethodGet, "/api/bookings/mybookings", aliceToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "Dune", gjson.Get(body, "0.movie.title").String())

	code, body = api.do(http.MethodGet, "/api/bookings/"+bookingID, aliceToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, movieID, gjson.Get(body, "movie.id").String())

	code, body = api.do(http.MethodDelete, "/api/bookings/"+bookingID, aliceToken, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, service.MsgBookingRemoved, message(body))

	code, body = api.do(http.MethodDelete, "/api/bookings/"+bookingID, aliceToken, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.MsgBookingNotFound, message(body))
}

func TestRegisterAndLoginFailures(t *testing.T) {
	api := newTestAPI(t, nil)

	code, _ := api.do(http.MethodPost, "/api/users/register", "", `{"name":"Alice","email":"A@X.com ","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := api.do(http.MethodPost, "/api/users/register", "", `{"name":"Other","email":"a@x.com","password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.MsgEmailTaken, message(body))

	code, body = api.do(http.MethodPost, "/api/users/register", "", `{"name":"Bob","email":"bob","password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please enter a valid email address, Password must be at least 6 characters long", message(body))

	code, body = api.do(http.MethodPost, "/api/users/register", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, message(body))

	code, body = api.do(http.MethodPost, "/api/users/login", "", `{"email":"a@x.com","password":"wrong!"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgInvalidLogin, message(body))
	assert.False(t, gjson.Get(body, "token").Exists())

	code, body = api.do(http.MethodPost, "/api/users/login", "", `{"email":"nobody@x.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgInvalidLogin, message(body))
}

func TestMe(t *testing.T) {
	api := newTestAPI(t, nil)
	_, body := api.do(http.MethodPost, "/api/users/register", "", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	token := gjson.Get(body, "token").String()

	code, body := api.do(http.MethodGet, "/api/users/me", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@x.com", gjson.Get(body, "email").String())

	code, body = api.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgNoToken, message(body))

	code, body = api.do(http.MethodGet, "/api/users/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgTokenFailed, message(body))
}

func TestGateRejectsDeletedUser(t *testing.T) {
	api := newTestAPI(t, nil)
	token, err := api.tokens.Issue(uuid.NewString())
	require.NoError(t, err)

	code, body := api.do(http.MethodGet, "/api/bookings/mybookings", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgTokenUserNotFound, message(body))
}

func TestMovieCatalogErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	code, _ := api.do(http.MethodPost, "/api/movies", "", duneJSON)
	require.Equal(t, http.StatusCreated, code)

	code, body := api.do(http.MethodPost, "/api/movies", "", duneJSON)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.MsgDuplicateTitle, message(body))

	code, body = api.do(http.MethodPost, "/api/movies", "", strings.Replace(duneJSON, `"12.50"`, `"abc"`, 1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.MsgInvalidPrice, message(body))

	code, body = api.do(http.MethodPost, "/api/movies", "", `{"title":"Solo","ticketPrice":9}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, message(body), "Path `genre` is required.")
	assert.Contains(t, message(body), "Path `showtimes` is required.")

	code, body = api.do(http.MethodGet, "/api/movies/not-an-id", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.MsgInvalidMovieID, message(body))

	code, body = api.do(http.MethodGet, "/api/movies/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.MsgMovieNotFound, message(body))
}

func TestBookingOwnership(t *testing.T) {
	api := newTestAPI(t, nil)
	_, body := api.do(http.MethodPost, "/api/users/register", "", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	alice := gjson.Get(body, "token").String()
	_, body = api.do(http.MethodPost, "/api/users/register", "", `{"name":"Bob","email":"b@x.com","password":"secret1"}`)
	bob := gjson.Get(body, "token").String()
	_, body = api.do(http.MethodPost, "/api/movies", "", duneJSON)
	movieID := gjson.Get(body, "id").String()

	code, body := api.do(http.MethodPost, "/api/bookings", "", `{"movieId":"`+movieID+`","showtime":"07:00 PM","numberOfTickets":1}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, service.MsgNoToken, message(body))

	code, body = api.do(http.MethodPost, "/api/bookings", alice, `{"movieId":"`+movieID+`","showtime":"07:00 PM","numberOfTickets":0}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.MsgTicketsRequired, message(body))

	code, body = api.do(http.MethodPost, "/api/bookings", alice, `{"movieId":"`+uuid.NewString()+`","showtime":"07:00 PM","numberOfTickets":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.MsgMovieNotFound, message(body))

	code, body = api.do(http.MethodPost, "/api/bookings", alice, `{"movieId":"`+movieID+`","showtime":"07:00 PM","numberOfTickets":3}`)
	require.Equal(t, http.StatusCreated, code, body)
	bookingID := gjson.Get(body, "id").String()

	code, body = api.do(http.MethodGet, "/api/bookings/"+bookingID, bob, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, service.MsgViewForbidden, message(body))

	code, body = api.do(http.MethodDelete, "/api/bookings/"+bookingID, bob, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, service.MsgDeleteForbidden, message(body))

	code, body = api.do(http.MethodGet, "/api/bookings/mybookings", bob, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), gjson.Get(body, "#").Int())

	code, body = api.do(http.MethodGet, "/api/bookings/bogus", alice, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.MsgInvalidBookingID, message(body))

	code, body = api.do(http.MethodGet, "/api/bookings", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, 37.5, gjson.Get(body, "0.totalPrice").Float())
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	code, body := api.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, handler.Banner, body)

	code, body = api.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = api.do(http.MethodGet, "/api/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found", message(body))
}

func TestLimiterWrapsCredentialRoutes(t *testing.T) {
	var hits []string
	limiter := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits = append(hits, c.Request().Method+" "+c.Path())
			return next(c)
		}
	}
	api := newTestAPI(t, limiter)

	api.do(http.MethodPost, "/api/users/login", "", `{"email":"a@x.com","password":"x"}`)
	api.do(http.MethodGet, "/api/movies", "", "")
	api.do(http.MethodPost, "/api/users/register", "", `{}`)

	assert.Equal(t, []string{"POST /api/users/login", "POST /api/users/register"}, hits)
}
