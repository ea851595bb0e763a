package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/router"
	"github.com/iliyamo/cinebook/internal/service"
	"github.com/iliyamo/cinebook/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	db, err := database.Open(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	slog.Info("database ready")

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL)
	}

	rl := config.LoadRateLimitConfig()
	var limiter echo.MiddlewareFunc
	if rl.Enabled {
		rdb := config.NewRedisClient(ctx)
		if rdb == nil {
			slog.Warn("redis unreachable; rate limiting disabled")
		} else {
			defer rdb.Close()
			limiter = middleware.NewTokenBucket(rl, rdb)
		}
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	bookings := repository.NewBookingRepo(db)

	auth := service.NewAuthService(users, utils.NewPasswordHasher(cfg.BcryptCost), utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL))

	e := newEcho(cfg)
	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Deps{
		Auth:     handler.NewAuthHandler(auth),
		Movies:   handler.NewMovieHandler(service.NewMovieService(movies)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(bookings, movies, publisher)),
		Gate:     auth,
		Limiter:  limiter,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	return e
}
