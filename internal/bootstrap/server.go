package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzotov/astrobooking/api"
	"github.com/mzotov/astrobooking/config"
	"github.com/mzotov/astrobooking/internal/service/booking"
	"github.com/mzotov/astrobooking/internal/service/flights"
	"github.com/mzotov/astrobooking/internal/service/rockets"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, rocketSvc rockets.RocketUseCase, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	router := NewRouter(rocketSvc, flightSvc, bookingSvc)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires the resource handlers onto a gin engine.
func NewRouter(rocketSvc rockets.RocketUseCase, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.RedirectTrailingSlash = true

	api.NewRocketHandler(rocketSvc).Register(router.Group("/rockets"))
	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	return router
}
