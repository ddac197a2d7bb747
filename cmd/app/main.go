package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzotov/astrobooking/config"
	"github.com/mzotov/astrobooking/internal/bootstrap"
	"github.com/mzotov/astrobooking/internal/cache"
	"github.com/mzotov/astrobooking/internal/kafka"
	"github.com/mzotov/astrobooking/internal/repository"
	"github.com/mzotov/astrobooking/internal/service/booking"
	"github.com/mzotov/astrobooking/internal/service/flights"
	"github.com/mzotov/astrobooking/internal/service/rockets"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rocketRepo repository.RocketRepository
	var flightRepo repository.FlightRepository
	var bookingRepo repository.BookingRepository

	switch cfg.Storage.Backend {
	case "memory":
		rocketRepo = repository.NewMemRocketRepository()
		flightRepo = repository.NewMemFlightRepository()
		bookingRepo = repository.NewMemBookingRepository()
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		rocketRepo = repository.NewPGRocketRepository(pool)
		flightRepo = repository.NewPGFlightRepository(pool)
		bookingRepo = repository.NewPGBookingRepository(pool)
	default:
		log.Fatalf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	var flightOpts []flights.FlightServiceOption
	var bookingOpts []booking.BookingServiceOption

	if cfg.Redis.Addr != "" && cfg.Redis.FlightsCacheTTLSeconds > 0 {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Redis.FlightsCacheTTLSeconds)*time.Second)
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		flightOpts = append(flightOpts, flights.WithProducer(producer, cfg.Kafka.NotificationsTopic))
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.NotificationsTopic))
	}

	rocketService := rockets.NewRocketService(rocketRepo)
	flightService := flights.NewFlightService(flightRepo, rocketRepo, bookingRepo, flightOpts...)
	bookingService := booking.NewBookingService(bookingRepo, flightRepo, rocketRepo, flightService, bookingOpts...)

	if err := bootstrap.Run(ctx, cfg, rocketService, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
