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
	"github.com/mzotov/astrobooking/internal/kafka"
	"github.com/mzotov/astrobooking/internal/notify"
	"github.com/mzotov/astrobooking/internal/repository"
	"github.com/mzotov/astrobooking/internal/service/flights"
)

// The worker consumes flight events to deliver (simulated) notifications
// and periodically sweeps flight states so time-driven transitions, like
// the 7-day below-minimum cancellation, fire on a read-idle system. The
// sweep is only useful with a shared backend, so it requires postgres.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Backend != "postgres" {
		log.Fatalf("worker requires the postgres storage backend, got %q", cfg.Storage.Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	rocketRepo := repository.NewPGRocketRepository(pool)
	flightRepo := repository.NewPGFlightRepository(pool)
	bookingRepo := repository.NewPGBookingRepository(pool)

	var flightOpts []flights.FlightServiceOption
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		flightOpts = append(flightOpts, flights.WithProducer(producer, cfg.Kafka.NotificationsTopic))

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := notify.NewSender()
		go func() {
			if err := consumer.Consume(ctx, sender.Send); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	flightService := flights.NewFlightService(flightRepo, rocketRepo, bookingRepo, flightOpts...)

	sweepEvery := time.Duration(cfg.Worker.StateSweepMinutes) * time.Minute
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	sweepTicker := time.NewTicker(sweepEvery)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			swept, err := flightService.SweepStates(ctx)
			if err != nil {
				log.Printf("state sweep error: %v", err)
				continue
			}
			if swept > 0 {
				log.Printf("state sweep: %d flights changed state", swept)
			}
		case <-ctx.Done():
			log.Printf("shutting down")
			return
		}
	}
}
