package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mzotov/astrobooking/config"
	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const futureFlightsKey = "cache:flights:future"

// RedisCache holds the unfiltered future-flights listing for a short TTL.
// Every flight or booking mutation invalidates it, so it only ever delays
// time-driven state changes, never count-driven ones.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFutureFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, futureFlightsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFutureFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, futureFlightsKey, payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFutureFlights(ctx context.Context) error {
	return c.client.Del(ctx, futureFlightsKey).Err()
}
