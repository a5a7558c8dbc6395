package service

import (
	"github.com/aerotix/aerotix/internal/repository"
	redisrepo "github.com/aerotix/aerotix/internal/repository/redis"
	"github.com/aerotix/aerotix/internal/service/admin"
	"github.com/aerotix/aerotix/internal/service/booking"
	"github.com/aerotix/aerotix/internal/service/checkin"
	"github.com/aerotix/aerotix/internal/service/query"
)

type Services struct {
	Booking *booking.Service
	Checkin *checkin.Service
	Query   *query.Service
	Admin   *admin.Service
}

type Config struct {
	Booking booking.Config
	Checkin checkin.Config
	Query   query.Config
}

func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.FlightsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	producer booking.Producer,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(store, cache, pubsub, limiter, producer, nil, cfg.Booking),
		Checkin: checkin.New(store, cache, pubsub, producer, cfg.Checkin),
		Query:   query.New(store, cache, cfg.Query),
		Admin:   admin.New(store, cache, pubsub),
	}
}
