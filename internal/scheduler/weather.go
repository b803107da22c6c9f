package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/clients"
	"github.com/ecotrack-lk/backend/internal/db"
)

// WeatherPoller periodically fetches current basin weather and stores an
// observation row. It runs once immediately, then on every tick.
type WeatherPoller struct {
	Client   *clients.WeatherClient
	Store    *db.FloodStore
	Interval time.Duration
}

// NewWeatherPoller creates a poller with the default hourly interval.
func NewWeatherPoller(client *clients.WeatherClient, store *db.FloodStore) *WeatherPoller {
	return &WeatherPoller{
		Client:   client,
		Store:    store,
		Interval: time.Hour,
	}
}

// Run blocks until ctx is cancelled.
func (p *WeatherPoller) Run(ctx context.Context) {
	log.WithField("interval", p.Interval.String()).Info("weather poller started")
	p.poll(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("weather poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *WeatherPoller) poll(ctx context.Context) {
	obs, err := p.Client.FetchCurrent(ctx)
	if err != nil {
		log.WithError(err).Error("weather poll failed")
		return
	}
	stored, err := p.Store.InsertWeather(ctx, *obs)
	if err != nil {
		log.WithError(err).Error("failed to store weather observation")
		return
	}
	log.WithFields(log.Fields{
		"temperature": stored.Temperature,
		"humidity":    stored.Humidity,
		"rainfall_1h": stored.Rainfall1h,
	}).Info("weather observation stored")
}
