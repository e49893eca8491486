package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/b3nn0/bmp280/bmp280"
)

type Reading struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature_c"`
	Pressure    float64   `json:"pressure_hpa"`
	Altitude    float64   `json:"altitude_m"`
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		log.Info().Str("signal", s.String()).Msg("shutdown requested")
		cancel()
	}()

	i2cbus := embd.NewI2CBus(byte(cfg.I2C.Bus))
	sensor, err := bmp280.New(bmp280.NewI2CTransport(&i2cbus, byte(cfg.I2C.Address)))
	if err != nil {
		log.Fatal().Err(err).Msg("init bmp280 failed")
	}

	pub, err := NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to NATS failed")
	}
	defer pub.Close()

	log.Info().Str("subject", cfg.NATS.Subject).Msg("bmp280 publisher started")

	ticker := time.NewTicker(cfg.Publish.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down publisher")
			return
		case <-ticker.C:
			temperature, err := sensor.Temperature()
			if err != nil {
				log.Error().Err(err).Msg("temperature read failed")
				continue
			}
			pressure, err := sensor.Pressure()
			if err != nil {
				log.Error().Err(err).Msg("pressure read failed")
				continue
			}
			reading := Reading{
				Time:        time.Now().UTC(),
				Temperature: temperature,
				Pressure:    pressure,
				Altitude:    bmp280.CalcAltitude(pressure, sensor.SeaLevelPressure()),
			}
			payload, err := json.Marshal(reading)
			if err != nil {
				log.Error().Err(err).Msg("marshal failed")
				continue
			}
			if err := pub.Publish(payload); err != nil {
				log.Error().Err(err).Msg("publish failed")
			} else {
				log.Debug().
					Float64("temp", reading.Temperature).
					Float64("press", reading.Pressure).
					Msg("published")
			}
		}
	}
}
