package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/lmittmann/tint"
	_ "github.com/mattn/go-sqlite3"

	"github.com/b3nn0/bmp280/bmp280"
)

const createReadingsTable = `
CREATE TABLE IF NOT EXISTS readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at TIMESTAMP NOT NULL,
	temperature_c REAL NOT NULL,
	pressure_hpa REAL NOT NULL,
	altitude_m REAL NOT NULL
);`

func main() {
	bus := flag.Int("bus", 1, "I2C bus number")
	address := flag.Int("address", int(bmp280.Address), "I2C address of the BMP280")
	dbPath := flag.String("db", "bmp280.sqlite", "path of the sqlite database to log to")
	interval := flag.Duration("interval", 10*time.Second, "time between logged readings")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})).With("app", "bmp280log")

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		logger.Error("couldn't open database", "path", *dbPath, "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if _, err := db.Exec(createReadingsTable); err != nil {
		logger.Error("couldn't create readings table", "err", err)
		os.Exit(1)
	}

	i2cbus := embd.NewI2CBus(byte(*bus))
	sensor, err := bmp280.New(bmp280.NewI2CTransport(&i2cbus, byte(*address)))
	if err != nil {
		logger.Error("couldn't initialize BMP280", "err", err)
		os.Exit(1)
	}
	logger.Info("logging readings", "db", *dbPath, "interval", *interval)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	clock := time.NewTicker(*interval)
	defer clock.Stop()
	for {
		select {
		case <-interrupt:
			logger.Info("shutting down")
			return
		case <-clock.C:
			temperature, err := sensor.Temperature()
			if err != nil {
				logger.Warn("temperature read failed", "err", err)
				continue
			}
			pressure, err := sensor.Pressure()
			if err != nil {
				logger.Warn("pressure read failed", "err", err)
				continue
			}
			altitude := bmp280.CalcAltitude(pressure, sensor.SeaLevelPressure())
			_, err = db.Exec(
				"INSERT INTO readings (taken_at, temperature_c, pressure_hpa, altitude_m) VALUES (?, ?, ?, ?)",
				time.Now().UTC(), temperature, pressure, altitude)
			if err != nil {
				logger.Warn("insert failed", "err", err)
				continue
			}
			logger.Info("logged reading", "temperature", temperature, "pressure", pressure, "altitude", altitude)
		}
	}
}
