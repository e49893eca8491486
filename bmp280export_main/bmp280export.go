package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/takama/daemon"

	"github.com/b3nn0/bmp280/bmp280"
	"github.com/b3nn0/bmp280/sensors"
)

// Initialize Prometheus metrics.
var (
	currentTemperature = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bmp280_temperature_celsius",
		Help: "Current temperature measured by the BMP280.",
	})

	currentPressure = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bmp280_pressure_hpa",
		Help: "Current pressure measured by the BMP280.",
	})

	currentAltitude = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bmp280_altitude_meters",
		Help: "Current pressure altitude derived from the BMP280.",
	})

	totalReadErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bmp280_read_errors",
			Help: "Total failed sensor reads.",
		},
		[]string{"all"},
	)
)

const (
	// how often to poll the sensor
	updateDelayMS = 1000

	// name of the service
	name        = "bmp280export"
	description = "BMP280 temperature and pressure exporter"

	// Address on which daemon should be listen.
	defaultAddr = ":9672"
)

type SensorStatus struct {
	Temperature float64
	Pressure    float64
	Altitude    float64
	SeaLevel    float64
}

var myStatus SensorStatus

var stdlog, errlog *log.Logger

func updateStats(reader *sensors.BMP280, seaLevel float64) {
	updateTicker := time.NewTicker(updateDelayMS * time.Millisecond)
	for {
		<-updateTicker.C
		temperature, err := reader.Temperature()
		if err != nil {
			totalReadErrors.With(prometheus.Labels{"all": "all"}).Inc()
			continue
		}
		pressure, err := reader.Pressure()
		if err != nil {
			totalReadErrors.With(prometheus.Labels{"all": "all"}).Inc()
			continue
		}
		myStatus.Temperature = temperature
		myStatus.Pressure = pressure
		myStatus.Altitude = bmp280.CalcAltitude(pressure, seaLevel)
		myStatus.SeaLevel = seaLevel
		currentTemperature.Set(temperature)
		currentPressure.Set(pressure)
		currentAltitude.Set(myStatus.Altitude)
	}
}

// Service has embedded daemon
type Service struct {
	daemon.Daemon
}

// Manage by daemon commands or run the daemon
func (service *Service) Manage() (string, error) {

	bus := flag.Int("bus", 1, "I2C bus number")
	address := flag.Int("address", int(bmp280.Address), "I2C address of the BMP280")
	seaLevel := flag.Float64("qnh", bmp280.QNH, "sea level reference pressure, hPa")
	addr := flag.String("listen", defaultAddr, "address to serve metrics on")
	flag.Parse()

	usage := "Usage: " + name + " install | remove | start | stop | status"
	// if received any kind of command, do it
	if flag.NArg() > 0 {
		switch flag.Arg(0) {
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	i2cbus := embd.NewI2CBus(byte(*bus))
	reader, err := sensors.NewBMP280(bmp280.NewI2CTransport(&i2cbus, byte(*address)), updateDelayMS*time.Millisecond)
	if err != nil {
		return "couldn't initialize BMP280", err
	}
	defer reader.Close()

	prometheus.MustRegister(currentTemperature)
	prometheus.MustRegister(currentPressure)
	prometheus.MustRegister(currentAltitude)
	prometheus.MustRegister(totalReadErrors)
	go updateStats(reader, *seaLevel)

	// Set up channel on which to send signal notifications.
	// We must use a buffered channel or risk missing the signal
	// if we're not ready to receive when the signal is sent.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	http.HandleFunc("/", handleStatusRequest)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(*addr, nil)

	stdlog.Println(name, "serving metrics on", *addr)

	// interrupt by system signal
	killSignal := <-interrupt
	stdlog.Println("Got signal:", killSignal)
	if killSignal == syscall.SIGINT {
		return "Daemon was interrupted by system signal", nil
	}
	return "Daemon was killed", nil
}

func handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	statusJSON, _ := json.Marshal(&myStatus)
	w.Write(statusJSON)
}

func init() {
	stdlog = log.New(os.Stdout, "", 0)
	errlog = log.New(os.Stderr, "", 0)
}

func main() {
	srv, err := daemon.New(name, description, daemon.SystemDaemon)
	if err != nil {
		errlog.Println("Error: ", err)
		os.Exit(1)
	}
	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		errlog.Println(status, "\nError: ", err)
		os.Exit(1)
	}
	fmt.Println(status)
}
