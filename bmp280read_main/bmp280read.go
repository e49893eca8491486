package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"

	"github.com/b3nn0/bmp280/bmp280"
)

func main() {
	bus := flag.Int("bus", 1, "I2C bus number")
	address := flag.Int("address", int(bmp280.Address), "I2C address of the BMP280")
	interval := flag.Duration("interval", time.Second, "time between readings")
	flag.Parse()

	i2cbus := embd.NewI2CBus(byte(*bus))

	sensor, err := bmp280.New(bmp280.NewI2CTransport(&i2cbus, byte(*address)))
	if err != nil {
		log.Fatalf("BMP280 Error: couldn't initialize sensor: %s", err)
	}
	log.Printf("BMP280 Info: sensor initialized, conversion takes up to %.1f ms", sensor.MeasurementTimeMax())

	fmt.Println("t,temp,press,alt")
	clock := time.NewTicker(*interval)
	for {
		<-clock.C
		temperature, err := sensor.Temperature()
		if err != nil {
			log.Printf("BMP280 Error: temperature read failed: %s", err)
			continue
		}
		pressure, err := sensor.Pressure()
		if err != nil {
			log.Printf("BMP280 Error: pressure read failed: %s", err)
			continue
		}
		altitude := bmp280.CalcAltitude(pressure, sensor.SeaLevelPressure())
		fmt.Printf("%v,%.2f,%.2f,%.1f\n", time.Now().Format(time.RFC3339), temperature, pressure, altitude)
	}
}
