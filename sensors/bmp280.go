package sensors

import (
	"errors"
	"time"

	"github.com/b3nn0/bmp280/bmp280"
)

var errBMP = errors.New("BMP280 Error: BMP280 is not running")

// BMP280 polls a bmp280 driver in the background and implements the PressureReader
// interface. The driver itself is single-owner; the poll goroutine is that owner.
type BMP280 struct {
	sensor      *bmp280.BMP280
	temperature float64
	pressure    float64
	err         error
	running     bool
}

// NewBMP280 initializes the sensor behind the given transport, switches it to normal
// mode and begins polling it every freq.
func NewBMP280(transport bmp280.Transport, freq time.Duration) (*BMP280, error) {
	sensor, err := bmp280.New(transport)
	if err != nil {
		return nil, err
	}
	if err := sensor.SetIIRFilter(bmp280.Coeff16); err != nil {
		return nil, err
	}
	if err := sensor.SetStandbyPeriod(bmp280.Standby62_5ms); err != nil {
		return nil, err
	}
	if err := sensor.SetMode(bmp280.Normal); err != nil {
		return nil, err
	}

	newbmp := BMP280{sensor: sensor}
	go newbmp.run(freq)

	return &newbmp, nil
}

func (bmp *BMP280) run(freq time.Duration) {
	bmp.running = true
	clock := time.NewTicker(freq)
	defer clock.Stop()
	for bmp.running {
		<-clock.C
		temperature, err := bmp.sensor.Temperature()
		if err != nil {
			bmp.err = err
			continue
		}
		pressure, err := bmp.sensor.Pressure()
		if err != nil {
			bmp.err = err
			continue
		}
		bmp.temperature, bmp.pressure, bmp.err = temperature, pressure, nil
	}
}

// Temperature returns the last temperature in degrees C read from the BMP280.
func (bmp *BMP280) Temperature() (float64, error) {
	if !bmp.running {
		return 0, errBMP
	}
	if bmp.err != nil {
		return 0, bmp.err
	}
	return bmp.temperature, nil
}

// Pressure returns the last pressure in hPa read from the BMP280.
func (bmp *BMP280) Pressure() (float64, error) {
	if !bmp.running {
		return 0, errBMP
	}
	if bmp.err != nil {
		return 0, bmp.err
	}
	return bmp.pressure, nil
}

// Altitude returns the altitude in m derived from the last pressure reading.
func (bmp *BMP280) Altitude() (float64, error) {
	pressure, err := bmp.Pressure()
	if err != nil {
		return 0, err
	}
	return bmp280.CalcAltitude(pressure, bmp.sensor.SeaLevelPressure()), nil
}

// Close stops the measurements of the BMP280.
func (bmp *BMP280) Close() {
	bmp.running = false
}
