// Package sensors provides a polling interface on top of the register-level driver,
// serving last-known readings to applications that sample at their own rate.
package sensors

// PressureReader provides an interface to a sensor reading pressure and
// temperature, like the BMP280.
type PressureReader interface {
	Temperature() (temp float64, tempError error) // Temperature returns the temperature in degrees C.
	Pressure() (press float64, pressError error)  // Pressure returns the atmospheric pressure in hPa.
	Close()                                       // Close stops reading from the sensor.
}
