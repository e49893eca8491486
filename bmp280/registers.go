// Package bmp280 provides a driver for Bosch's BMP280 digital temperature & pressure sensor.
// The datasheet can be found here: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp280-ds001.pdf
package bmp280

const Address byte = 0x77 // default I2C address

const (
	RegChipID    byte = 0xD0 // useful for checking the connection
	RegCali      byte = 0x88 // first of the 24 calibration coefficient bytes
	RegSoftReset byte = 0xE0 // write SoftReset here to restore device defaults
	RegStatus    byte = 0xF3 // conversion status register
	RegCtrlMeas  byte = 0xF4 // oversampling & power mode register
	RegConfig    byte = 0xF5 // standby period & IIR filter register
	RegPressData byte = 0xF7 // start of pressure data registers, 3 byte burst
	RegTempData  byte = 0xFA // start of temperature data registers, 3 byte burst
)

const (
	ChipID    byte = 0x58 // correct response if reading from chip id register
	SoftReset byte = 0xB6 // command to reset all user configuration

	statusMeasuring byte = 0x08 // set while a conversion is running
)

type Mode byte
type Oversampling byte
type FilterCoefficient byte
type StandbyTime byte

// The difference between forced and normal mode is the bmp280 goes back to sleep after
// taking a measurement in forced mode. The driver handles waking the sensor up when it
// is not in normal mode. Value 2 is a reserved encoding on this part and is rejected.
const (
	Sleep  Mode = 0x00
	Forced Mode = 0x01
	Normal Mode = 0x03
)

// Increasing sampling rate increases precision but also the wait time for measurements.
// SamplingOff turns the channel off entirely, no reading is available from it.
const (
	SamplingOff Oversampling = iota
	Sampling1X
	Sampling2X
	Sampling4X
	Sampling8X
	Sampling16X
)

// IIR filter coefficients, higher values means steadier measurements but slower
// reaction times. Coeff0 leaves the filter disabled.
const (
	Coeff0 FilterCoefficient = iota
	Coeff2
	Coeff4
	Coeff8
	Coeff16
)

// Standby periods for normal mode, 0.5ms up to 1000ms. The bit codes are the device's
// own non-linear encoding and cannot be computed from the period.
const (
	Standby0_5ms  StandbyTime = 0x00
	Standby62_5ms StandbyTime = 0x01
	Standby125ms  StandbyTime = 0x02
	Standby250ms  StandbyTime = 0x03
	Standby500ms  StandbyTime = 0x04
	Standby1000ms StandbyTime = 0x05
	Standby10ms   StandbyTime = 0x06
	Standby20ms   StandbyTime = 0x07
)

// samplingFactor is the hardware averaging factor for each oversampling setting.
var samplingFactor = map[Oversampling]float64{
	SamplingOff: 0,
	Sampling1X:  1,
	Sampling2X:  2,
	Sampling4X:  4,
	Sampling8X:  8,
	Sampling16X: 16,
}

// QNH is the standard sea level reference pressure in hPa.
const QNH = 1013.25

// DefaultSPIClock is the default SPI clock rate in Hz.
const DefaultSPIClock = 100000
