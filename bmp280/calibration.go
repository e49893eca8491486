package bmp280

import (
	"encoding/binary"
	"math"
)

// calibration holds the 12 factory trim words, converted to float once at parse time.
// The compensation formula given in the datasheet is implemented in floating point.
type calibration struct {
	t1, t2, t3                         float64
	p1, p2, p3, p4, p5, p6, p7, p8, p9 float64
}

// parseCalibration decodes the 24 byte trim block starting at RegCali. The words are
// little-endian; only T1 and P1 are unsigned, all others are signed two's-complement.
func parseCalibration(buffer []byte) calibration {
	u := func(i int) float64 { return float64(binary.LittleEndian.Uint16(buffer[2*i:])) }
	s := func(i int) float64 { return float64(int16(binary.LittleEndian.Uint16(buffer[2*i:]))) }
	return calibration{
		t1: u(0), t2: s(1), t3: s(2),
		p1: u(3), p2: s(4), p3: s(5),
		p4: s(6), p5: s(7), p6: s(8),
		p7: s(9), p8: s(10), p9: s(11),
	}
}

// compensateTemperature turns a raw 20-bit temperature reading into degrees C. The
// second return value is the t_fine term feeding the pressure compensation; it is only
// valid for the measurement cycle it was computed in.
func (c *calibration) compensateTemperature(raw float64) (float64, int32) {
	var1 := (raw/16384.0 - c.t1/1024.0) * c.t2
	var2 := (raw/131072.0 - c.t1/8192.0) * (raw/131072.0 - c.t1/8192.0) * c.t3
	tFine := int32(var1 + var2)
	return float64(tFine) / 5120.0, tFine
}

// compensatePressure turns a raw 20-bit pressure reading into hPa. tFine must come
// from a compensateTemperature call on the same measurement cycle.
func (c *calibration) compensatePressure(raw float64, tFine int32) (float64, error) {
	var1 := float64(tFine)/2.0 - 64000.0
	var2 := var1 * var1 * c.p6 / 32768.0
	var2 = var2 + var1*c.p5*2.0
	var2 = var2/4.0 + c.p4*65536.0
	var3 := c.p3 * var1 * var1 / 524288.0
	var1 = (var3 + c.p2*var1) / 524288.0
	var1 = (1.0 + var1/32768.0) * c.p1
	if var1 == 0 {
		return 0, ErrDivisionHazard
	}
	pressure := 1048576.0 - raw
	pressure = ((pressure - var2/4096.0) * 6250.0) / var1
	var1 = c.p9 * pressure * pressure / 2147483648.0
	var2 = pressure * c.p8 / 32768.0
	pressure = pressure + (var1+var2+c.p7)/16.0
	return pressure / 100.0, nil
}

// CalcAltitude returns the altitude in m for a pressure in hPa, given the sea level
// reference pressure in hPa.
func CalcAltitude(pressure, seaLevel float64) float64 {
	return 44330.0 * (1.0 - math.Pow(pressure/seaLevel, 0.1903))
}

// CalcSeaLevel back-solves the sea level reference pressure in hPa from a measured
// pressure in hPa at a known altitude in m.
func CalcSeaLevel(pressure, altitude float64) float64 {
	return pressure / math.Pow(1.0-altitude/44330.0, 5.255)
}
