package bmp280

import (
	"encoding/binary"
	"math"
	"testing"
)

// referenceTrim holds the calibration example from the Bosch datasheet, in register
// order T1..T3, P1..P9.
var referenceTrim = []int{27504, 26435, -1000, 36477, -10685, 3024, 2855, 140, -7, 15500, -14600, 6000}

// referenceTrimBytes encodes referenceTrim the way the device serves it: 24 bytes,
// 12 little-endian 16-bit words.
func referenceTrimBytes() []byte {
	buffer := make([]byte, 24)
	for i, word := range referenceTrim {
		binary.LittleEndian.PutUint16(buffer[2*i:], uint16(int16(word)))
	}
	return buffer
}

func referenceCalibration() calibration {
	return parseCalibration(referenceTrimBytes())
}

func TestParseCalibration(t *testing.T) {
	cali := referenceCalibration()
	got := []float64{
		cali.t1, cali.t2, cali.t3,
		cali.p1, cali.p2, cali.p3, cali.p4, cali.p5, cali.p6, cali.p7, cali.p8, cali.p9,
	}
	for i, word := range referenceTrim {
		if got[i] != float64(word) {
			t.Errorf("word %d: got %v, want %v", i, got[i], word)
		}
	}
}

func TestParseCalibrationSignedness(t *testing.T) {
	// 0xFFFF must decode as 65535 for the unsigned words (T1, P1) and as -1 for all
	// the signed ones.
	buffer := make([]byte, 24)
	for i := range buffer {
		buffer[i] = 0xFF
	}
	cali := parseCalibration(buffer)
	if cali.t1 != 65535 || cali.p1 != 65535 {
		t.Errorf("unsigned words: got t1=%v p1=%v, want 65535", cali.t1, cali.p1)
	}
	for name, value := range map[string]float64{
		"t2": cali.t2, "t3": cali.t3, "p2": cali.p2, "p3": cali.p3, "p4": cali.p4,
		"p5": cali.p5, "p6": cali.p6, "p7": cali.p7, "p8": cali.p8, "p9": cali.p9,
	} {
		if value != -1 {
			t.Errorf("signed word %s: got %v, want -1", name, value)
		}
	}
}

func TestCompensateTemperatureReference(t *testing.T) {
	cali := referenceCalibration()
	temperature, tFine := cali.compensateTemperature(519888)
	if math.Abs(temperature-25.08) > 0.01 {
		t.Errorf("temperature: got %v, want 25.08 +- 0.01", temperature)
	}
	if tFine != int32(temperature*5120.0) {
		t.Errorf("tFine %d does not match temperature %v", tFine, temperature)
	}
}

func TestCompensatePressureReference(t *testing.T) {
	cali := referenceCalibration()
	_, tFine := cali.compensateTemperature(519888)
	pressure, err := cali.compensatePressure(415148, tFine)
	if err != nil {
		t.Fatalf("compensatePressure: %v", err)
	}
	// Bosch's double precision reference yields 100653.27 Pa.
	if math.Abs(pressure-1006.5327) > 0.01 {
		t.Errorf("pressure: got %v hPa, want 1006.5327 +- 0.01", pressure)
	}
}

func TestCompensatePressureDivisionHazard(t *testing.T) {
	cali := calibration{} // all-zero trim, as from a corrupt calibration read
	reference := referenceCalibration()
	_, tFine := reference.compensateTemperature(519888)
	if _, err := cali.compensatePressure(415148, tFine); err != ErrDivisionHazard {
		t.Errorf("got %v, want ErrDivisionHazard", err)
	}
}

func TestAltitudeRoundTrip(t *testing.T) {
	// The exponents 0.1903 and 5.255 are the rounded datasheet constants, not exact
	// inverses, so the round trip carries a small residual (about 0.2m at 8848m).
	const pressure = 1006.5327
	for _, altitude := range []float64{-100, 0, 843, 4810, 8848} {
		seaLevel := CalcSeaLevel(pressure, altitude)
		if got := CalcAltitude(pressure, seaLevel); math.Abs(got-altitude) > 0.5 {
			t.Errorf("altitude %v: round trip gave %v", altitude, got)
		}
	}
	if got := CalcAltitude(QNH, QNH); got != 0 {
		t.Errorf("altitude at reference pressure: got %v, want 0", got)
	}
}
