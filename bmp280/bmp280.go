package bmp280

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDivisionHazard means the pressure compensation divisor came out zero, which
	// only happens when the calibration read was corrupt. Treat the sensor as
	// unreliable and re-initialize it.
	ErrDivisionHazard = errors.New("bmp280: pressure compensation divisor is zero, calibration read may be corrupt")
	// ErrTemperatureOff / ErrPressureOff are returned when the channel's oversampling
	// is SamplingOff and no reading is available from it.
	ErrTemperatureOff = errors.New("bmp280: temperature oversampling is off, no reading available")
	ErrPressureOff    = errors.New("bmp280: pressure oversampling is off, no reading available")
)

// DeviceNotFoundError is returned by New when the chip id register does not answer
// with ChipID. Construction stops before any other register access.
type DeviceNotFoundError struct {
	ChipID byte // the byte actually read from RegChipID
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("bmp280: failed to find BMP280, chip id 0x%02X want 0x%02X", e.ChipID, ChipID)
}

// InvalidConfigurationError is returned by the setters when a value is outside the
// field's enumerated legal set. Neither the in-memory state nor the device register
// is changed.
type InvalidConfigurationError struct {
	Field string
	Value any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("bmp280: %v is not a valid %s", e.Value, e.Field)
}

// BMP280 drives a single sensor through a Transport. It assumes single-owner,
// single-goroutine access; the only shared resource is the bus, which the transport
// holds exclusively for each register operation.
//
// Conversion completion is detected by polling the status register with no bound on
// the number of polls, as the device gives no other signal. A hung bus therefore hangs
// the read; callers needing a bound should wrap reads with their own timeout.
type BMP280 struct {
	transport Transport
	cali      calibration

	mode      Mode
	samplingT Oversampling
	samplingP Oversampling
	filter    FilterCoefficient
	standby   StandbyTime

	seaLevel float64 // reference pressure for altitude, hPa
}

// New checks the chip id, soft resets the sensor, reads the factory calibration and
// applies the default configuration: temperature x2, pressure x16, filter off,
// standby 0.5ms, sleep mode. Readings then use single forced-mode conversions until
// the mode is changed.
func New(transport Transport) (*BMP280, error) {
	d := &BMP280{
		transport: transport,
		mode:      Sleep,
		samplingT: Sampling2X,
		samplingP: Sampling16X,
		filter:    Coeff0,
		standby:   Standby0_5ms,
		seaLevel:  QNH,
	}

	id, err := d.readRegisterByte(RegChipID)
	if err != nil {
		return nil, err
	}
	if id != ChipID {
		return nil, &DeviceNotFoundError{ChipID: id}
	}

	if err := d.reset(); err != nil {
		return nil, err
	}
	buffer, err := d.transport.ReadRegisters(RegCali, 24)
	if err != nil {
		return nil, err
	}
	d.cali = parseCalibration(buffer)

	if err := d.writeCtrlMeas(); err != nil {
		return nil, err
	}
	if err := d.writeConfig(); err != nil {
		return nil, err
	}
	return d, nil
}

// reset soft resets the sensor. The datasheet requires a 2ms startup wait, 4ms is
// used for margin.
func (d *BMP280) reset() error {
	if err := d.transport.WriteRegisterByte(RegSoftReset, SoftReset); err != nil {
		return err
	}
	time.Sleep(4 * time.Millisecond)
	return nil
}

func (d *BMP280) Mode() Mode                        { return d.mode }
func (d *BMP280) OverscanTemperature() Oversampling { return d.samplingT }
func (d *BMP280) OverscanPressure() Oversampling    { return d.samplingP }
func (d *BMP280) IIRFilter() FilterCoefficient      { return d.filter }
func (d *BMP280) StandbyPeriod() StandbyTime        { return d.standby }

// SeaLevelPressure returns the sea level reference pressure in hPa used to derive
// altitude.
func (d *BMP280) SeaLevelPressure() float64 { return d.seaLevel }

// SetSeaLevelPressure sets the sea level reference pressure in hPa.
func (d *BMP280) SetSeaLevelPressure(hPa float64) error {
	if hPa <= 0 {
		return &InvalidConfigurationError{Field: "sea level pressure", Value: hPa}
	}
	d.seaLevel = hPa
	return nil
}

// SetMode sets the power mode. Every setter rewrites its register so the device stays
// in sync with the in-memory state.
func (d *BMP280) SetMode(mode Mode) error {
	switch mode {
	case Sleep, Forced, Normal:
	default:
		return &InvalidConfigurationError{Field: "mode", Value: mode}
	}
	previous := d.mode
	d.mode = mode
	if err := d.writeCtrlMeas(); err != nil {
		d.mode = previous
		return err
	}
	return nil
}

// SetOverscanTemperature sets the temperature oversampling. SamplingOff turns the
// temperature channel off.
func (d *BMP280) SetOverscanTemperature(sampling Oversampling) error {
	if _, ok := samplingFactor[sampling]; !ok {
		return &InvalidConfigurationError{Field: "temperature oversampling", Value: sampling}
	}
	previous := d.samplingT
	d.samplingT = sampling
	if err := d.writeCtrlMeas(); err != nil {
		d.samplingT = previous
		return err
	}
	return nil
}

// SetOverscanPressure sets the pressure oversampling. SamplingOff turns the pressure
// channel off.
func (d *BMP280) SetOverscanPressure(sampling Oversampling) error {
	if _, ok := samplingFactor[sampling]; !ok {
		return &InvalidConfigurationError{Field: "pressure oversampling", Value: sampling}
	}
	previous := d.samplingP
	d.samplingP = sampling
	if err := d.writeCtrlMeas(); err != nil {
		d.samplingP = previous
		return err
	}
	return nil
}

// SetIIRFilter sets the IIR filter coefficient.
func (d *BMP280) SetIIRFilter(filter FilterCoefficient) error {
	switch filter {
	case Coeff0, Coeff2, Coeff4, Coeff8, Coeff16:
	default:
		return &InvalidConfigurationError{Field: "IIR filter", Value: filter}
	}
	previous := d.filter
	d.filter = filter
	if err := d.writeConfig(); err != nil {
		d.filter = previous
		return err
	}
	return nil
}

// SetStandbyPeriod sets the inactive period between conversions in normal mode.
func (d *BMP280) SetStandbyPeriod(standby StandbyTime) error {
	if standby > Standby20ms {
		return &InvalidConfigurationError{Field: "standby period", Value: standby}
	}
	if d.standby == standby {
		return nil
	}
	previous := d.standby
	d.standby = standby
	if err := d.writeConfig(); err != nil {
		d.standby = previous
		return err
	}
	return nil
}

// ctrlMeas composes the ctrl_meas register value from the current state.
func (d *BMP280) ctrlMeas() byte {
	return byte(d.samplingT)<<5 | byte(d.samplingP)<<2 | byte(d.mode)
}

// config composes the config register value from the current state. The standby bits
// only apply in normal mode and the filter bits are omitted when the filter is off.
func (d *BMP280) config() byte {
	var config byte
	if d.mode == Normal {
		config |= byte(d.standby) << 5
	}
	if d.filter != Coeff0 {
		config |= byte(d.filter) << 2
	}
	return config
}

func (d *BMP280) writeCtrlMeas() error {
	return d.transport.WriteRegisterByte(RegCtrlMeas, d.ctrlMeas())
}

// writeConfig writes the config register. The device silently ignores config writes
// while in normal mode, so the sensor is put to sleep around the write and normal
// mode restored afterwards.
func (d *BMP280) writeConfig() error {
	wasNormal := d.mode == Normal
	if wasNormal {
		if err := d.SetMode(Sleep); err != nil {
			return err
		}
	}
	if err := d.transport.WriteRegisterByte(RegConfig, d.config()); err != nil {
		return err
	}
	if wasNormal {
		return d.SetMode(Normal)
	}
	return nil
}

func (d *BMP280) readRegisterByte(register byte) (byte, error) {
	data, err := d.transport.ReadRegisters(register, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// measure triggers a single conversion when not in normal mode and waits for it to
// finish by polling the measuring bit of the status register.
func (d *BMP280) measure() error {
	if d.mode == Normal {
		return nil
	}
	if err := d.SetMode(Forced); err != nil {
		return err
	}
	for {
		status, err := d.readRegisterByte(RegStatus)
		if err != nil {
			return err
		}
		if status&statusMeasuring == 0 {
			return nil
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// readADC burst reads a 3 byte data register and drops the 4 unused low bits,
// yielding the 20-bit raw value.
func (d *BMP280) readADC(register byte) (uint32, error) {
	data, err := d.transport.ReadRegisters(register, 3)
	if err != nil {
		return 0, err
	}
	return uint32(data[0])<<12 | uint32(data[1])<<4 | uint32(data[2])>>4, nil
}

// readTemperature performs a measurement and returns the compensated temperature
// together with the t_fine term for the same conversion.
func (d *BMP280) readTemperature() (float64, int32, error) {
	if d.samplingT == SamplingOff {
		return 0, 0, ErrTemperatureOff
	}
	if err := d.measure(); err != nil {
		return 0, 0, err
	}
	raw, err := d.readADC(RegTempData)
	if err != nil {
		return 0, 0, err
	}
	temperature, tFine := d.cali.compensateTemperature(float64(raw))
	return temperature, tFine, nil
}

// Temperature returns the compensated temperature in degrees C.
func (d *BMP280) Temperature() (float64, error) {
	temperature, _, err := d.readTemperature()
	return temperature, err
}

// Pressure returns the compensated pressure in hPa. A forced-mode conversion yields
// both raw values together, so the temperature compensation always runs first to get
// a t_fine term from the same conversion.
func (d *BMP280) Pressure() (float64, error) {
	if d.samplingP == SamplingOff {
		return 0, ErrPressureOff
	}
	_, tFine, err := d.readTemperature()
	if err != nil {
		return 0, err
	}
	raw, err := d.readADC(RegPressData)
	if err != nil {
		return 0, err
	}
	return d.cali.compensatePressure(float64(raw), tFine)
}

// Altitude returns the altitude in m derived from the pressure and the sea level
// reference pressure.
func (d *BMP280) Altitude() (float64, error) {
	pressure, err := d.Pressure()
	if err != nil {
		return 0, err
	}
	return CalcAltitude(pressure, d.seaLevel), nil
}

// SetAltitude back-calibrates the sea level reference pressure so that the current
// pressure reading corresponds to the given known altitude in m.
func (d *BMP280) SetAltitude(altitude float64) error {
	pressure, err := d.Pressure()
	if err != nil {
		return err
	}
	d.seaLevel = CalcSeaLevel(pressure, altitude)
	return nil
}

// MeasurementTimeTypical returns the typical time in milliseconds to complete one
// measurement with the current oversampling settings. Advisory only, reads are gated
// on the status register instead.
func (d *BMP280) MeasurementTimeTypical() float64 {
	ms := 1.0
	if d.samplingT != SamplingOff {
		ms += 2 * samplingFactor[d.samplingT]
	}
	if d.samplingP != SamplingOff {
		ms += 2*samplingFactor[d.samplingP] + 0.5
	}
	return ms
}

// MeasurementTimeMax returns the maximum time in milliseconds to complete one
// measurement with the current oversampling settings.
func (d *BMP280) MeasurementTimeMax() float64 {
	ms := 1.25
	if d.samplingT != SamplingOff {
		ms += 2.3 * samplingFactor[d.samplingT]
	}
	if d.samplingP != SamplingOff {
		ms += 2.3*samplingFactor[d.samplingP] + 0.575
	}
	return ms
}
