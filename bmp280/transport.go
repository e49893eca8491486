package bmp280

import (
	"sync"

	"github.com/kidoman/embd"
)

// Transport is the register-level connection to the sensor. Both operations block and
// hold the bus for the duration of one register access. Bus errors are returned as-is
// so the caller can tell bus problems from protocol problems.
type Transport interface {
	ReadRegisters(register byte, length int) ([]byte, error)
	WriteRegisterByte(register byte, value byte) error
}

// i2cConn is the subset of embd.I2CBus the transport needs.
type i2cConn interface {
	ReadFromReg(addr, reg byte, value []byte) error
	WriteToReg(addr, reg byte, value []byte) error
}

// I2CTransport talks to a BMP280 on an I2C bus. The framing is the register address
// byte followed by the payload.
type I2CTransport struct {
	mu      sync.Mutex
	bus     i2cConn
	address byte
}

// NewI2CTransport returns a transport for the sensor at the given 7-bit address,
// usually Address (0x77).
func NewI2CTransport(i2cbus *embd.I2CBus, address byte) *I2CTransport {
	return &I2CTransport{bus: *i2cbus, address: address}
}

func (t *I2CTransport) ReadRegisters(register byte, length int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := make([]byte, length)
	if err := t.bus.ReadFromReg(t.address, register, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (t *I2CTransport) WriteRegisterByte(register byte, value byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bus.WriteToReg(t.address, register, []byte{value})
}

// spiConn is the subset of embd.SPIBus the transport needs.
type spiConn interface {
	TransferAndReceiveData(dataBuffer []uint8) error
}

// SPITransport talks to a BMP280 over SPI. Read frames set bit 7 of the register
// address, write frames clear it.
type SPITransport struct {
	mu  sync.Mutex
	bus spiConn
}

// NewSPITransport returns a transport over an already opened SPI bus, e.g.
// embd.NewSPIBus(embd.SPIMode0, 0, bmp280.DefaultSPIClock, 8, 0).
func NewSPITransport(spibus embd.SPIBus) *SPITransport {
	return &SPITransport{bus: spibus}
}

func (t *SPITransport) ReadRegisters(register byte, length int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	frame := make([]byte, length+1)
	frame[0] = register | 0x80
	if err := t.bus.TransferAndReceiveData(frame); err != nil {
		return nil, err
	}
	return frame[1:], nil
}

func (t *SPITransport) WriteRegisterByte(register byte, value byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bus.TransferAndReceiveData([]byte{register & 0x7F, value})
}
