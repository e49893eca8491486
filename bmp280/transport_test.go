package bmp280

import (
	"bytes"
	"testing"
)

type fakeSPIBus struct {
	frames   [][]byte
	response []byte
}

func (f *fakeSPIBus) TransferAndReceiveData(dataBuffer []uint8) error {
	f.frames = append(f.frames, append([]byte(nil), dataBuffer...))
	for i := 1; i < len(dataBuffer) && i-1 < len(f.response); i++ {
		dataBuffer[i] = f.response[i-1]
	}
	return nil
}

func TestSPIReadFraming(t *testing.T) {
	bus := &fakeSPIBus{response: []byte{0x11, 0x22, 0x33}}
	transport := &SPITransport{bus: bus}

	data, err := transport.ReadRegisters(RegPressData, 3)
	if err != nil {
		t.Fatalf("ReadRegisters: %v", err)
	}
	if !bytes.Equal(data, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("read data: got %v", data)
	}
	if len(bus.frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(bus.frames))
	}
	// Read frames address the register with bit 7 set and clock out length bytes.
	if bus.frames[0][0] != RegPressData|0x80 {
		t.Errorf("read address byte: got 0x%02X, want 0x%02X", bus.frames[0][0], RegPressData|0x80)
	}
	if len(bus.frames[0]) != 4 {
		t.Errorf("read frame length: got %d, want 4", len(bus.frames[0]))
	}
}

type i2cOp struct {
	addr     byte
	register byte
	write    []byte
}

type fakeI2CBus struct {
	ops     []i2cOp
	regData map[byte][]byte
}

func (f *fakeI2CBus) ReadFromReg(addr, reg byte, value []byte) error {
	f.ops = append(f.ops, i2cOp{addr: addr, register: reg})
	copy(value, f.regData[reg])
	return nil
}

func (f *fakeI2CBus) WriteToReg(addr, reg byte, value []byte) error {
	f.ops = append(f.ops, i2cOp{addr: addr, register: reg, write: append([]byte(nil), value...)})
	return nil
}

func TestI2CReadFraming(t *testing.T) {
	bus := &fakeI2CBus{regData: map[byte][]byte{RegTempData: {0x7E, 0xED, 0x00}}}
	transport := &I2CTransport{bus: bus, address: Address}

	data, err := transport.ReadRegisters(RegTempData, 3)
	if err != nil {
		t.Fatalf("ReadRegisters: %v", err)
	}
	if !bytes.Equal(data, []byte{0x7E, 0xED, 0x00}) {
		t.Errorf("read data: got %v", data)
	}
	// Addressed framing: the device address and register go out, the payload comes back.
	if len(bus.ops) != 1 || bus.ops[0].addr != Address || bus.ops[0].register != RegTempData {
		t.Errorf("bus traffic: got %+v", bus.ops)
	}
}

func TestI2CWriteFraming(t *testing.T) {
	bus := &fakeI2CBus{}
	transport := &I2CTransport{bus: bus, address: Address}

	if err := transport.WriteRegisterByte(RegCtrlMeas, 0x57); err != nil {
		t.Fatalf("WriteRegisterByte: %v", err)
	}
	if len(bus.ops) != 1 {
		t.Fatalf("got %d bus operations, want 1", len(bus.ops))
	}
	op := bus.ops[0]
	if op.addr != Address || op.register != RegCtrlMeas || !bytes.Equal(op.write, []byte{0x57}) {
		t.Errorf("write operation: got %+v", op)
	}
}

func TestSPIWriteFraming(t *testing.T) {
	bus := &fakeSPIBus{}
	transport := &SPITransport{bus: bus}

	if err := transport.WriteRegisterByte(RegCtrlMeas, 0x57); err != nil {
		t.Fatalf("WriteRegisterByte: %v", err)
	}
	// Write frames address the register with bit 7 cleared.
	if !bytes.Equal(bus.frames[0], []byte{RegCtrlMeas & 0x7F, 0x57}) {
		t.Errorf("write frame: got %v, want [0x%02X 0x57]", bus.frames[0], RegCtrlMeas&0x7F)
	}
}
