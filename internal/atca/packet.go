// Package atca frames ATECC commands for transfer over a bridge.Iface.
//
// It covers the handful of commands needed to exercise a transport end to
// end. The device command set itself is out of scope.
package atca

import (
	"encoding/binary"
	"errors"
)

const (
	// cmdSizeMin is the minimum size of a command.
	//
	// It includes count, opcode, param1, param2 and crc.
	cmdSizeMin uint8 = 7
	cmdSizeMax       = 4*36 + 7

	// wordAddressCommand prefixes a command written to the device.
	wordAddressCommand = 0x03
)

// packet represents an ATCA packet
type packet struct {
	opcode uint8
	param1 uint8
	param2 uint16
	data   []byte
}

func newPacket(opcode uint8, param1 uint8, param2 uint16, data []byte) (*packet, error) {
	if len(data) > cmdSizeMax-int(cmdSizeMin) {
		return nil, errors.New("atecc: data size exceeds maximum size")
	}
	return &packet{
		opcode: opcode,
		param1: param1,
		param2: param2,
		data:   data,
	}, nil
}

func (p *packet) Size() uint8 {
	return cmdSizeMin + uint8(len(p.data))
}

// encode returns the packet as written to the device, including the word
// address.
func (p *packet) encode() []byte {
	size := p.Size()
	b := make([]byte, 0, 1+int(size))
	b = append(b, wordAddressCommand)
	b = append(b, size)
	b = append(b, p.opcode)
	b = append(b, p.param1)
	b = binary.LittleEndian.AppendUint16(b, p.param2)
	b = append(b, p.data...)
	return binary.LittleEndian.AppendUint16(b, crc16(b[1:]))
}
