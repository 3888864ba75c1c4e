package atca

import (
	"errors"
	"time"

	"github.com/northvolt/go-atecc-bridge/bridge"
)

// Command opcodes
const (
	opInfo   = 0x30
	opRandom = 0x1b
)

type infoMode uint8

const (
	infoModeRevision infoMode = 0x0
)

func newInfoCommand(mode infoMode) (*packet, error) {
	return newPacket(opInfo, uint8(mode), 0, nil)
}

type randomMode uint8

const (
	randomModeUpdateSeed randomMode = 0x0
)

func newRandomCommand(mode randomMode) (*packet, error) {
	return newPacket(opRandom, uint8(mode), 0x0, nil)
}

// executionTimes holds the worst case execution times of the ATECC608
// commands issued by this package.
var executionTimes = map[uint8]time.Duration{
	opInfo:   5 * time.Millisecond,
	opRandom: 23 * time.Millisecond,
}

func getExecutionTime(dt bridge.DeviceType, opcode uint8) (time.Duration, error) {
	if dt != bridge.DeviceATECC608 {
		return 0, errors.New("atecc: unknown execution time for device")
	}
	if t, ok := executionTimes[opcode]; !ok {
		return 0, errors.New("atecc: unknown execution time for op")
	} else {
		return t, nil
	}
}

// DeviceTypeFromInfo returns the device type based on the info byte array.
func DeviceTypeFromInfo(revision []byte) (bridge.DeviceType, error) {
	if len(revision) < 3 {
		return 0, errors.New("atecc: device type revision too small")
	}
	switch revision[2] {
	case 0x60:
		return bridge.DeviceATECC608, nil
	default:
		return 0, errors.New("atecc: unknown device revision")
	}
}
