package atca

import (
	"errors"
)

// Device status errors. See datasheet for specification.
var (
	ErrCheckMacVerifyFailed = errors.New("atecc: check mac verify failed")

	// ErrParse is used when protocol was not understood.
	//
	// Received length, op-code or any parameter was illegal.
	ErrParse = errors.New("atecc: protocol error")

	ErrProcessFailure = errors.New("atecc: ecc failed to process")
	ErrSelfTestFailed = errors.New("atecc: self-test failed")
	ErrHealthTest     = errors.New("atecc: health test failed")
	ErrExecution      = errors.New("atecc: execution error")

	// ErrWakeSuccessful is used when device is successfully woken up.
	//
	// This is an error for any command except for wake.
	ErrWakeSuccessful = errors.New("atecc: wake successful")

	// ErrCRC is used for checksum missmatch or other communication error.
	//
	// This is a transient error and the command should be re-transmitted.
	ErrCRC = errors.New("atecc: crc or communication error")

	ErrUnknown = errors.New("atecc: unknown error")
)

// ValidateStatus validates a status code returned by the device.
//
// The status code is the first byte of response and indicates how the
// command was processed by the device.
func ValidateStatus(response []byte) error {
	if len(response) == 0 {
		return errors.New("atecc: empty response")
	}

	switch response[0] {
	case 0x00:
		return nil
	case 0x01:
		return ErrCheckMacVerifyFailed
	case 0x03:
		return ErrParse
	case 0x05:
		return ErrProcessFailure
	case 0x07:
		return ErrSelfTestFailed
	case 0x08:
		return ErrHealthTest
	case 0x0f:
		return ErrExecution
	case 0x11:
		return ErrWakeSuccessful
	case 0xff:
		return ErrCRC
	default:
		return ErrUnknown
	}
}
