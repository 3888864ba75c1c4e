package bridge

import (
	"errors"
	"fmt"
)

// Status is a cryptoauthlib status code.
//
// Status implements error so it can be returned from HAL operations and
// compared with errors.Is. The numeric values match ATCA_STATUS, which lets a
// callback pass codes through unchanged.
type Status uint8

// Status codes used by the HAL.
const (
	StatusSuccess        Status = 0x00
	StatusGenFail        Status = 0xe1 // general failure, the initial status of every path
	StatusBadParam       Status = 0xe2
	StatusCommFail       Status = 0xf0
	StatusUnimplemented  Status = 0xf5
	StatusAllocFailure   Status = 0xfb // also returned for a duplicate callback registration
	StatusNotInitialized Status = 0xfd
)

func (s Status) Error() string {
	switch s {
	case StatusSuccess:
		return "atecc: success"
	case StatusGenFail:
		return "atecc: general failure"
	case StatusBadParam:
		return "atecc: bad parameter"
	case StatusCommFail:
		return "atecc: communication failure"
	case StatusUnimplemented:
		return "atecc: unimplemented"
	case StatusAllocFailure:
		return "atecc: allocation failure"
	case StatusNotInitialized:
		return "atecc: not initialized"
	default:
		return fmt.Sprintf("atecc: status 0x%02x", uint8(s))
	}
}

// Err returns nil for StatusSuccess and s otherwise.
func (s Status) Err() error {
	if s == StatusSuccess {
		return nil
	}
	return s
}

// StatusOf returns the status carried by err.
//
// A nil error is StatusSuccess. Errors that do not wrap a Status map to
// fallback.
func StatusOf(err error, fallback Status) Status {
	if err == nil {
		return StatusSuccess
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return fallback
}
