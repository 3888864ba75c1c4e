package responder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/karalabe/usb"
	"github.com/northvolt/go-atecc-bridge/bridge"
)

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled, the
// HID interface will not be available.
var ErrUSBNotSupported = errors.New("atecc: usb support is missing")

// HIDConfig configures a kit reached over USB HID.
type HIDConfig struct {
	Kit KitConfig

	// VendorID of the kit.
	VendorID uint16

	// ProductID of the kit.
	ProductID uint16
}

const (
	vendorAtmel = 0x03eb

	productTrustPlatform = 0x2312
)

// ConfigKitHIDDefault returns a configuration for the Trust Platform kit.
func ConfigKitHIDDefault() HIDConfig {
	return HIDConfig{
		Kit: KitConfig{
			DeviceType: bridge.DeviceATECC608,
			KitType:    KitTypeAuto,
			PacketSize: 64,
		},
		VendorID:  vendorAtmel,
		ProductID: productTrustPlatform,
	}
}

// OpenHID opens the first HID kit with a matching device.
//
// The returned closer closes the USB device.
func OpenHID(ctx context.Context, cfg HIDConfig, l bridge.Logger) (*Kit, io.Closer, error) {
	if !usb.Supported() {
		return nil, nil, ErrUSBNotSupported
	}

	deviceInfos, err := usb.EnumerateHid(cfg.VendorID, cfg.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("atecc: failed to get hid devices: %w", err)
	}
	for _, di := range deviceInfos {
		hid, e := di.Open()
		if e != nil {
			err = e
			continue
		}

		kit, e := NewKit(ctx, hid, cfg.Kit, l)
		if e != nil {
			_ = hid.Close()
			err = e
			continue
		}
		return kit, hid, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("atecc: %w", err)
	} else {
		return nil, nil, errors.New("atecc: no hid devices found")
	}
}
