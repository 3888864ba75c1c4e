package bridge

import (
	"time"
)

// DeviceType represents a physical device type.
type DeviceType int

const (
	DeviceATECC608 DeviceType = iota
)

func (dt DeviceType) String() string {
	switch dt {
	case DeviceATECC608:
		return "ATECC608"
	default:
		return "unknown"
	}
}

// IfaceConfig is the configuration object for a device.
//
// Logical device configurations describe the device type and logical
// interface.
type IfaceConfig struct {
	// DeviceType affects how communication with the device is done.
	DeviceType DeviceType
	// I2C contains I²C specific configuration.
	I2C I2CConfig
	// WakeDelay defines the time to wait for the device before waking up.
	//
	// This represents the tWHI + tWLO and is configured based on device type.
	WakeDelay time.Duration
	// RxRetries is the number of retries to attempt when receiving data.
	RxRetries int
	// Debug is used for debug output.
	Debug Logger
}

type I2CConfig struct {
	// Bus is the 0-based logical bus number.
	Bus int
	// Address is the 8-bit device address, the 7-bit address shifted left.
	Address uint8
	// Baud is the bus speed in Hz.
	Baud uint32
}

// ConfigATECCX08A_I2CDefault returns a default config for an ECCx08A device.
func ConfigATECCX08A_I2CDefault() IfaceConfig {
	return IfaceConfig{
		DeviceType: DeviceATECC608,
		WakeDelay:  1500 * time.Microsecond,
		RxRetries:  20,
		I2C: I2CConfig{
			Address: 0xc0,
			Baud:    400000,
		},
	}
}

// ControlOption selects a HAL control operation.
type ControlOption uint8

// Iface is a logical device interface.
//
// It binds a configuration to a HAL and carries the bus handle the HAL
// attaches on Init.
type Iface struct {
	cfg  *IfaceConfig
	hal  HAL
	host *Host
}

// NewIface returns an interface using hal for communication.
//
// If cfg.Debug is set, all HAL calls are logged.
func NewIface(cfg *IfaceConfig, hal HAL) *Iface {
	if cfg != nil && cfg.Debug != nil {
		hal = &halDebug{"i2c", cfg.Debug, hal}
	}
	return &Iface{cfg: cfg, hal: hal}
}

// Config returns the interface configuration.
func (i *Iface) Config() *IfaceConfig {
	return i.cfg
}

// Host returns the bus handle attached by the HAL, or nil.
func (i *Iface) Host() *Host {
	return i.host
}

// Init initializes the HAL for the interface.
func (i *Iface) Init() error {
	if err := i.hal.Init(i, i.cfg); err != nil {
		return err
	}
	return i.hal.PostInit(i)
}

// Send sends data to the device at address.
func (i *Iface) Send(address uint8, data []byte) error {
	return i.hal.Send(i, address, data)
}

// Receive receives at most len(rx) bytes from the device at address.
func (i *Iface) Receive(address uint8, rx []byte) (int, error) {
	return i.hal.Receive(i, address, rx)
}

// Control performs a HAL specific control operation.
func (i *Iface) Control(option ControlOption, param []byte) error {
	return i.hal.Control(i, option, param)
}

// Release drops one reference to the bus handle and detaches it once the
// handle is freed.
func (i *Iface) Release() error {
	if i.host == nil {
		return nil
	}
	err := i.hal.Release(i.host)
	if i.host.Released() {
		i.host = nil
	}
	return err
}
