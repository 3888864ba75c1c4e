package bridge

import (
	"fmt"
	"sync"
)

// HAL is the transport contract of an interface.
type HAL interface {
	// Init attaches a bus handle to iface, or takes another reference on the
	// handle already attached.
	Init(iface *Iface, cfg *IfaceConfig) error
	// PostInit runs after a successful Init.
	PostInit(iface *Iface) error
	// Send sends data to the device at address.
	Send(iface *Iface, address uint8, data []byte) error
	// Receive reads at most len(rx) bytes into rx and returns the count.
	Receive(iface *Iface, address uint8, rx []byte) (int, error)
	// Control performs a HAL specific control operation.
	Control(iface *Iface, option ControlOption, param []byte) error
	// Release drops one reference to h and frees it once none are left.
	Release(h *Host) error
}

// Host is the reference counted handle of a shared bus.
type Host struct {
	mu    sync.Mutex
	path  string
	refs  int
	freed bool
}

// Path returns the bus device path, e.g. /dev/i2c-1.
func (h *Host) Path() string {
	return h.path
}

// Refs returns the number of references held on the handle.
func (h *Host) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}

// Released reports whether the handle has been freed.
func (h *Host) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.freed
}

// acquire takes another reference unless the handle was freed.
func (h *Host) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.freed {
		return false
	}
	h.refs++
	return true
}

// I2C is the callback bridged I²C HAL.
//
// It never touches a bus: the bus handle only records that Init was called
// and all traffic is delegated to the callback registered on the Bridge.
type I2C struct {
	b *Bridge
}

var _ HAL = (*I2C)(nil)

// NewI2C returns a HAL delivering traffic through b.
func NewI2C(b *Bridge) *I2C {
	return &I2C{b}
}

// Bridge returns the bridge traffic is delivered through.
func (h *I2C) Bridge() *Bridge {
	return h.b
}

func (h *I2C) Init(iface *Iface, cfg *IfaceConfig) error {
	if iface == nil || cfg == nil {
		return StatusBadParam
	}

	if iface.host != nil && iface.host.acquire() {
		// assume the bus had already been initialized
		return nil
	}

	// buses are shared, this is the first instance or the previous handle
	// was freed
	iface.host = &Host{
		path: fmt.Sprintf("/dev/i2c-%d", cfg.I2C.Bus),
		refs: 1,
	}
	return nil
}

// attached reports whether iface holds a live bus handle.
func attached(iface *Iface) bool {
	return iface != nil && iface.host != nil && !iface.host.Released()
}

func (h *I2C) PostInit(iface *Iface) error {
	return nil
}

func (h *I2C) Send(iface *Iface, address uint8, data []byte) error {
	if !attached(iface) {
		return StatusNotInitialized
	}
	_, err := h.b.roundTrip(OpSend, data, len(data))
	return err
}

func (h *I2C) Receive(iface *Iface, address uint8, rx []byte) (int, error) {
	if !attached(iface) {
		return 0, StatusNotInitialized
	}
	rec, err := h.b.roundTrip(OpRecv, nil, len(rx))
	if err != nil {
		return 0, err
	}

	// responses are prefixed with their own length
	n := int(rec.LenOut)
	switch {
	case n < 1 || n >= BufferSize:
		h.b.log.Printf("bridge: recv: invalid length %d", n)
		return 0, StatusCommFail
	case n > len(rx):
		h.b.log.Printf("bridge: recv: length %d exceeds %d", n, len(rx))
		return 0, StatusCommFail
	case int(rec.Buf[0]) != n:
		h.b.log.Printf("bridge: recv: length %d does not match count byte %d", n, rec.Buf[0])
		return 0, StatusCommFail
	}
	return copy(rx, rec.Buf[:n]), nil
}

// Control is not supported by this HAL.
func (h *I2C) Control(iface *Iface, option ControlOption, param []byte) error {
	if iface != nil && iface.cfg != nil {
		return StatusUnimplemented
	}
	return StatusBadParam
}

func (h *I2C) Release(host *Host) error {
	if host == nil {
		return nil
	}

	host.mu.Lock()
	defer host.mu.Unlock()
	if host.freed {
		h.b.log.Printf("bridge: release: %s already released", host.path)
		return nil
	}
	// protect against an unbracketed release
	host.refs--
	if host.refs <= 0 {
		host.freed = true
	}
	return nil
}
