package responder

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/northvolt/go-atecc-bridge/bridge"
	"github.com/northvolt/go-atecc-bridge/internal/atca"
)

// Phy is a packet oriented device, e.g. a USB HID device.
type Phy interface {
	// Read reads one packet into p.
	Read(p []byte) (int, error)
	// Write writes one packet.
	Write(p []byte) (int, error)
}

type KitType int

const (
	KitTypeAuto KitType = iota
	KitTypeI2C
	KitTypeSWI
	KitTypeSPI
)

// KitConfig configures the kit protocol.
type KitConfig struct {
	// DeviceType is the type of secure element to talk to.
	DeviceType bridge.DeviceType

	// DevIndex is the enumeration index to use unless DevIdentity is set.
	DevIndex int

	// KitType indicates the underlying interface to use.
	//
	// This is known as dev_interface in cryptoauthlib.
	KitType KitType

	// DevIdentity is the identity of the device.
	//
	// For I²C, this is the I²C target address. For the SWI interface, this is
	// the bus number.
	DevIdentity uint8

	// PacketSize is the size of a packet on the phy.
	PacketSize int
}

// Kit delivers traffic using the ASCII protocol of the Microchip Trust
// Platform and CryptoAuth dev kits.
type Kit struct {
	phy   Phy
	buf   []byte
	cfg   KitConfig
	awake bool
}

var (
	errNoDevice   = errors.New("atecc: no device found")
	errRecvBuffer = errors.New("atecc: recv buffer too small")
)

// wakeResponse is count, status 0x11 and crc of a successful wake.
var wakeResponse = []byte{0x04, 0x11, 0x33, 0x43}

func checkWakeUp(response []byte) error {
	if !bytes.Equal(response, wakeResponse) {
		return errors.New("atecc: unexpected wake response")
	}
	return nil
}

// NewKit discovers the configured device behind phy and selects it.
func NewKit(ctx context.Context, phy Phy, cfg KitConfig, l bridge.Logger) (*Kit, error) {
	if cfg.PacketSize <= 0 {
		return nil, errors.New("atecc: invalid kit packet size")
	}
	if l != nil {
		phy = &phyDebug{"kit", l, phy}
	}
	kit := &Kit{phy: phy, buf: make([]byte, cfg.PacketSize), cfg: cfg}
	return kit, kit.init(ctx)
}

func kitIdFromDeviceType(deviceType bridge.DeviceType) string {
	switch deviceType {
	case bridge.DeviceATECC608:
		return "ECC608"
	default:
		return "unknown"
	}
}

func deviceTypeFromKitId(id string) (bridge.DeviceType, error) {
	if strings.HasPrefix(id, "ECC6") {
		return bridge.DeviceATECC608, nil
	} else {
		return bridge.DeviceType(0), errors.New("atecc: unknown device type")
	}
}

func kitTypeFromKitIface(iface string) (KitType, error) {
	switch iface {
	case "TWI":
		return KitTypeI2C, nil
	case "SWI":
		return KitTypeSWI, nil
	case "SPI":
		return KitTypeSPI, nil
	default:
		return KitType(0), errors.New("atecc: unknown kit type")
	}
}

func kitIface(kitType KitType) string {
	switch kitType {
	case KitTypeI2C:
		return "i2c"
	case KitTypeSWI:
		return "swi"
	case KitTypeSPI:
		return "spi"
	default:
		return "unknown"
	}
}

const (
	kitMaxScanCount = 8

	kitMsgSize    = 32
	kitRxWrapSize = kitMsgSize + 6

	// wordAddressCommand prefixes commands on the I²C bus. The kit adds it
	// itself.
	wordAddressCommand = 0x03
)

func (k *Kit) init(ctx context.Context) error {
	// Iterate to find the target device
	for i := 0; i < kitMaxScanCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		dev, err := k.getKitDeviceByIndex(i)
		if errors.Is(err, errNoDevice) {
			continue
		} else if err != nil {
			return err
		}

		// Check if the returned device is a device we want to pick
		if k.cfg.DevIndex != 0 && k.cfg.DevIndex != i {
			continue
		}
		if k.cfg.DevIdentity != 0 && k.cfg.DevIdentity != dev.Address {
			continue
		}
		if k.cfg.DeviceType != dev.DeviceType {
			continue
		}
		if k.cfg.KitType != KitTypeAuto && k.cfg.KitType != dev.KitType {
			continue
		}

		if k.cfg.KitType != KitTypeAuto {
			if err := k.selectInterface(k.cfg.KitType); err != nil {
				return err
			}
		}

		return k.selectDevice(dev.Address)
	}

	return errors.New("atecc: failed to discover device")
}

func (k *Kit) command(format string, args ...interface{}) []byte {
	kitId := kitIdFromDeviceType(k.cfg.DeviceType)
	return []byte(fmt.Sprintf("%c:"+format+"\n", append([]interface{}{kitId[0]}, args...)...))
}

// Wake wakes the device up.
func (k *Kit) Wake() error {
	var data [10]byte
	n, err := k.executeResponse(k.command("w()"), data[:])
	if err != nil {
		return err
	}
	if err := checkWakeUp(data[:n]); err != nil {
		return err
	}
	k.awake = true
	return nil
}

// Idle puts the device into idle state.
func (k *Kit) Idle() error {
	k.awake = false
	return k.execute(k.command("i()"))
}

// Send transmits a command, waking the device first if needed.
func (k *Kit) Send(data []byte) error {
	if len(data) > 0 && data[0] == wordAddressCommand {
		data = data[1:]
	}
	if !k.awake {
		if err := k.Wake(); err != nil {
			return err
		}
	}
	payload := strings.ToUpper(hex.EncodeToString(data))
	_, err := k.phySend(k.command("t(%s)", payload))
	return err
}

// Recv reads the response to the last command and idles the device.
func (k *Kit) Recv(dst []byte) (int, error) {
	msg := hex.EncodedLen(len(dst)) + kitRxWrapSize
	pkt := k.cfg.PacketSize
	buf := make([]byte, (msg/pkt+1)*pkt)

	n, err := k.phyRecv(buf)
	if err != nil {
		return 0, err
	}

	n, err = kitParseRsp(buf[:n], dst)
	if err != nil {
		return 0, err
	}
	return n, k.Idle()
}

func (k *Kit) execute(command []byte) error {
	var data [10]byte
	_, err := k.executeResponse(command, data[:])
	return err
}

func (k *Kit) executeResponse(command []byte, data []byte) (int, error) {
	if _, err := k.phySend(command); err != nil {
		return 0, err
	}

	n, err := k.phyRecv(k.buf)
	if err != nil {
		return 0, err
	}
	return kitParseRsp(k.buf[:n], data)
}

func (k *Kit) getKitDeviceByIndex(index int) (kitDevice, error) {
	command := fmt.Sprintf("board:device(%02X)\n", index)
	if _, err := k.phySend([]byte(command)); err != nil {
		return kitDevice{}, err
	}

	if n, err := k.phyRecv(k.buf); err != nil {
		return kitDevice{}, err
	} else {
		return parseKitDevice(k.buf[:n])
	}
}

func (k *Kit) selectInterface(kitType KitType) error {
	return k.execute(k.command("physical:interface(%s)", kitIface(kitType)))
}

func (k *Kit) selectDevice(address uint8) error {
	return k.execute(k.command("physical:select(%02X)", address))
}

type kitDevice struct {
	DeviceType bridge.DeviceType
	KitType    KitType
	Address    uint8
}

func parseKitDevice(buf []byte) (kitDevice, error) {
	var (
		kitId    string
		kitIface string
		index    uint8
		address  uint8
	)
	if bytes.HasPrefix(buf, []byte("no_device")) {
		return kitDevice{}, errNoDevice
	}
	_, err := fmt.Sscanf(
		string(buf), "%s %s %02X(%02X)", &kitId, &kitIface, &index, &address,
	)
	if err != nil {
		return kitDevice{}, fmt.Errorf("atecc: invalid kit device: %w", err)
	}

	if dt, err := deviceTypeFromKitId(kitId); err != nil {
		return kitDevice{}, err
	} else if kt, err := kitTypeFromKitIface(kitIface); err != nil {
		return kitDevice{}, err
	} else {
		return kitDevice{dt, kt, address}, nil
	}
}

// phySend writes txData in zero padded packets.
func (k *Kit) phySend(txData []byte) (int, error) {
	left := len(txData)
	sent := 0
	for left > 0 {
		n := copy(k.buf, txData[sent:])
		chunk := n
		for ; n < len(k.buf); n++ {
			k.buf[n] = 0
		}

		if _, err := k.phy.Write(k.buf); err != nil {
			return sent, err
		}

		left -= chunk
		sent += chunk
	}

	return sent, nil
}

// phyRecv reads packets into data until the end of a reply.
func (k *Kit) phyRecv(data []byte) (int, error) {
	left := len(data)
	read := 0
	for left > 0 {
		n, err := k.phy.Read(k.buf)
		if err != nil {
			return read, err
		}

		// end early on response end
		if index := bytes.IndexByte(k.buf[:n], '\n'); index != -1 {
			if read+index > len(data) {
				return read, errRecvBuffer
			}
			copy(data[read:], k.buf[:index])
			read += index
			break
		}

		if read+n > len(data) {
			return read, errRecvBuffer
		}
		copy(data[read:], k.buf[:n])
		read += n
		left -= n
	}

	return read, nil
}

func kitParseRsp(reply []byte, dst []byte) (int, error) {
	if len(reply) < 3 {
		return 0, errors.New("atecc: short kit reply")
	}

	var status [1]byte
	n, err := hex.Decode(status[:], reply[0:2])
	if err != nil {
		return 0, err
	} else if err := atca.ValidateStatus(status[:n]); err != nil {
		return 0, err
	}

	index := bytes.IndexByte(reply[3:], ')')
	if index == -1 {
		return 0, errors.New("atecc: failed to find end of frame")
	}
	size := hex.DecodedLen(index)
	if size > len(dst) {
		return 0, errRecvBuffer
	}

	body := reply[3 : 3+index]
	return hex.Decode(dst, body)
}
