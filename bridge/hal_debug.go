package bridge

type halDebug struct {
	id   string
	l    Logger
	next HAL
}

func (h *halDebug) Init(iface *Iface, cfg *IfaceConfig) error {
	h.l.Printf("%5s >>  init", h.id)
	err := h.next.Init(iface, cfg)
	if iface != nil && iface.host != nil {
		h.l.Printf("%5s <<  init %s refs %d %+v", h.id, iface.host.path, iface.host.Refs(), err)
	} else {
		h.l.Printf("%5s <<  init %+v", h.id, err)
	}
	return err
}

func (h *halDebug) PostInit(iface *Iface) error {
	return h.next.PostInit(iface)
}

func (h *halDebug) Send(iface *Iface, address uint8, data []byte) error {
	h.l.Printf("%5s >>  send 0x%02x", h.id, address)
	if len(data) > 0 {
		h.l.Printf("%s", HexDump(data))
	}
	err := h.next.Send(iface, address, data)
	h.l.Printf("%5s <<  send %d %+v", h.id, len(data), err)
	return err
}

func (h *halDebug) Receive(iface *Iface, address uint8, rx []byte) (int, error) {
	h.l.Printf("%5s >>  recv 0x%02x (%d)", h.id, address, len(rx))
	n, err := h.next.Receive(iface, address, rx)
	h.l.Printf("%5s <<  recv %d(%d) %+v", h.id, n, len(rx), err)
	if n > 0 {
		h.l.Printf("%s", HexDump(rx[:n]))
	}
	return n, err
}

func (h *halDebug) Control(iface *Iface, option ControlOption, param []byte) error {
	err := h.next.Control(iface, option, param)
	h.l.Printf("%5s <<  control 0x%02x %+v", h.id, uint8(option), err)
	return err
}

func (h *halDebug) Release(host *Host) error {
	err := h.next.Release(host)
	if host != nil {
		h.l.Printf("%5s <<  release %s refs %d %+v", h.id, host.path, host.Refs(), err)
	}
	return err
}
