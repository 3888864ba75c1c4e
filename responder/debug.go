package responder

import (
	"github.com/northvolt/go-atecc-bridge/bridge"
)

type phyDebug struct {
	id   string
	l    bridge.Logger
	next Phy
}

func (h *phyDebug) Read(p []byte) (int, error) {
	h.l.Printf("%5s >>  recv(%d)", h.id, cap(p))
	n, err := h.next.Read(p)
	h.l.Printf("%5s <<  recv %d(%d) %+v", h.id, n, len(p), err)
	if n > 0 {
		h.l.Printf("%s", bridge.HexDump(p[:n]))
	}
	return n, err
}

func (h *phyDebug) Write(p []byte) (int, error) {
	h.l.Printf("%5s >>  send", h.id)
	if len(p) > 0 {
		h.l.Printf("%s", bridge.HexDump(p))
	}
	n, err := h.next.Write(p)
	h.l.Printf("%5s <<  send %d %+v", h.id, n, err)
	return n, err
}
