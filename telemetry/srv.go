package telemetry

import (
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"mtmatrix/config"
	db "mtmatrix/debug"
)

//
// Srv is the privileged side of the telemetry channel: a single
// bounded slot shared by every caller for the subsystem's lifetime.
// Write accepts an identifier and overwrites the slot with the
// formatted accounting record; the following Read serves it. The
// mutex below only keeps individual calls sane; pairing a write with
// its read is the caller's job (see Clnt), because the slot has no
// per-request identity.
//

type Srv struct {
	mu    sync.Mutex
	table Table
	buf   []byte
	size  int
	off   int
	l     net.Listener
	path  string
}

func NewSrv(table Table) *Srv {
	return &Srv{table: table, buf: make([]byte, config.Conf.Channel.CAPACITY)}
}

// Write implements the channel's request half. Oversized requests are
// truncated, not rejected. A request that doesn't parse as a decimal
// id, or that names a pid with no table entry, leaves the raw bytes
// in the slot; the caller's read then echoes its own request back.
func (srv *Srv) Write(p []byte) (int, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	n := len(p)
	if n > len(srv.buf) {
		n = len(srv.buf)
	}
	copy(srv.buf, p[:n])
	if n < len(srv.buf) {
		srv.buf[n] = 0
	}
	srv.size = n
	srv.off = 0

	s := strings.TrimSpace(string(srv.buf[:n]))
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		db.DPrintf(db.TELEM, "Write: bad id %q", s)
		return n, nil
	}
	if rec, ok := srv.table.Lookup(int32(pid)); ok {
		m := copy(srv.buf, rec.Format())
		srv.size = m
	}
	return n, nil
}

// Read implements the channel's response half: io.EOF once the
// recorded content has been consumed.
func (srv *Srv) Read(p []byte) (int, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.off >= srv.size {
		return 0, io.EOF
	}
	n := copy(p, srv.buf[srv.off:srv.size])
	srv.off += n
	return n, nil
}
