package telemetry

import (
	"io"
	"net"
	"strconv"
	"sync"

	"mtmatrix/config"
	db "mtmatrix/debug"
)

//
// Clnt runs the caller protocol: write the unit's pid as decimal
// text, immediately read the answer from the same slot. The mutex is
// held across the whole write+read pair; without it, two callers'
// transactions interleave on the single slot and one reads the
// other's answer. Workers of a run share one Clnt.
//

type Clnt struct {
	mu  sync.Mutex
	ch  io.ReadWriter
	cl  io.Closer
	buf []byte
}

// NewClnt speaks directly to an in-process Srv (or anything with the
// same write-then-read contract).
func NewClnt(ch io.ReadWriter) *Clnt {
	return &Clnt{ch: ch, buf: make([]byte, config.Conf.Channel.CAPACITY)}
}

// DialClnt connects to the well-known socket endpoint.
func DialClnt(pn string) (*Clnt, error) {
	conn, err := net.Dial("unix", pn)
	if err != nil {
		return nil, err
	}
	clnt := NewClnt(conn)
	clnt.cl = conn
	return clnt, nil
}

// Query is one transaction. The returned string is whatever the slot
// held after the lookup: the formatted record on a hit, or the echo
// of the request on a miss (the channel cannot tell the caller
// which; see ParseRecord).
func (clnt *Clnt) Query(pid int) (string, error) {
	clnt.mu.Lock()
	defer clnt.mu.Unlock()

	req := strconv.Itoa(pid) + "\n"
	if _, err := io.WriteString(clnt.ch, req); err != nil {
		return "", err
	}
	n, err := clnt.ch.Read(clnt.buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	s := string(clnt.buf[:n])
	db.DPrintf(db.TELEM, "Query %d -> %q", pid, s)
	return s, nil
}

func (clnt *Clnt) Close() error {
	if clnt.cl != nil {
		return clnt.cl.Close()
	}
	return nil
}
