package telemetry

import (
	"net"
	"os"
	"path/filepath"

	db "mtmatrix/debug"
)

//
// Optional unix-socket endpoint at a well-known path. Every
// connection is backed by the one slot, so callers that skip the
// client-side transaction lock can still read each other's answers.
//

func (srv *Srv) Serve(pn string) error {
	if err := os.MkdirAll(filepath.Dir(pn), 0755); err != nil {
		return err
	}
	os.Remove(pn)
	l, err := net.Listen("unix", pn)
	if err != nil {
		return err
	}
	srv.mu.Lock()
	srv.l = l
	srv.path = pn
	srv.mu.Unlock()
	db.DPrintf(db.TELEM, "Serve %v", pn)
	go srv.runServer(l)
	return nil
}

func (srv *Srv) runServer(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		go srv.serveConn(conn)
	}
}

func (srv *Srv) serveConn(conn net.Conn) {
	defer conn.Close()
	req := make([]byte, len(srv.buf))
	resp := make([]byte, len(srv.buf))
	for {
		n, err := conn.Read(req)
		if err != nil {
			return
		}
		if _, err := srv.Write(req[:n]); err != nil {
			return
		}
		m, err := srv.Read(resp)
		if err != nil || m == 0 {
			continue
		}
		if _, err := conn.Write(resp[:m]); err != nil {
			return
		}
	}
}

// Close tears the subsystem down; the slot and its endpoint do not
// outlive it.
func (srv *Srv) Close() error {
	srv.mu.Lock()
	l := srv.l
	pn := srv.path
	srv.l = nil
	srv.path = ""
	srv.mu.Unlock()
	if l != nil {
		l.Close()
	}
	if pn != "" {
		os.Remove(pn)
	}
	return nil
}
