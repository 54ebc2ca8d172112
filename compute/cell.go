package compute

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"mtmatrix/config"
)

//
// One result cell per message. Messages have a fixed size, generous
// for any int64, so the consumer needs no framing: each ReadCell
// consumes exactly one WriteCell.
//

func cellLen() int {
	return config.Conf.Compute.CELL_MSG_LEN
}

type CellWriter struct {
	bw     *bufio.Writer
	buf    []byte
	ncells int
	nbytes int
}

func NewCellWriter(wr io.Writer) *CellWriter {
	return &CellWriter{bw: bufio.NewWriter(wr), buf: make([]byte, cellLen())}
}

func (cw *CellWriter) WriteCell(v int64) error {
	for i := range cw.buf {
		cw.buf[i] = 0
	}
	d := strconv.AppendInt(cw.buf[:0], v, 10)
	if len(d) >= len(cw.buf) {
		return fmt.Errorf("cell %d doesn't fit in %d bytes", v, len(cw.buf))
	}
	if _, err := cw.bw.Write(cw.buf); err != nil {
		return err
	}
	cw.ncells += 1
	cw.nbytes += len(cw.buf)
	return nil
}

func (cw *CellWriter) Flush() error {
	return cw.bw.Flush()
}

func (cw *CellWriter) Ncells() int {
	return cw.ncells
}

func (cw *CellWriter) Nbytes() int {
	return cw.nbytes
}

type CellReader struct {
	rd     io.Reader
	buf    []byte
	nbytes int
}

func NewCellReader(rd io.Reader) *CellReader {
	return &CellReader{rd: bufio.NewReader(rd), buf: make([]byte, cellLen())}
}

func (cr *CellReader) ReadCell() (int64, error) {
	if _, err := io.ReadFull(cr.rd, cr.buf); err != nil {
		return 0, err
	}
	cr.nbytes += len(cr.buf)
	d := cr.buf
	if i := bytes.IndexByte(d, 0); i >= 0 {
		d = d[:i]
	}
	v, err := strconv.ParseInt(string(d), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad cell %q: %w", d, err)
	}
	return v, nil
}

func (cr *CellReader) Nbytes() int {
	return cr.nbytes
}
