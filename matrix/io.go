package matrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/readahead"
	"github.com/thanhpk/randstr"

	db "mtmatrix/debug"
)

//
// Text format shared with the compute unit's stdin and the matrix
// files: line 1 is "rows cols", followed by rows lines of cols
// whitespace-separated ints.
//

func ReadFrom(rd io.Reader) (*Matrix, error) {
	// Reuse the caller's buffered reader so that two matrices can be
	// read back to back from one stream.
	br, ok := rd.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(rd)
	}
	var rows, cols int
	if _, err := fmt.Fscan(br, &rows, &cols); err != nil {
		return nil, fmt.Errorf("matrix header: %w", err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix header: bad dims %dx%d", rows, cols)
	}
	m := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if _, err := fmt.Fscan(br, &m.Data[r][c]); err != nil {
				return nil, fmt.Errorf("matrix entry (%d,%d): %w", r, c, err)
			}
		}
	}
	return m, nil
}

func ReadFile(pn string) (*Matrix, error) {
	f, err := os.Open(pn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ra, err := readahead.NewReaderSize(f, 4, 1<<16)
	if err != nil {
		return nil, fmt.Errorf("readahead %v: %w", pn, err)
	}
	defer ra.Close()
	m, err := ReadFrom(ra)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", pn, err)
	}
	db.DPrintf(db.MATRIX, "ReadFile %v %v", pn, m)
	return m, nil
}

func (m *Matrix) Write(wr io.Writer) error {
	bw := bufio.NewWriter(wr)
	fmt.Fprintf(bw, "%d %d\n", m.Rows, m.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			fmt.Fprintf(bw, "%d ", m.Data[r][c])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteFile publishes the matrix atomically: write a temp file next to
// pn, then rename.
func (m *Matrix) WriteFile(pn string) error {
	tmp := filepath.Join(filepath.Dir(pn), "."+filepath.Base(pn)+"."+randstr.Hex(8))
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	db.DPrintf(db.MATRIX, "WriteFile %v %v", pn, m)
	return os.Rename(tmp, pn)
}
