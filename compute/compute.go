package compute

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	db "mtmatrix/debug"
	"mtmatrix/matrix"
	"mtmatrix/task"
)

// MulRange computes m3[r][c] = sum_i a[r][i]*b[i][c] for every (r,c)
// in t's row range, producing cells in row-major order on wr.
func MulRange(a, b *matrix.Matrix, t task.Task, wr io.Writer) error {
	if a.Cols != b.Rows {
		return fmt.Errorf("%w: %dx%d * %dx%d", matrix.ErrDimension, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	cw := NewCellWriter(wr)
	for r := t.StartRow; r < t.EndRow; r++ {
		for c := 0; c < b.Cols; c++ {
			sum := 0
			for i := 0; i < a.Cols; i++ {
				sum += a.Data[r][i] * b.Data[i][c]
			}
			if err := cw.WriteCell(int64(sum)); err != nil {
				return err
			}
		}
	}
	if err := cw.Flush(); err != nil {
		return err
	}
	db.DPrintf(db.COMPUTE, "MulRange %v: %d cells %v", t, cw.Ncells(), humanize.Bytes(uint64(cw.Nbytes())))
	return nil
}

// Collect reads exactly t.NRows()*m3.Cols cells from u into m3's rows
// for t, in the producer's row-major order.
func Collect(u Unit, m3 *matrix.Matrix, t task.Task) error {
	cr := NewCellReader(u.Output())
	for r := t.StartRow; r < t.EndRow; r++ {
		for c := 0; c < m3.Cols; c++ {
			v, err := cr.ReadCell()
			if err != nil {
				return fmt.Errorf("collect (%d,%d): %w", r, c, err)
			}
			m3.Data[r][c] = int(v)
		}
	}
	db.DPrintf(db.COMPUTE, "Collect %v: %v", t, humanize.Bytes(uint64(cr.Nbytes())))
	return nil
}

// Run is the compute unit's entry point: row range from argv,
// matrices from stdin, cells to stdout. Stdout carries cells only.
func Run(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: computeunit start_row end_row")
	}
	start, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("start_row: %w", err)
	}
	end, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("end_row: %w", err)
	}
	br := bufio.NewReader(os.Stdin)
	a, err := matrix.ReadFrom(br)
	if err != nil {
		return fmt.Errorf("matrix 1: %w", err)
	}
	b, err := matrix.ReadFrom(br)
	if err != nil {
		return fmt.Errorf("matrix 2: %w", err)
	}
	if start < 0 || end > a.Rows || start > end {
		return fmt.Errorf("bad row range [%d,%d) for %v", start, end, a)
	}
	return MulRange(a, b, task.Task{StartRow: start, EndRow: end}, os.Stdout)
}
