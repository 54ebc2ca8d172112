package coord

import (
	"fmt"
	"io"
	"os"
	"time"

	"mtmatrix/compute"
	db "mtmatrix/debug"
	"mtmatrix/linuxsched"
	"mtmatrix/matrix"
	"mtmatrix/task"
	"mtmatrix/telemetry"
)

// NewUnitF spawns the isolated execution unit for one task.
type NewUnitF func(a, b *matrix.Matrix, t task.Task) (compute.Unit, error)

type Coord struct {
	m1      *matrix.Matrix
	m2      *matrix.Matrix
	n       int
	tc      *telemetry.Clnt
	newUnit NewUnitF
	out     io.Writer
}

type wres struct {
	rec    string
	status *Status
}

func NewCoord(m1, m2 *matrix.Matrix, n int, tc *telemetry.Clnt, newUnit NewUnitF, out io.Writer) *Coord {
	if out == nil {
		out = os.Stdout
	}
	return &Coord{m1: m1, m2: m2, n: n, tc: tc, newUnit: newUnit, out: out}
}

// Run partitions the rows over n workers, runs each worker's compute
// unit and telemetry query, and returns the product together with the
// elapsed wall-clock time in whole seconds. Per-worker record lines
// are printed in task order as workers are joined, not in completion
// order.
func (c *Coord) Run() (*matrix.Matrix, int, error) {
	if c.m1.Cols != c.m2.Rows {
		return nil, 0, fmt.Errorf("%w: %dx%d * %dx%d", matrix.ErrDimension, c.m1.Rows, c.m1.Cols, c.m2.Rows, c.m2.Cols)
	}
	tasks, err := task.Partition(c.m1.Rows, c.n)
	if err != nil {
		return nil, 0, err
	}
	m3 := matrix.New(c.m1.Rows, c.m2.Cols)

	if m, err := linuxsched.SchedGetAffinity(os.Getpid()); err == nil {
		db.DPrintf(db.COORD, "%d workers on %d of %d cores", c.n, m.OnesCount(), linuxsched.GetNCores())
	}

	fmt.Fprintf(c.out, "PID:%d\n", os.Getpid())

	start := time.Now()
	chans := make([]chan *wres, c.n)
	for i, t := range tasks {
		chans[i] = make(chan *wres, 1)
		go c.worker(i, t, m3, chans[i])
	}
	// Join in task order.
	recs := make([]string, 0, c.n)
	for i := 0; i < c.n; i++ {
		r := <-chans[i]
		if r.status.IsStatusOK() {
			fmt.Fprintf(c.out, "\t%s", r.rec)
			recs = append(recs, r.rec)
		} else {
			db.DPrintf(db.ERROR, "worker %d: %v", i, r.status)
		}
	}
	elapsed := int(time.Since(start).Seconds())

	c.statsSummary(recs)
	return m3, elapsed, nil
}

// worker runs one task end to end: spawn the unit, collect its cells,
// query the telemetry channel about it, and only then reap it (a
// reaped pid is gone from the process table).
func (c *Coord) worker(i int, t task.Task, m3 *matrix.Matrix, ch chan *wres) {
	db.DPrintf(db.COORD, "worker %d task %v", i, t)
	u, err := c.newUnit(c.m1, c.m2, t)
	if err != nil {
		ch <- &wres{status: NewStatusErr(fmt.Sprintf("spawn unit: %v", err))}
		return
	}
	if err := compute.Collect(u, m3, t); err != nil {
		u.Wait()
		ch <- &wres{status: NewStatusErr(fmt.Sprintf("collect: %v", err))}
		return
	}
	rec, err := c.tc.Query(u.Pid())
	if err != nil {
		u.Wait()
		ch <- &wres{status: NewStatusErr(fmt.Sprintf("query: %v", err))}
		return
	}
	if err := u.Wait(); err != nil {
		ch <- &wres{status: NewStatusErr(fmt.Sprintf("wait: %v", err))}
		return
	}
	ch <- &wres{rec: rec, status: NewStatus(StatusOK)}
}
