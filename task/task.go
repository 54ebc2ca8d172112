package task

import (
	"errors"
	"fmt"
)

var ErrNWorkers = errors.New("bad worker count")

// Task is a contiguous, exclusive row range assigned to one worker.
type Task struct {
	StartRow int
	EndRow   int // exclusive
}

func (t Task) String() string {
	return fmt.Sprintf("[%d,%d)", t.StartRow, t.EndRow)
}

func (t Task) NRows() int {
	return t.EndRow - t.StartRow
}

// Partition splits [0, rows) into n contiguous ranges. The first
// rows%n tasks get one extra row. n may exceed rows, which yields
// empty tasks.
func Partition(rows, n int) ([]Task, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrNWorkers, n)
	}
	tasks := make([]Task, n)
	start := 0
	for i := 0; i < n; i++ {
		tasks[i].StartRow = start
		tasks[i].EndRow = start + rows/n
		if i < rows%n {
			tasks[i].EndRow += 1
		}
		start = tasks[i].EndRow
	}
	return tasks, nil
}
