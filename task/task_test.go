package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mtmatrix/task"
)

func TestCompile(t *testing.T) {
}

func TestPartitionLaw(t *testing.T) {
	for rows := 0; rows <= 12; rows++ {
		for n := 1; n <= 8; n++ {
			tasks, err := task.Partition(rows, n)
			assert.Nil(t, err, "Partition(%d,%d)", rows, n)
			assert.Equal(t, n, len(tasks))
			// Contiguous and covering [0, rows).
			start := 0
			for i, tk := range tasks {
				assert.Equal(t, start, tk.StartRow, "rows %d n %d task %d", rows, n, i)
				assert.True(t, tk.EndRow >= tk.StartRow)
				start = tk.EndRow
			}
			assert.Equal(t, rows, start, "rows %d n %d", rows, n)
			// First rows%n tasks get exactly one extra row.
			for i, tk := range tasks {
				want := rows / n
				if i < rows%n {
					want += 1
				}
				assert.Equal(t, want, tk.NRows(), "rows %d n %d task %d", rows, n, i)
			}
		}
	}
}

func TestPartitionMoreWorkersThanRows(t *testing.T) {
	tasks, err := task.Partition(2, 4)
	assert.Nil(t, err)
	assert.Equal(t, 1, tasks[0].NRows())
	assert.Equal(t, 1, tasks[1].NRows())
	assert.Equal(t, 0, tasks[2].NRows())
	assert.Equal(t, 0, tasks[3].NRows())
}

func TestPartitionBadN(t *testing.T) {
	_, err := task.Partition(4, 0)
	assert.NotNil(t, err)
	assert.ErrorIs(t, err, task.ErrNWorkers)
	_, err = task.Partition(4, -1)
	assert.NotNil(t, err)
}
