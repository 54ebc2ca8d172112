package compute

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"

	"mtmatrix/config"
	db "mtmatrix/debug"
	"mtmatrix/matrix"
	"mtmatrix/task"
)

// A Unit is an isolated execution context computing one row range.
// Its results arrive on Output as fixed-size cell messages; Wait must
// be called so the unit is never left orphaned.
type Unit interface {
	Pid() int
	Output() io.Reader
	Wait() error
}

// BinPath resolves the compute unit binary: MTMCOMPUTEBIN overrides;
// otherwise look next to the running executable, then on PATH.
func BinPath() (string, error) {
	if pn := os.Getenv("MTMCOMPUTEBIN"); pn != "" {
		return pn, nil
	}
	bin := config.Conf.Compute.BIN
	if self, err := os.Executable(); err == nil {
		pn := filepath.Join(filepath.Dir(self), bin)
		if _, err := os.Stat(pn); err == nil {
			return pn, nil
		}
	}
	return exec.LookPath(bin)
}

type ExecUnit struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// NewExecUnit spawns the compute unit for t and streams both input
// matrices to it before returning. The child shares our stderr but
// owns a fresh address space, so the scheduler accounts for it
// separately.
func NewExecUnit(a, b *matrix.Matrix, t task.Task) (*ExecUnit, error) {
	pn, err := BinPath()
	if err != nil {
		return nil, fmt.Errorf("compute unit binary: %w", err)
	}
	cmd := exec.Command(pn, strconv.Itoa(t.StartRow), strconv.Itoa(t.EndRow))
	// Own process group so stray children can be killed together.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	db.DPrintf(db.COMPUTE, "spawn %v %v pid %d", pn, t, cmd.Process.Pid)
	// The child reads both matrices in full before it produces any
	// cells, so writing everything up front cannot deadlock.
	if err := a.Write(stdin); err != nil {
		stdin.Close()
		cmd.Wait()
		return nil, err
	}
	if err := b.Write(stdin); err != nil {
		stdin.Close()
		cmd.Wait()
		return nil, err
	}
	if err := stdin.Close(); err != nil {
		cmd.Wait()
		return nil, err
	}
	return &ExecUnit{cmd: cmd, stdout: stdout}, nil
}

func (u *ExecUnit) Pid() int {
	return u.cmd.Process.Pid
}

func (u *ExecUnit) Output() io.Reader {
	return u.stdout
}

func (u *ExecUnit) Wait() error {
	return u.cmd.Wait()
}

// LocalUnit runs the producer loop in-process over an io.Pipe. It
// speaks the same cell protocol as ExecUnit but is accounted to the
// calling process; tests use it so they don't depend on the helper
// binary being built.
type LocalUnit struct {
	rd   *io.PipeReader
	done chan error
}

func NewLocalUnit(a, b *matrix.Matrix, t task.Task) (*LocalUnit, error) {
	rd, wr := io.Pipe()
	u := &LocalUnit{rd: rd, done: make(chan error, 1)}
	go func() {
		err := MulRange(a, b, t, wr)
		wr.CloseWithError(err)
		u.done <- err
	}()
	return u, nil
}

func (u *LocalUnit) Pid() int {
	return os.Getpid()
}

func (u *LocalUnit) Output() io.Reader {
	return u.rd
}

func (u *LocalUnit) Wait() error {
	return <-u.done
}
