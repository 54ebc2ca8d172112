package telemetry_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "mtmatrix/debug"
	"mtmatrix/telemetry"
)

// fakeTable answers every pid with deterministic accounting values.
type fakeTable struct {
	miss bool
}

func (ft *fakeTable) Lookup(pid int32) (telemetry.Record, bool) {
	if ft.miss {
		return telemetry.Record{}, false
	}
	return telemetry.Record{PID: pid, UserTimeMs: int64(pid) * 2, CtxSwitches: int64(pid) * 3}, true
}

func TestCompile(t *testing.T) {
}

func TestRecordFormat(t *testing.T) {
	r := telemetry.Record{PID: 42, UserTimeMs: 17, CtxSwitches: 5}
	s := r.Format()
	assert.Equal(t, "ThreadID:42 Time:17(ms) context switch times:5\n", s)
	r1, err := telemetry.ParseRecord(s)
	assert.Nil(t, err)
	assert.Equal(t, r, r1)
}

func TestParseRecordEcho(t *testing.T) {
	// A lookup miss echoes the request; that must not parse as a record.
	_, err := telemetry.ParseRecord("1234\n")
	assert.NotNil(t, err)
}

func TestQueryHit(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{})
	clnt := telemetry.NewClnt(srv)
	s, err := clnt.Query(42)
	require.Nil(t, err)
	r, err := telemetry.ParseRecord(s)
	require.Nil(t, err)
	assert.Equal(t, int32(42), r.PID)
	assert.Equal(t, int64(84), r.UserTimeMs)
	assert.Equal(t, int64(126), r.CtxSwitches)
}

func TestQueryMissEchoes(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{miss: true})
	clnt := telemetry.NewClnt(srv)
	s, err := clnt.Query(4242)
	require.Nil(t, err)
	// The literal bytes previously written come back, not an error.
	assert.Equal(t, "4242\n", s)
}

func TestBadIdEchoes(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{})
	n, err := srv.Write([]byte("notanumber"))
	assert.Nil(t, err)
	assert.Equal(t, len("notanumber"), n)
	buf := make([]byte, 64)
	m, err := srv.Read(buf)
	assert.Nil(t, err)
	assert.Equal(t, "notanumber", string(buf[:m]))
}

func TestWriteTruncates(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{})
	big := strings.Repeat("9", 4096)
	n, err := srv.Write([]byte(big))
	assert.Nil(t, err)
	assert.True(t, n < len(big), "truncated to capacity, got %d", n)
	assert.Equal(t, 1024, n)
}

func TestReadEOF(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{})
	_, err := srv.Write([]byte("7"))
	require.Nil(t, err)
	buf := make([]byte, 2048)
	n, err := srv.Read(buf)
	assert.Nil(t, err)
	assert.True(t, n > 0)
	n, err = srv.Read(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestShortReads(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{miss: true})
	_, err := srv.Write([]byte("123456"))
	require.Nil(t, err)
	buf := make([]byte, 4)
	n, err := srv.Read(buf)
	assert.Nil(t, err)
	assert.Equal(t, "1234", string(buf[:n]))
	n, err = srv.Read(buf)
	assert.Nil(t, err)
	assert.Equal(t, "56", string(buf[:n]))
	_, err = srv.Read(buf)
	assert.Equal(t, io.EOF, err)
}

// Under k concurrent callers, every caller's read must return the
// record for its own write.
func TestTransactionAtomicity(t *testing.T) {
	const K = 8
	const N = 100
	srv := telemetry.NewSrv(&fakeTable{})
	clnt := telemetry.NewClnt(srv)
	var wg sync.WaitGroup
	for k := 0; k < K; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			pid := 1000 + k
			for i := 0; i < N; i++ {
				s, err := clnt.Query(pid)
				assert.Nil(t, err)
				r, err := telemetry.ParseRecord(s)
				assert.Nil(t, err, "caller %d got %q", k, s)
				assert.Equal(t, int32(pid), r.PID, "cross-talk: caller %d got %v", k, r)
			}
		}(k)
	}
	wg.Wait()
}

func TestSocketEndpoint(t *testing.T) {
	srv := telemetry.NewSrv(&fakeTable{})
	pn := filepath.Join(t.TempDir(), "thread_info.sock")
	err := srv.Serve(pn)
	require.Nil(t, err)
	defer srv.Close()

	clnt, err := telemetry.DialClnt(pn)
	require.Nil(t, err)
	defer clnt.Close()

	for _, pid := range []int{1, 77, 31337} {
		s, err := clnt.Query(pid)
		require.Nil(t, err)
		r, err := telemetry.ParseRecord(s)
		require.Nil(t, err)
		assert.Equal(t, int32(pid), r.PID)
		db.DPrintf(db.TEST, "socket query %d -> %v", pid, r)
	}
}

func TestSocketAtomicity(t *testing.T) {
	const K = 4
	const N = 50
	srv := telemetry.NewSrv(&fakeTable{})
	pn := filepath.Join(t.TempDir(), "thread_info.sock")
	require.Nil(t, srv.Serve(pn))
	defer srv.Close()
	clnt, err := telemetry.DialClnt(pn)
	require.Nil(t, err)
	defer clnt.Close()

	var wg sync.WaitGroup
	for k := 0; k < K; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			pid := 2000 + k
			for i := 0; i < N; i++ {
				s, err := clnt.Query(pid)
				assert.Nil(t, err)
				r, err := telemetry.ParseRecord(s)
				assert.Nil(t, err, "caller %d got %q", k, s)
				assert.Equal(t, int32(pid), r.PID)
			}
		}(k)
	}
	wg.Wait()
}

func TestProcTableSelf(t *testing.T) {
	// Our own pid is always in the table.
	pt := telemetry.NewProcTable()
	// Burn a little user time so the entry is nonzero on fast machines.
	x := 0
	for i := 0; i < 1000000; i++ {
		x += i % 7
	}
	_ = x
	pid := int32(os.Getpid())
	r, ok := pt.Lookup(pid)
	require.True(t, ok)
	assert.Equal(t, pid, r.PID)
	assert.True(t, r.UserTimeMs >= 0)
	assert.True(t, r.CtxSwitches >= 0)
	db.DPrintf(db.TEST, "self %v", r)
}

func TestProcTableMiss(t *testing.T) {
	pt := telemetry.NewProcTable()
	_, ok := pt.Lookup(int32(1 << 30))
	assert.False(t, ok)
}
