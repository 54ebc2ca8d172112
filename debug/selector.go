package debug

type Tselector string

// ALWAYS
const (
	ALWAYS Tselector = "ALWAYS"
	ERROR            = "ERROR"
	NEVER            = "NEVER"
)

// Components
const (
	MATRIX  Tselector = "MATRIX"
	TASK              = "TASK"
	COMPUTE           = "COMPUTE"
	TELEM             = "TELEM"
	COORD             = "COORD"
)

// Tests and measurement
const (
	TEST Tselector = "TEST"
	STAT           = "STAT"
)
