package debug

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
)

func init() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

//
// Debug output is controled by the MTMDEBUG environment variable, which
// can be a list of labels (e.g., "COORD;TELEM").
//

var labels map[Tselector]bool
var labelsOnce sync.Once

func initLabels() {
	labels = make(map[Tselector]bool)
	s := os.Getenv("MTMDEBUG")
	if s == "" {
		return
	}
	for _, l := range strings.Split(s, ";") {
		if l != "" {
			labels[Tselector(l)] = true
		}
	}
}

func enabled(label Tselector) bool {
	labelsOnce.Do(initLabels)
	if label == ALWAYS || label == ERROR {
		return true
	}
	return labels[label]
}

func DPrintf(label Tselector, format string, v ...interface{}) {
	if enabled(label) {
		log.Printf("%v %v", label, fmt.Sprintf(format, v...))
	}
}

func DFatalf(format string, v ...interface{}) {
	// Get info for the caller.
	pc, file, line, ok := runtime.Caller(1)
	fnDetails := runtime.FuncForPC(pc)
	if ok && fnDetails != nil {
		log.Fatalf("FATAL %v %v:%v %v", fnDetails.Name(), file, line, fmt.Sprintf(format, v...))
	} else {
		log.Fatalf("FATAL (missing details) %v", fmt.Sprintf(format, v...))
	}
}
