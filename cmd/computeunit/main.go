package main

import (
	"os"

	"mtmatrix/compute"
	db "mtmatrix/debug"
)

// The isolated execution unit: row range from argv, matrices from
// stdin, one fixed-size cell message per result on stdout.
func main() {
	if err := compute.Run(os.Args[1:]); err != nil {
		db.DFatalf("computeunit: %v", err)
	}
}
