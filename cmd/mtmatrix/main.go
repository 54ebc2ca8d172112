package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"mtmatrix/compute"
	"mtmatrix/config"
	"mtmatrix/coord"
	db "mtmatrix/debug"
	"mtmatrix/matrix"
	"mtmatrix/task"
	"mtmatrix/telemetry"
)

const OUT_FILE = "result.txt"

func loadMatrix(pn string) *matrix.Matrix {
	m, err := matrix.ReadFile(pn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("File not found: %s\n", pn)
		} else {
			db.DPrintf(db.ERROR, "load %v: %v", pn, err)
		}
		return nil
	}
	return m
}

func main() {
	check := flag.Bool("check", false, "verify the result against the reference product")
	flag.Parse()
	args := flag.Args()
	if len(args) != 3 {
		fmt.Printf("Usage: %s [number of workers] [file name of input matrix1] [file name of input matrix2]\n", os.Args[0])
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Printf("Bad number of workers: %s\n", args[0])
		os.Exit(1)
	}
	m1 := loadMatrix(args[1])
	m2 := loadMatrix(args[2])
	if m1 == nil || m2 == nil {
		return
	}

	srv := telemetry.NewSrv(telemetry.NewProcTable())
	pn := config.Conf.Channel.SOCK_PATH
	if err := srv.Serve(pn); err != nil {
		db.DFatalf("telemetry serve %v: %v", pn, err)
	}
	defer srv.Close()
	clnt, err := telemetry.DialClnt(pn)
	if err != nil {
		db.DFatalf("telemetry dial %v: %v", pn, err)
	}
	defer clnt.Close()

	newUnit := func(a, b *matrix.Matrix, t task.Task) (compute.Unit, error) {
		return compute.NewExecUnit(a, b, t)
	}
	c := coord.NewCoord(m1, m2, n, clnt, newUnit, os.Stdout)
	m3, secs, err := c.Run()
	if err != nil {
		if errors.Is(err, matrix.ErrDimension) {
			fmt.Printf("Cannot do matrix multiplication.\n")
			os.Exit(1)
		}
		db.DFatalf("run: %v", err)
	}
	if err := m3.WriteFile(OUT_FILE); err != nil {
		db.DFatalf("write %v: %v", OUT_FILE, err)
	}
	if *check {
		ref, err := matrix.Mul(m1, m2)
		if err != nil {
			db.DFatalf("reference product: %v", err)
		}
		if !matrix.Equal(m3, ref) {
			db.DFatalf("result does not match reference product")
		}
		db.DPrintf(db.ALWAYS, "result verified against reference product")
	}
	fmt.Printf("\nElapsed Time: %d (s)\n", secs)
}
