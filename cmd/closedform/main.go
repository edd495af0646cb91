// Command closedform evaluates roots of unity and the closed-form
// Michaelis–Menten time course and writes them to CSV and plot files.
//
//	go run ./cmd/closedform roots --n 7 --plot-out roots.png
//	go run ./cmd/closedform kinetics --s0 10 --t-final 3 --csv-out mm.csv --plot-out mm.png
//	go run ./cmd/closedform sweep --param e0 --values 0.1,0.5,1 --plot-out sweep.svg
//	go run ./cmd/closedform kinetics --config params.yaml --format json
package main

import (
	"os"

	"github.com/Robaina/JupyterNotebooks/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
