package main

import (
	"flag"
	"fmt"
	"os"
)

func runDescribe(args []string) int {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Print a summary of an expression set.

Usage:
  gexpr describe <input-file>

Arguments:
  <input-file>  RData or DuckDB store file

Examples:
  gexpr describe study.duckdb
  gexpr describe study.rda
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	e, err := loadESet(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Println(e.Describe())
	return ExitSuccess
}
