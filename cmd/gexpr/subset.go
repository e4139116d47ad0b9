package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/omixlab/gexpr/internal/textio"
)

func runSubset(args []string) int {
	fs := flag.NewFlagSet("subset", flag.ExitOnError)

	var (
		featuresFile string
		samplesFile  string
		outputPath   string
	)

	fs.StringVar(&featuresFile, "features", "", "File with one feature label per line (default: keep all)")
	fs.StringVar(&samplesFile, "samples", "", "File with one sample label per line (default: keep all)")
	fs.StringVar(&outputPath, "output", "", "Output RData or DuckDB store file")
	fs.StringVar(&outputPath, "o", "", "Output RData or DuckDB store file (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Subset an expression set by feature and sample lists.

The output keeps the order of the label files, and the expression matrix,
feature annotations, and phenotype annotations stay aligned.

Usage:
  gexpr subset [options] <input-file>

Arguments:
  <input-file>  RData or DuckDB store file

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  gexpr subset --features genes.txt -o subset.duckdb study.duckdb
  gexpr subset --features genes.txt --samples cases.txt -o subset.rda study.rda
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
	if outputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if featuresFile == "" && samplesFile == "" {
		fmt.Fprintf(os.Stderr, "Error: at least one of --features or --samples is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	var features, samples []string
	var err error
	if featuresFile != "" {
		if features, err = textio.ReadLines(featuresFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading feature list: %v\n", err)
			return ExitError
		}
	}
	if samplesFile != "" {
		if samples, err = textio.ReadLines(samplesFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading sample list: %v\n", err)
			return ExitError
		}
	}

	e, err := loadESet(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	sub, err := e.Subset(features, samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Subset %d -> %d features, %d -> %d samples\n",
		e.Exprs().NumRows(), sub.Exprs().NumRows(),
		e.Exprs().NumCols(), sub.Exprs().NumCols())

	if err := saveESet(sub, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
	return ExitSuccess
}
