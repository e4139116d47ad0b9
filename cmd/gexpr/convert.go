package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/omixlab/gexpr/internal/bridge"
	"github.com/omixlab/gexpr/internal/eset"
	"github.com/omixlab/gexpr/internal/infer"
	"github.com/omixlab/gexpr/internal/statenv"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	var (
		inputPath   string
		outputPath  string
		assay       string
		fFactors    string
		pFactors    string
		factorRatio int
		rscriptPath string
		assayKey    string
		verbose     bool
	)

	fs.StringVar(&inputPath, "input", "", "Input RData or DuckDB store file")
	fs.StringVar(&inputPath, "i", "", "Input RData or DuckDB store file (shorthand)")
	fs.StringVar(&outputPath, "output", "", "Output RData or DuckDB store file")
	fs.StringVar(&outputPath, "o", "", "Output RData or DuckDB store file (shorthand)")
	fs.StringVar(&assay, "assay", "", "Assay to read from a multi-assay RData object (default: only assay)")
	fs.StringVar(&fFactors, "f-factors", configFactorMode(), "Feature factor inference: auto, none, or a column list")
	fs.StringVar(&pFactors, "p-factors", configFactorMode(), "Phenotype factor inference: auto, none, or a column list")
	fs.IntVar(&factorRatio, "factor-ratio", configFactorRatio(), "Rows per distinct value required for factor inference")
	fs.StringVar(&rscriptPath, "rscript", configRscriptPath(), "Path to the Rscript executable")
	fs.StringVar(&assayKey, "assay-key", configAssayKey(), "Table name for the expression matrix in the store")
	fs.BoolVar(&verbose, "verbose", false, "Log progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Convert expression data between RData and DuckDB store formats.

The direction is detected from the file extensions: .rda and .RData files
go through Rscript and the Biobase ExpressionSet class, everything else is
read or written as a DuckDB database.

Usage:
  gexpr convert [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # RData to DuckDB store
  gexpr convert -i study.rda -o study.duckdb

  # DuckDB store back to RData
  gexpr convert -i study.duckdb -o study.rda

  # Pick one assay out of a multi-assay object, no factor inference
  gexpr convert -i study.rda -o study.duckdb --assay exprs --p-factors none
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	// Validate required arguments
	if inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	ctx := context.Background()

	var e *eset.ExpressionSet
	var err error

	switch detectFormat(inputPath) {
	case "rdata":
		client := statenv.NewRscriptClient(rscriptPath)
		loader := bridge.NewLoader(client)
		if verbose {
			logger, lerr := zap.NewDevelopment()
			if lerr == nil {
				client.SetLogger(logger)
				loader.SetLogger(logger)
				defer logger.Sync()
			}
		}
		opts := bridge.LoadOptions{
			Assay:       assay,
			FFactors:    infer.ParseMode(fFactors),
			PFactors:    infer.ParseMode(pFactors),
			FactorRatio: factorRatio,
		}
		e, err = loader.Load(ctx, inputPath, opts)
	default:
		e, err = bridge.ReadStore(inputPath, bridge.StoreOptions{AssayKey: assayKey})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Loaded %d features x %d samples from %s\n",
		e.Exprs().NumRows(), e.Exprs().NumCols(), inputPath)

	switch detectFormat(outputPath) {
	case "rdata":
		client := statenv.NewRscriptClient(rscriptPath)
		err = bridge.SaveRData(ctx, client, e, outputPath, bridge.SaveOptions{})
	default:
		err = bridge.WriteStore(outputPath, e, bridge.StoreOptions{AssayKey: assayKey})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
	return ExitSuccess
}
