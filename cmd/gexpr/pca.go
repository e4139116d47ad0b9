package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/omixlab/gexpr/internal/dataframe"
	"github.com/omixlab/gexpr/internal/stats"
)

func runPCA(args []string) int {
	fs := flag.NewFlagSet("pca", flag.ExitOnError)

	var (
		components int
		outputPath string
	)

	fs.IntVar(&components, "components", 2, "Number of principal components to keep")
	fs.StringVar(&outputPath, "output", "", "Output TSV file (default: stdout)")
	fs.StringVar(&outputPath, "o", "", "Output TSV file (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Principal component analysis of the expression matrix.

Samples are treated as observations and features as variables. The output
is one row per sample with its projection onto the leading components.

Usage:
  gexpr pca [options] <input-file>

Arguments:
  <input-file>  RData or DuckDB store file

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  gexpr pca study.duckdb
  gexpr pca --components 3 -o pca.tsv study.rda
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

	// Transpose to samples-by-features for the projection.
	exprs := e.Exprs()
	samples := exprs.ColLabels()
	features := exprs.RowLabels()
	values := make([]float64, 0, len(samples)*len(features))
	for j := range samples {
		for i := range features {
			values = append(values, exprs.At(i, j))
		}
	}
	observations, err := dataframe.NewMatrix(samples, features, values)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	res, err := stats.PCA(observations, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	for i, ratio := range res.ExplainedVarianceRatio {
		fmt.Fprintf(os.Stderr, "PC%d explains %.1f%% of variance\n", i+1, 100*ratio)
	}

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	w := bufio.NewWriter(out)
	fmt.Fprint(w, "sample")
	for _, pc := range res.Transformed.ColLabels() {
		fmt.Fprintf(w, "\t%s", pc)
	}
	fmt.Fprintln(w)
	for i, sample := range res.Transformed.RowLabels() {
		fmt.Fprint(w, sample)
		for j := 0; j < res.Transformed.NumCols(); j++ {
			fmt.Fprintf(w, "\t%s", strconv.FormatFloat(res.Transformed.At(i, j), 'g', 6, 64))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}
