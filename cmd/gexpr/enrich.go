package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/omixlab/gexpr/internal/gsa"
	"github.com/omixlab/gexpr/internal/textio"
)

func runEnrich(args []string) int {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)

	var (
		gmtPath        string
		backgroundFile string
		outputPath     string
		minSize        int
		maxSize        int
		maxFDR         float64
	)

	fs.StringVar(&gmtPath, "gmt", "", "Gene set collection in GMT format (plain or gzipped)")
	fs.StringVar(&backgroundFile, "background", "", "File with one background gene per line (default: union of all sets)")
	fs.StringVar(&outputPath, "output", "", "Output TSV file (default: stdout)")
	fs.StringVar(&outputPath, "o", "", "Output TSV file (shorthand)")
	fs.IntVar(&minSize, "min-size", 2, "Skip gene sets smaller than this")
	fs.IntVar(&maxSize, "max-size", 0, "Skip gene sets larger than this (0: no limit)")
	fs.Float64Var(&maxFDR, "max-fdr", 1.0, "Only report rows at or below this FDR")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Gene set enrichment of a gene list against a GMT collection.

Each gene set is tested with Fisher's exact test against the background,
and p-values are adjusted with the Benjamini-Hochberg procedure.

Usage:
  gexpr enrich [options] --gmt <collection.gmt> <gene-list-file>

Arguments:
  <gene-list-file>  File with one gene per line

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  gexpr enrich --gmt h.all.v7.symbols.gmt genes.txt
  gexpr enrich --gmt c2.cp.kegg.v7.symbols.gmt.gz --max-fdr 0.05 genes.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if gmtPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --gmt is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: gene list argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	genes, err := textio.ReadLines(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading gene list: %v\n", err)
		return ExitError
	}

	coll, err := gsa.LoadGMT(gmtPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(os.Stderr, "%s\n", coll)

	var background map[string]struct{}
	if backgroundFile != "" {
		if background, err = textio.ReadSet(backgroundFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading background: %v\n", err)
			return ExitError
		}
	}

	rows, err := coll.Enrichment(genes, background, minSize, maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
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
	fmt.Fprintln(w, "name\thits\tinput\tsize\todds_ratio\tp_value\tfdr")
	var reported int
	for _, r := range rows {
		if r.FDR > maxFDR {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			r.Name, r.Hits, r.Input, r.Size,
			strconv.FormatFloat(r.OddsRatio, 'g', 6, 64),
			strconv.FormatFloat(r.PValue, 'g', 6, 64),
			strconv.FormatFloat(r.FDR, 'g', 6, 64))
		reported++
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Tested %d gene sets, reported %d\n", len(rows), reported)
	return ExitSuccess
}
