// Package main provides the gexpr command-line tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/omixlab/gexpr/internal/bridge"
	"github.com/omixlab/gexpr/internal/eset"
	"github.com/omixlab/gexpr/internal/infer"
	"github.com/omixlab/gexpr/internal/statenv"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("gexpr version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		return runConvert(args[1:])
	case "describe":
		return runDescribe(args[1:])
	case "subset":
		return runSubset(args[1:])
	case "enrich":
		return runEnrich(args[1:])
	case "select":
		return runSelect(args[1:])
	case "pca":
		return runPCA(args[1:])
	case "config":
		return runConfigCommand(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gexpr - Expression set toolkit

Usage:
  gexpr [options] <command> [arguments]

Commands:
  convert     Convert expression data between RData and DuckDB store formats
  describe    Print a summary of an expression set
  subset      Subset an expression set by feature and sample lists
  enrich      Gene set enrichment against a GMT collection
  select      Select phenotype variables by mRMR
  pca         Principal component analysis of the expression matrix
  config      Manage gexpr configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Convert an R ExpressionSet to a DuckDB store
  gexpr convert -i study.rda -o study.duckdb

  # Summarize an expression set
  gexpr describe study.duckdb

  # Subset to a feature list
  gexpr subset --features genes.txt -o subset.duckdb study.duckdb

  # Enrichment of a gene list against MSigDB hallmark sets
  gexpr enrich --gmt h.all.v7.symbols.gmt genes.txt

For more information on a command, use:
  gexpr <command> --help
`)
}

// detectFormat detects the expression set container format from the file
// extension. RData files go through Rscript, everything else is treated
// as a DuckDB store.
func detectFormat(path string) string {
	lowerPath := strings.ToLower(path)
	switch filepath.Ext(lowerPath) {
	case ".rda", ".rdata":
		return "rdata"
	default:
		return "store"
	}
}

// loadESet loads an expression set from either container format, applying
// the configured factor inference for RData input.
func loadESet(path string) (*eset.ExpressionSet, error) {
	switch detectFormat(path) {
	case "rdata":
		client := statenv.NewRscriptClient(configRscriptPath())
		opts := bridge.DefaultLoadOptions()
		opts.FFactors = infer.ParseMode(configFactorMode())
		opts.PFactors = infer.ParseMode(configFactorMode())
		opts.FactorRatio = configFactorRatio()
		return bridge.NewLoader(client).Load(context.Background(), path, opts)
	default:
		return bridge.ReadStore(path, bridge.StoreOptions{AssayKey: configAssayKey()})
	}
}

// saveESet writes an expression set to either container format.
func saveESet(e *eset.ExpressionSet, path string) error {
	switch detectFormat(path) {
	case "rdata":
		client := statenv.NewRscriptClient(configRscriptPath())
		return bridge.SaveRData(context.Background(), client, e, path, bridge.SaveOptions{})
	default:
		return bridge.WriteStore(path, e, bridge.StoreOptions{AssayKey: configAssayKey()})
	}
}
