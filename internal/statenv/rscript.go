package statenv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/omixlab/gexpr/internal/dataframe"
	"github.com/omixlab/gexpr/internal/textio"
)

// RscriptClient runs R code through the Rscript executable. Each call works
// in its own temporary session directory and exchanges tables as CSV, so
// nothing leaks between calls: there is no shared R workspace.
type RscriptClient struct {
	rscript string
	logger  *zap.Logger
}

// NewRscriptClient creates a client using the given Rscript executable.
// An empty path means "Rscript" resolved from PATH.
func NewRscriptClient(rscript string) *RscriptClient {
	if rscript == "" {
		rscript = "Rscript"
	}
	return &RscriptClient{rscript: rscript, logger: zap.NewNop()}
}

// SetLogger sets the logger used for script execution diagnostics.
func (c *RscriptClient) SetLogger(l *zap.Logger) {
	c.logger = l
}

const loadScript = `suppressMessages(library(Biobase))
args <- commandArgs(trailingOnly = TRUE)
rdata <- args[[1]]
out <- args[[2]]
objs <- load(rdata)
if (length(objs) != 1) stop(sprintf("expected exactly one object in %s, found %d", rdata, length(objs)))
obj <- get(objs[[1]])
ad <- assayData(obj)
nms <- ls(ad)
writeLines(nms, file.path(out, "assays.txt"))
for (nm in nms) write.csv(ad[[nm]], file.path(out, paste0("assay_", nm, ".csv")))
write.csv(fData(obj), file.path(out, "fData.csv"))
write.csv(pData(obj), file.path(out, "pData.csv"))
`

const saveScript = `suppressMessages(library(Biobase))
args <- commandArgs(trailingOnly = TRUE)
dir <- args[[1]]
rdata <- args[[2]]
exprs <- as.matrix(read.csv(file.path(dir, "exprs.csv"), row.names = 1, check.names = FALSE))
fdata <- read.csv(file.path(dir, "fData.csv"), row.names = 1, check.names = FALSE)
pdata <- read.csv(file.path(dir, "pData.csv"), row.names = 1, check.names = FALSE)
eSet <- ExpressionSet(assayData = exprs,
                      featureData = AnnotatedDataFrame(fdata),
                      phenoData = AnnotatedDataFrame(pdata))
save(eSet, file = rdata)
`

// LoadObject loads the ExpressionSet stored in an RData file. The file must
// hold exactly one object; the generated R code stops otherwise.
func (c *RscriptClient) LoadObject(ctx context.Context, path string) (*Object, error) {
	session, err := os.MkdirTemp("", "gexpr-statenv-*")
	if err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	defer os.RemoveAll(session)

	if err := c.run(ctx, session, loadScript, path, session); err != nil {
		return nil, err
	}

	names, err := textio.ReadLines(filepath.Join(session, "assays.txt"))
	if err != nil {
		return nil, fmt.Errorf("read assay names: %w", err)
	}
	assays := make(map[string]*dataframe.Matrix, len(names))
	for _, name := range names {
		m, err := readMatrixCSV(filepath.Join(session, "assay_"+name+".csv"))
		if err != nil {
			return nil, fmt.Errorf("parse assay %q: %w", name, err)
		}
		assays[name] = m
		c.logger.Debug("parsed assay",
			zap.String("assay", name),
			zap.Int("features", m.NumRows()),
			zap.Int("samples", m.NumCols()))
	}
	features, err := readFrameCSV(filepath.Join(session, "fData.csv"))
	if err != nil {
		return nil, fmt.Errorf("parse fData: %w", err)
	}
	phenotypes, err := readFrameCSV(filepath.Join(session, "pData.csv"))
	if err != nil {
		return nil, fmt.Errorf("parse pData: %w", err)
	}
	return &Object{Assays: assays, Features: features, Phenotypes: phenotypes}, nil
}

// SaveObject writes obj to an RData file through Biobase's ExpressionSet
// constructor. obj must carry exactly one assay.
func (c *RscriptClient) SaveObject(ctx context.Context, obj *Object, path string) error {
	if len(obj.Assays) != 1 {
		return fmt.Errorf("save requires exactly one assay, got %d", len(obj.Assays))
	}
	session, err := os.MkdirTemp("", "gexpr-statenv-*")
	if err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	defer os.RemoveAll(session)

	var assay *dataframe.Matrix
	for _, m := range obj.Assays {
		assay = m
	}
	if err := writeMatrixCSV(filepath.Join(session, "exprs.csv"), assay); err != nil {
		return err
	}
	if err := writeFrameCSV(filepath.Join(session, "fData.csv"), obj.Features, assay.RowLabels()); err != nil {
		return err
	}
	if err := writeFrameCSV(filepath.Join(session, "pData.csv"), obj.Phenotypes, assay.ColLabels()); err != nil {
		return err
	}
	return c.run(ctx, session, saveScript, session, path)
}

// run writes script into the session dir and executes it with Rscript.
func (c *RscriptClient) run(ctx context.Context, session, script string, args ...string) error {
	scriptPath := filepath.Join(session, "job.R")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("write R script: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.rscript, append([]string{scriptPath}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running Rscript", zap.String("cmd", strings.Join(cmd.Args, " ")))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("Rscript failed: %w: %s", err, msg)
		}
		return fmt.Errorf("Rscript failed: %w", err)
	}
	return nil
}
