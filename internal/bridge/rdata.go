package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/omixlab/gexpr/internal/dataframe"
	"github.com/omixlab/gexpr/internal/eset"
	"github.com/omixlab/gexpr/internal/infer"
	"github.com/omixlab/gexpr/internal/statenv"
)

// DefaultAssay is the conventional name of the expression assay inside an
// ExpressionSet's assayData.
const DefaultAssay = "exprs"

// LoadOptions controls how a native object becomes an ExpressionSet.
type LoadOptions struct {
	// Assay names the assay matrix to extract. Empty means: the container
	// must hold exactly one assay, whatever its name.
	Assay string
	// FFactors and PFactors select categorical inference for the feature
	// and phenotype tables independently.
	FFactors infer.Mode
	PFactors infer.Mode
	// FactorRatio overrides infer.DefaultRatio when positive.
	FactorRatio int
	// Meta is merged into the result's metadata. The "source" key is
	// always set to the origin path afterwards.
	Meta eset.Metadata
}

// DefaultLoadOptions mirrors the conventional load: the "exprs" assay with
// automatic factor inference on both tables.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Assay: DefaultAssay, FFactors: infer.Auto(), PFactors: infer.Auto()}
}

// SaveOptions controls how an ExpressionSet becomes a native object.
type SaveOptions struct {
	// ExtraAssays would carry additional assay matrices. Multi-assay
	// output is outside the bridge's contract and always rejected.
	ExtraAssays map[string]*dataframe.Matrix
}

// LoadRData loads the single ExpressionSet object stored at path through
// the given client and converts it to the entity model. Ambiguity (no
// assay, or several assays with no explicit choice) fails with a
// BridgeError instead of picking one arbitrarily.
func LoadRData(ctx context.Context, client statenv.Client, path string, opts LoadOptions) (*eset.ExpressionSet, error) {
	obj, err := client.LoadObject(ctx, path)
	if err != nil {
		return nil, &BridgeError{Op: "load rdata", Path: path, Err: err}
	}

	assay, err := pickAssay(obj, opts.Assay)
	if err != nil {
		return nil, &BridgeError{Op: "load rdata", Path: path, Detail: err.Error()}
	}

	fData, err := infer.Apply(obj.Features, opts.FFactors, opts.FactorRatio)
	if err != nil {
		return nil, &BridgeError{Op: "load rdata", Path: path, Detail: "fData factor inference", Err: err}
	}
	pData, err := infer.Apply(obj.Phenotypes, opts.PFactors, opts.FactorRatio)
	if err != nil {
		return nil, &BridgeError{Op: "load rdata", Path: path, Detail: "pData factor inference", Err: err}
	}

	meta := opts.Meta.Clone()
	if meta == nil {
		meta = eset.Metadata{}
	}
	meta["source"] = path

	return eset.New(assay, fData, pData, meta)
}

func pickAssay(obj *statenv.Object, name string) (*dataframe.Matrix, error) {
	if len(obj.Assays) == 0 {
		return nil, fmt.Errorf("object has no assay matrix")
	}
	if name != "" {
		m, ok := obj.Assays[name]
		if !ok {
			return nil, fmt.Errorf("object has no assay %q", name)
		}
		return m, nil
	}
	if len(obj.Assays) > 1 {
		return nil, fmt.Errorf("object has %d assays and no assay name was given", len(obj.Assays))
	}
	for _, m := range obj.Assays {
		return m, nil
	}
	return nil, nil // unreachable
}

// SaveRData writes e to path as a native single-assay ExpressionSet. The
// three tables are aligned by the entity model's invariants, so no
// re-validation happens here. Requesting extra assays fails with an
// UnsupportedOperationError.
func SaveRData(ctx context.Context, client statenv.Client, e *eset.ExpressionSet, path string, opts SaveOptions) error {
	if len(opts.ExtraAssays) > 0 {
		return &UnsupportedOperationError{Op: "multi-assay write"}
	}
	obj := &statenv.Object{
		Assays:     map[string]*dataframe.Matrix{DefaultAssay: e.Exprs()},
		Features:   e.FData(),
		Phenotypes: e.PData(),
	}
	if err := client.SaveObject(ctx, obj, path); err != nil {
		return &BridgeError{Op: "save rdata", Path: path, Err: err}
	}
	return nil
}

// Logger-carrying variant of the load path for CLI diagnostics.
type Loader struct {
	client statenv.Client
	logger *zap.Logger
}

// NewLoader wraps a client for repeated loads.
func NewLoader(client statenv.Client) *Loader {
	return &Loader{client: client, logger: zap.NewNop()}
}

// SetLogger sets the diagnostics logger.
func (l *Loader) SetLogger(lg *zap.Logger) { l.logger = lg }

// Load loads path with opts, logging the resulting shape.
func (l *Loader) Load(ctx context.Context, path string, opts LoadOptions) (*eset.ExpressionSet, error) {
	e, err := LoadRData(ctx, l.client, path, opts)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded ExpressionSet",
		zap.String("source", path),
		zap.Int("features", e.Exprs().NumRows()),
		zap.Int("samples", e.Exprs().NumCols()))
	return e, nil
}
