// Package statenv abstracts the external statistical environment (R with
// Bioconductor's Biobase) that stores native ExpressionSet objects. The
// Client interface keeps the environment an injectable collaborator: the
// bridge is tested against the in-memory implementation, while RscriptClient
// talks to a real R installation.
package statenv

import (
	"context"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// Object is the typed view of a native ExpressionSet container: one or more
// named assay matrices plus feature and phenotype tables.
type Object struct {
	Assays     map[string]*dataframe.Matrix
	Features   *dataframe.Frame
	Phenotypes *dataframe.Frame
}

// Client loads and saves native statistical-environment objects. Both calls
// block until the environment finishes; cancellation goes through ctx.
type Client interface {
	// LoadObject reads the container at path. The container must hold
	// exactly one ExpressionSet object.
	LoadObject(ctx context.Context, path string) (*Object, error)

	// SaveObject writes obj to path as a native ExpressionSet. Only the
	// single default assay is written.
	SaveObject(ctx context.Context, obj *Object, path string) error
}
