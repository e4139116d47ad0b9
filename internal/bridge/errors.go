// Package bridge converts between the ExpressionSet entity and its two
// external representations: the native R/Bioconductor object format behind
// a statenv.Client, and a DuckDB-backed columnar on-disk store.
package bridge

import "fmt"

// BridgeError reports a load or save that could not complete: a missing
// object or table, an ambiguous container, or a failure in the external
// environment. A failed load never yields a partial ExpressionSet.
type BridgeError struct {
	Op     string // "load rdata", "save rdata", "read store", "write store"
	Path   string
	Detail string
	Err    error
}

func (e *BridgeError) Error() string {
	msg := fmt.Sprintf("bridge %s %s", e.Op, e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BridgeError) Unwrap() error { return e.Err }

// UnsupportedOperationError reports a request outside the bridge's contract,
// such as writing more than one assay.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Op)
}
