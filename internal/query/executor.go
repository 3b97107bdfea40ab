// Package query builds and runs the catalog's list and detail queries.
package query

import (
	"fmt"

	"github.com/luxcatalog/lux/internal/catalog"
)

// Executor executes list and detail queries against a catalog gateway.
type Executor struct {
	gw catalog.Gateway
}

// NewExecutor creates a new query executor.
func NewExecutor(gw catalog.Gateway) *Executor {
	return &Executor{gw: gw}
}

// StoreError reports a gateway failure during one query stage. It aborts the
// whole request; there is no partial result.
type StoreError struct {
	Stage string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s query: %v", e.Stage, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Stage: stage, Err: err}
}
