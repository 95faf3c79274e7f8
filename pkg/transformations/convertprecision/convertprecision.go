// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package convertprecision implements ConvertPrecision, a graph transformation that lowers (or widens) the
// precision of the values in a graph.
//
// Given a table of precision pairs (e.g.: Int64 -> Int32), it rewrites every output of the configured
// "from" dtypes to its "to" dtype, while preserving the semantics of the graph. For each node it decides
// whether the change can be fused into the node itself (e.g.: a Parameter can simply be declared as Int32),
// or whether an explicit ConvertDType node must be inserted for the consumers that require the new dtype.
//
// Example:
//
//	g := graph.New("model")
//	... build graph ...
//	changed, err := convertprecision.New(dtypes.Int64, dtypes.Int32).Run(g)
//
// The set of operations that support fusing, and under which conditions, is given by BuiltinFuseMap. It can be
// extended or overridden with ConvertPrecision.WithFuseMap.
package convertprecision

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ConvertPrecision transformation. Create it with New or NewWithPrecisions, optionally configure it with the
// With* methods, and then call Run on a graph.
type ConvertPrecision struct {
	precisions         Precisions
	additional         FuseMap
	convertElimination bool
}

// New creates a ConvertPrecision transformation for a single pair of dtypes.
func New(from, to dtypes.DType) *ConvertPrecision {
	return NewWithPrecisions(NewPrecisions(Pair{From: from, To: to}))
}

// NewWithPrecisions creates a ConvertPrecision transformation for the given table of precision pairs.
func NewWithPrecisions(precisions Precisions) *ConvertPrecision {
	return &ConvertPrecision{
		precisions:         precisions,
		convertElimination: true,
	}
}

// WithFuseMap sets an additional map of fuse functions: they take priority over the built-in ones
// (see BuiltinFuseMap) for the same operation type.
//
// It returns itself, so calls can be cascaded.
func (cp *ConvertPrecision) WithFuseMap(additional FuseMap) *ConvertPrecision {
	cp.additional = additional
	return cp
}

// WithConvertElimination configures whether ConvertDType nodes that became no-ops (their input already
// has the converted dtype) are bypassed after the conversion. Default is true.
//
// Only ConvertDType nodes that existed before the run are bypassed, and the bypassed nodes are left in the
// graph, unused.
//
// It returns itself, so calls can be cascaded.
func (cp *ConvertPrecision) WithConvertElimination(enabled bool) *ConvertPrecision {
	cp.convertElimination = enabled
	return cp
}

// Name of the transformation.
func (cp *ConvertPrecision) Name() string {
	return "ConvertPrecision"
}

// Precisions returns the table of precision pairs used by the transformation.
func (cp *ConvertPrecision) Precisions() Precisions {
	return cp.precisions
}

// Run the transformation on the graph g, changing it in place. It returns whether anything was changed.
//
// The graph must not be used concurrently during the run. If an error is returned, the graph may have been
// left partially changed, and it shouldn't be used.
//
// Running it a second time with the same configuration doesn't change the graph.
func (cp *ConvertPrecision) Run(g *graph.Graph) (changed bool, err error) {
	if cp.precisions.Len() == 0 || len(cp.precisions.FromSet()) == 0 {
		klog.V(1).Infof("%s: no precision pairs to convert in graph %q", cp.Name(), g.Name())
		return false, nil
	}
	var runErr error
	err = exceptions.TryCatch[error](func() {
		changed, runErr = cp.run(g)
	})
	if err == nil {
		err = runErr
	}
	if err != nil {
		return false, errors.WithMessagef(err, "%s%s of graph %q", cp.Name(), cp.precisions, g.Name())
	}
	return changed, nil
}

// run implements Run. Panics (e.g. from fuse functions) are caught by Run.
func (cp *ConvertPrecision) run(g *graph.Graph) (bool, error) {
	state, err := newRunState(g, cp.precisions, fuseRegistry{additional: cp.additional})
	if err != nil {
		return false, err
	}
	if err = state.walk(); err != nil {
		return false, err
	}
	if err = state.convertGraphOutputs(); err != nil {
		return false, err
	}
	if cp.convertElimination {
		if err = state.eliminateNoOpConverts(); err != nil {
			return false, err
		}
	}
	if err = validate(g); err != nil {
		return false, err
	}
	klog.V(1).Infof("%s%s of graph %q: %d outputs fused, %d conversions inserted, %d deferred inputs, %d converts eliminated",
		cp.Name(), cp.precisions, g.Name(), state.stats.fused, state.stats.inserted, state.stats.deferred, state.stats.eliminated)
	return state.changed, nil
}

// validate re-infers all shapes and checks the structure of the graph after the transformation.
func validate(g *graph.Graph) error {
	if err := g.InferShapes(); err != nil {
		return errors.WithMessage(err, "shape inference failed after conversion")
	}
	if err := g.Validate(); err != nil {
		return errors.WithMessage(err, "graph validation failed after conversion")
	}
	return nil
}
