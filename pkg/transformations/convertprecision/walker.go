// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// runState holds the state of one run of the transformation over a graph.
type runState struct {
	g          *graph.Graph
	precisions Precisions
	registry   fuseRegistry

	// order is the topological order snapshot taken before any change: nodes inserted during the run
	// are not part of it, and are never visited.
	order []graph.NodeId

	// origins holds the dtype each output had before the run, used to resolve its precision pair: an
	// output retyped only because its inputs changed is not converted again.
	// For outputs converted by a previous run with the same pair, it is the dtype before that run.
	origins map[graph.Value]dtypes.DType

	// converted holds the values converted by this or previous runs, see convertedValues.
	converted map[graph.Value]Pair

	// pending holds the outputs with a "from" dtype that could not be fused, mapped to their "to" dtype.
	// Their consumers decide whether they need the conversion.
	pending map[graph.Value]dtypes.DType

	// converts holds the ConvertDType nodes inserted during this run, one per (value, to dtype).
	converts map[convertKey]graph.Value
	inserted sets.Set[graph.NodeId]

	changed bool
	stats   struct {
		fused, inserted, deferred, eliminated int
	}
}

func newRunState(g *graph.Graph, precisions Precisions, registry fuseRegistry) (*runState, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	s := &runState{
		g:          g,
		precisions: precisions,
		registry:   registry,
		order:      order,
		origins:    make(map[graph.Value]dtypes.DType),
		converted:  convertedValues(g),
		pending:    make(map[graph.Value]dtypes.DType),
		converts:   make(map[convertKey]graph.Value),
		inserted:   sets.Make[graph.NodeId](),
	}
	for _, id := range order {
		node := g.Node(id)
		for outputIdx := range node.NumOutputs() {
			value := node.Output(outputIdx)
			s.origins[value] = s.originDType(value, node.OutputShape(outputIdx).DType)
		}
	}
	return s, nil
}

// originDType returns the dtype used to resolve the precision pair of value, whose current dtype is dtype.
func (s *runState) originDType(value graph.Value, dtype dtypes.DType) dtypes.DType {
	pair, found := s.converted[value]
	if !found || pair.To != dtype {
		return dtype
	}
	if to, found := s.precisions.Resolve(pair.From); found && to == pair.To {
		return pair.From
	}
	return dtype
}

// walk visits the nodes in topological order: producers are finalized before their consumers are visited.
func (s *runState) walk() error {
	for _, id := range s.order {
		node := s.g.Node(id)
		if err := s.reconcileInputs(node); err != nil {
			return err
		}
		if err := s.g.InferNode(id); err != nil {
			return errors.WithMessagef(err, "after converting the inputs of node #%d (%s)", id, node.OpType())
		}
		for outputIdx := range node.NumOutputs() {
			if err := s.resolveOutput(node, outputIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveOutput converts the output #outputIdx of node, if its dtype before the run is converted by the
// precisions table: either by fusing the change into the node, or by marking the output as pending.
//
// Only the first matching pair is applied to an output: if its dtype already changed during the run, because
// its inputs were converted, it is not resolved again.
func (s *runState) resolveOutput(node *graph.Node, outputIdx int) error {
	value := node.Output(outputIdx)
	from := s.origins[value]
	to, found := s.precisions.Resolve(from)
	if !found {
		return nil
	}
	if current := node.OutputShape(outputIdx).DType; current != from {
		if current == to {
			s.converted[value] = Pair{From: from, To: to}
		} else {
			klog.V(2).Infof("ConvertPrecision: output #%d of node #%d (%s) was retyped from %s to %s by its inputs, left as is",
				outputIdx, node.Id(), node.OpType(), from, current)
		}
		return nil
	}
	fused, err := s.fuse(node, from, to, outputIdx)
	if err != nil {
		return err
	}
	if fused {
		s.converted[value] = Pair{From: from, To: to}
		s.changed = true
		s.stats.fused++
		return nil
	}
	s.pending[value] = to
	return nil
}

// fuse tries to fuse the conversion of the output into the node itself.
// An error is returned if the fuse function claims success but the node doesn't produce the requested dtype.
func (s *runState) fuse(node *graph.Node, from, to dtypes.DType, outputIdx int) (bool, error) {
	fuseFn := s.registry.lookup(node.OpType())
	if fuseFn == nil {
		klog.V(2).Infof("ConvertPrecision: no fuse for %s output #%d of node #%d, %s->%s will be converted",
			node.OpType(), outputIdx, node.Id(), from, to)
		return false, nil
	}
	if !fuseFn(s.g, node, to, outputIdx) {
		klog.V(2).Infof("ConvertPrecision: fuse of %s->%s rejected by %s output #%d of node #%d",
			from, to, node.OpType(), outputIdx, node.Id())
		return false, nil
	}
	if err := s.g.InferNode(node.Id()); err != nil {
		return false, errors.WithMessagef(err, "fusing %s->%s into node #%d (%s)", from, to, node.Id(), node.OpType())
	}
	if got := node.OutputShape(outputIdx).DType; got != to {
		return false, errors.Errorf("fusing %s->%s into node #%d (%s) output #%d yielded dtype %s",
			from, to, node.Id(), node.OpType(), outputIdx, got)
	}
	klog.V(2).Infof("ConvertPrecision: fused %s->%s into %s output #%d of node #%d", from, to, node.OpType(), outputIdx, node.Id())
	return true, nil
}

// reconcileInputs rewires the inputs of node that read pending values, and that require the converted dtype,
// to read from the conversion of the value instead.
func (s *runState) reconcileInputs(node *graph.Node) error {
	opType := node.OpType()
	deferred := s.defersCoupledInputs(node)
	for inputIdx := range node.NumInputs() {
		value := node.Input(inputIdx)
		to, isPending := s.pending[value]
		if !isPending {
			continue
		}
		from := s.g.Shape(value).DType
		kind := ops.InputKindOf(opType, inputIdx)
		if !requiresConversion(kind, from, to, deferred) {
			if kind == ops.InputCoupled {
				s.stats.deferred++
			}
			klog.V(2).Infof("ConvertPrecision: node #%d (%s) input #%d (%s) keeps reading %s from %s",
				node.Id(), opType, inputIdx, kind, from, value)
			continue
		}
		converted, err := s.convertValue(value, to)
		if err != nil {
			return err
		}
		if err = s.g.SetInput(graph.Input{Node: node.Id(), Index: inputIdx}, converted); err != nil {
			return err
		}
	}
	return nil
}

// defersCoupledInputs returns whether node keeps computing in the "from" dtype: only for integer to integer
// pairs, when all its coupled inputs are pending values of the same "from" dtype, or values already settled
// in that dtype by another pair. The conversion then moves to the node's own output.
func (s *runState) defersCoupledInputs(node *graph.Node) bool {
	var from, to dtypes.DType
	var settled []dtypes.DType
	numPending := 0
	for inputIdx := range node.NumInputs() {
		if ops.InputKindOf(node.OpType(), inputIdx) != ops.InputCoupled {
			continue
		}
		value := node.Input(inputIdx)
		valueFrom := s.g.Shape(value).DType
		valueTo, isPending := s.pending[value]
		if !isPending {
			if !s.isSettled(value, valueFrom) {
				return false
			}
			settled = append(settled, valueFrom)
			continue
		}
		if numPending == 0 {
			from, to = valueFrom, valueTo
		} else if valueFrom != from {
			return false
		}
		numPending++
	}
	if numPending == 0 || !isIntegralPair(from, to) {
		return false
	}
	for _, dtype := range settled {
		if dtype != from {
			return false
		}
	}
	return true
}

// isSettled returns whether value, of the given dtype, is the result of a conversion by a precision pair.
// E.g.: the Int32 result of Int64->Int32, which is not converted again by a chained Int32->Int16.
func (s *runState) isSettled(value graph.Value, dtype dtypes.DType) bool {
	pair, found := s.converted[value]
	return found && pair.To == dtype
}

// requiresConversion returns whether an input of the given kind, reading a pending value, must be converted.
func requiresConversion(kind ops.InputKind, from, to dtypes.DType, deferred bool) bool {
	switch kind {
	case ops.InputPassthrough, ops.InputBoolean:
		return false
	case ops.InputIndices, ops.InputIndependent:
		return !isIntegralPair(from, to)
	case ops.InputCoupled:
		return !deferred
	}
	return true
}

// convertGraphOutputs converts the graph outputs that are still pending values.
func (s *runState) convertGraphOutputs() error {
	for outputIdx, value := range s.g.Outputs() {
		to, isPending := s.pending[value]
		if !isPending {
			continue
		}
		converted, err := s.convertValue(value, to)
		if err != nil {
			return err
		}
		if err = s.g.SetOutput(outputIdx, converted); err != nil {
			return err
		}
	}
	return nil
}
