// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"slices"

	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/pkg/errors"
)

// TopologicalOrder returns the ids of all nodes of the graph ordered such that every node comes after
// the nodes it reads from.
//
// The order is deterministic: among the nodes ready to be visited, the one with the lowest id comes first.
// So for a graph that was only built by appending nodes (and never rewired), the order is simply the
// order of the ids.
//
// It returns an error if the graph has a cycle.
func (g *Graph) TopologicalOrder() ([]NodeId, error) {
	numNodes := len(g.nodes)
	pendingInputs := make([]int, numNodes)
	consumers := make([][]NodeId, numNodes)
	for _, node := range g.nodes {
		for ii, input := range node.inputs {
			if g.Node(input.Node) == nil {
				return nil, errors.Errorf("node #%d (%s) input #%d refers to unknown node %s", node.id, node.opType, ii, input)
			}
			pendingInputs[node.id]++
			consumers[input.Node] = append(consumers[input.Node], node.id)
		}
	}

	// ready is kept sorted, so the lowest id is always visited first.
	var ready []NodeId
	for _, node := range g.nodes {
		if pendingInputs[node.id] == 0 {
			ready = append(ready, node.id)
		}
	}
	order := make([]NodeId, 0, numNodes)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, consumer := range consumers[id] {
			pendingInputs[consumer]--
			if pendingInputs[consumer] == 0 {
				pos, _ := slices.BinarySearch(ready, consumer)
				ready = slices.Insert(ready, pos, consumer)
			}
		}
	}
	if len(order) != numNodes {
		var inCycle []NodeId
		for id, count := range pendingInputs {
			if count > 0 {
				inCycle = append(inCycle, NodeId(id))
			}
		}
		return nil, errors.Errorf("graph %q has a cycle involving nodes %v", g.name, inCycle)
	}
	return order, nil
}

// expectedNumOutputs returns the number of outputs a node must have given its operation type and attributes.
func expectedNumOutputs(node *Node) int {
	switch node.opType {
	case ops.OpTypeTopK, ops.OpTypeNonMaxSuppression:
		return 2
	case ops.OpTypeCustom:
		if attrs, ok := node.attrs.(*CustomAttrs); ok {
			return len(attrs.OutputShapes)
		}
		return 0
	}
	return 1
}

// Validate checks the structure of the graph: every node has a valid operation type, the expected number of
// inputs and outputs, valid output shapes, every input and graph output refers to an existing node output,
// and the graph is acyclic.
//
// It doesn't re-infer shapes: see InferShapes.
func (g *Graph) Validate() error {
	for id, node := range g.nodes {
		if node == nil || node.id != NodeId(id) || node.graph != g {
			return errors.Errorf("graph %q has a corrupted node at position #%d", g.name, id)
		}
		if node.opType <= ops.OpTypeInvalid || node.opType >= ops.OpTypeLast {
			return errors.Errorf("node #%d has an invalid operation type %s", id, node.opType)
		}
		if err := checkNumInputs(node.opType, len(node.inputs)); err != nil {
			return errors.WithMessagef(err, "node #%d", id)
		}
		if expected := expectedNumOutputs(node); expected != len(node.outputShapes) {
			return errors.Errorf("node #%d (%s) has %d outputs, expected %d", id, node.opType, len(node.outputShapes), expected)
		}
		for ii, shape := range node.outputShapes {
			if !shape.Ok() {
				return errors.Errorf("node #%d (%s) has an invalid shape for output #%d", id, node.opType, ii)
			}
		}
		for ii, input := range node.inputs {
			if err := g.checkValue(input); err != nil {
				return errors.WithMessagef(err, "node #%d (%s) input #%d", id, node.opType, ii)
			}
		}
	}
	for ii, output := range g.outputs {
		if err := g.checkValue(output); err != nil {
			return errors.WithMessagef(err, "graph %q output #%d", g.name, ii)
		}
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return err
	}
	return nil
}
