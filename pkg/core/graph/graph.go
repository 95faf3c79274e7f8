// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package graph implements a small typed dataflow graph IR: nodes are operations (see ops.OpType) that
// consume the outputs of other nodes, and every output has a shape (dtype and dimensions).
//
// Nodes are kept in an arena indexed by NodeId: adding nodes never invalidates existing ids, and
// node ids never change. The graph can be mutated in place by rewiring inputs (Graph.SetInput) and
// changing node attributes, after which the output shapes are re-inferred (Graph.InferNode, Graph.InferShapes).
//
// Graph building methods (Graph.Parameter, Graph.Add, ...) panic on misuse, with an error that can be
// caught with exceptions.TryCatch[error]. The lower level Graph.AddNode returns errors instead.
//
// Graph transformations, like the ones in package convertprecision, are written against this API.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/pkg/errors"
)

// NodeId is a unique identifier of a Node within its Graph. Ids are assigned sequentially and are never reused.
type NodeId int

// Value refers to one output of a node: it is the "edge" of the graph, consumed by the inputs of other nodes.
type Value struct {
	Node   NodeId
	Output int
}

// String implements fmt.Stringer. The first output (the most common) is simply "#<node_id>".
func (v Value) String() string {
	if v.Output == 0 {
		return fmt.Sprintf("#%d", v.Node)
	}
	return fmt.Sprintf("#%d:%d", v.Node, v.Output)
}

// Input refers to one input port of a node: the consumer side of an edge.
type Input struct {
	Node  NodeId
	Index int
}

// String implements fmt.Stringer.
func (in Input) String() string {
	return fmt.Sprintf("#%d[%d]", in.Node, in.Index)
}

// Graph holds the nodes of a computation and its outputs.
//
// It is not safe for concurrent use: transformations must have exclusive access to it.
type Graph struct {
	name    string
	nodes   []*Node
	outputs []Value

	rtInfo      RTInfo
	nodeRTInfo  map[NodeId]RTInfo
	inputRTInfo map[Input]RTInfo
}

// New creates an empty Graph with the given name.
func New(name string) *Graph {
	return &Graph{
		name:        name,
		rtInfo:      make(RTInfo),
		nodeRTInfo:  make(map[NodeId]RTInfo),
		inputRTInfo: make(map[Input]RTInfo),
	}
}

// Name of the graph.
func (g *Graph) Name() string { return g.name }

// NumNodes returns the number of nodes in the graph, including unused ones.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Node returns the node with the given id, or nil if it doesn't exist.
func (g *Graph) Node(id NodeId) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns all nodes of the graph, indexed by their NodeId. It should be treated as read-only.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// checkValue returns an error if v doesn't refer to an existing output.
func (g *Graph) checkValue(v Value) error {
	node := g.Node(v.Node)
	if node == nil {
		return errors.Errorf("value %s refers to a node that doesn't exist in graph %q", v, g.name)
	}
	if v.Output < 0 || v.Output >= node.NumOutputs() {
		return errors.Errorf("value %s refers to output #%d, but node %s has %d outputs", v, v.Output, node.opType, node.NumOutputs())
	}
	return nil
}

// Shape returns the shape of the given value, or an invalid shape if v doesn't refer to an existing output.
func (g *Graph) Shape(v Value) shapes.Shape {
	if g.checkValue(v) != nil {
		return shapes.Invalid()
	}
	return g.nodes[v.Node].outputShapes[v.Output]
}

// AddNode appends a new node to the graph, with the given operation type, attributes and inputs.
//
// The attributes must be of the type expected by opType (e.g.: *ConvertAttrs for ops.OpTypeConvertDType),
// or nil for operations without attributes. The output shapes are inferred from the inputs and attributes,
// and an error is returned if they are not consistent.
func (g *Graph) AddNode(opType ops.OpType, attrs any, inputs ...Value) (*Node, error) {
	if opType <= ops.OpTypeInvalid || opType >= ops.OpTypeLast {
		return nil, errors.Errorf("invalid operation type %s", opType)
	}
	if err := checkNumInputs(opType, len(inputs)); err != nil {
		return nil, err
	}
	for ii, input := range inputs {
		if err := g.checkValue(input); err != nil {
			return nil, errors.WithMessagef(err, "input #%d of %s", ii, opType)
		}
	}
	node := &Node{
		graph:  g,
		id:     NodeId(len(g.nodes)),
		opType: opType,
		inputs: slices.Clone(inputs),
		attrs:  attrs,
	}
	outputShapes, err := g.inferOutputShapes(node)
	if err != nil {
		return nil, errors.WithMessagef(err, "AddNode(%s)", opType)
	}
	node.outputShapes = outputShapes
	g.nodes = append(g.nodes, node)
	return node, nil
}

func checkNumInputs(opType ops.OpType, numInputs int) error {
	expected := opType.NumInputs()
	switch {
	case expected == ops.Variadic && opType == ops.OpTypeConcatenate && numInputs == 0:
		return errors.Errorf("%s requires at least one input", opType)
	case expected != ops.Variadic && expected != numInputs:
		return errors.Errorf("%s takes %d inputs, got %d", opType, expected, numInputs)
	}
	return nil
}

// SetInput rewires the input port in to read from v.
//
// The output shapes of the consumer node are not re-inferred: call InferNode or InferShapes once rewiring
// is done.
func (g *Graph) SetInput(in Input, v Value) error {
	node := g.Node(in.Node)
	if node == nil {
		return errors.Errorf("SetInput(%s): node doesn't exist in graph %q", in, g.name)
	}
	if in.Index < 0 || in.Index >= len(node.inputs) {
		return errors.Errorf("SetInput(%s): node %s has %d inputs", in, node.opType, len(node.inputs))
	}
	if err := g.checkValue(v); err != nil {
		return errors.WithMessagef(err, "SetInput(%s)", in)
	}
	node.inputs[in.Index] = v
	return nil
}

// Consumers returns all input ports that read from v, ordered by node id and input index.
// Graph outputs are not included, see Outputs.
func (g *Graph) Consumers(v Value) []Input {
	var consumers []Input
	for _, node := range g.nodes {
		for idx, input := range node.inputs {
			if input == v {
				consumers = append(consumers, Input{Node: node.id, Index: idx})
			}
		}
	}
	return consumers
}

// Outputs returns a copy of the list of values that are the outputs (results) of the graph.
func (g *Graph) Outputs() []Value {
	return slices.Clone(g.outputs)
}

// SetOutputs sets the outputs (results) of the graph.
func (g *Graph) SetOutputs(outputs ...Value) error {
	for ii, v := range outputs {
		if err := g.checkValue(v); err != nil {
			return errors.WithMessagef(err, "SetOutputs(): output #%d", ii)
		}
	}
	g.outputs = slices.Clone(outputs)
	return nil
}

// SetOutput replaces the output #idx of the graph.
func (g *Graph) SetOutput(idx int, v Value) error {
	if idx < 0 || idx >= len(g.outputs) {
		return errors.Errorf("SetOutput(%d): graph %q has %d outputs", idx, g.name, len(g.outputs))
	}
	if err := g.checkValue(v); err != nil {
		return errors.WithMessagef(err, "SetOutput(%d)", idx)
	}
	g.outputs[idx] = v
	return nil
}

// String converts the Graph to a multiline string with a description of the full graph.
func (g *Graph) String() string {
	if g == nil {
		return "Graph(nil)!?"
	}
	parts := []string{
		fmt.Sprintf("Graph %q: %d nodes, %d outputs", g.name, len(g.nodes), len(g.outputs)),
	}
	for _, node := range g.nodes {
		parts = append(parts, fmt.Sprintf("\t#%d\t%s", node.id, node))
	}
	outputs := make([]string, len(g.outputs))
	for ii, v := range g.outputs {
		outputs[ii] = v.String()
	}
	parts = append(parts, "\toutputs: "+strings.Join(outputs, ", "))
	return strings.Join(parts, "\n") + "\n"
}
