// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
)

// Node represents an operation in the graph: its type, inputs, attributes and the shapes of its outputs.
//
// Node.String allows for a pretty-printing of node. To see the full graph with all nodes, use Graph.String.
type Node struct {
	graph        *Graph
	id           NodeId // id within graph.
	opType       ops.OpType
	inputs       []Value
	outputShapes []shapes.Shape

	// attrs holds the static parameters of the operation, a pointer to one of the *Attrs types, or nil.
	attrs any
}

// Graph that holds this Node.
func (n *Node) Graph() *Graph {
	if n == nil {
		return nil
	}
	return n.graph
}

// Id is the unique id of this node within the Graph.
func (n *Node) Id() NodeId {
	return n.id
}

// OpType returns the type of operation of the node.
func (n *Node) OpType() ops.OpType {
	return n.opType
}

// Attrs returns the attributes of the node: a pointer to the *Attrs type corresponding to its
// operation type, or nil. Transformations may change the attributes in place, and then re-infer
// the output shapes with Graph.InferNode.
func (n *Node) Attrs() any {
	return n.attrs
}

// NumInputs returns the number of inputs of the node.
func (n *Node) NumInputs() int {
	return len(n.inputs)
}

// Input returns the value read by the input #idx.
func (n *Node) Input(idx int) Value {
	return n.inputs[idx]
}

// Inputs returns a copy of the values read by the node inputs.
func (n *Node) Inputs() []Value {
	return slices.Clone(n.inputs)
}

// NumOutputs returns the number of outputs of the node.
func (n *Node) NumOutputs() int {
	return len(n.outputShapes)
}

// Output returns the Value referring to the output #idx of the node.
func (n *Node) Output(idx int) Value {
	if idx < 0 || idx >= n.NumOutputs() {
		exceptions.Panicf("node #%d (%s) has %d outputs, cannot get output #%d", n.id, n.opType, n.NumOutputs(), idx)
	}
	return Value{Node: n.id, Output: idx}
}

// OutputShape returns the shape of the output #idx.
func (n *Node) OutputShape(idx int) shapes.Shape {
	return n.outputShapes[idx]
}

// OutputShapes returns a copy of the shapes of all outputs.
func (n *Node) OutputShapes() []shapes.Shape {
	return slices.Clone(n.outputShapes)
}

// SetOutputShape sets the shape of the output #idx.
//
// It doesn't change the attributes of the node: if they are not changed accordingly, the next shape
// inference (Graph.InferNode or Graph.InferShapes) will revert or reject it.
func (n *Node) SetOutputShape(idx int, shape shapes.Shape) {
	n.outputShapes[idx] = shape
}

// Shape of the Node's output, if it has only one output. Otherwise, it returns an invalid shape.
func (n *Node) Shape() shapes.Shape {
	if n == nil || n.NumOutputs() != 1 {
		return shapes.Invalid()
	}
	return n.outputShapes[0]
}

// DType returns the DType of the node's output, if it has only one output.
func (n *Node) DType() dtypes.DType {
	return n.Shape().DType
}

// String implements fmt.Stringer: the operation type, its attributes, its inputs and the output shapes.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	var sb strings.Builder
	sb.WriteString(n.opType.String())
	if stringer, ok := n.attrs.(fmt.Stringer); ok {
		if attrsStr := stringer.String(); attrsStr != "" {
			sb.WriteString("{" + attrsStr + "}")
		}
	}
	inputs := make([]string, len(n.inputs))
	for ii, input := range n.inputs {
		inputs[ii] = input.String()
	}
	outputs := make([]string, len(n.outputShapes))
	for ii, shape := range n.outputShapes {
		outputs[ii] = shape.String()
	}
	_, _ = fmt.Fprintf(&sb, "(%s) -> %s", strings.Join(inputs, ", "), strings.Join(outputs, ", "))
	return sb.String()
}
