// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// RTInfo holds runtime metadata attached to a node or to an input port: attributes unrelated to
// types or shapes, like provenance tags. The graph itself never interprets it.
type RTInfo map[string]any

// NodeRTInfo returns the runtime metadata attached to the node, or nil if there is none.
//
// The returned map is owned by the graph: changes to it are visible to later calls.
func (g *Graph) NodeRTInfo(id NodeId) RTInfo {
	return g.nodeRTInfo[id]
}

// SetNodeRTInfo attaches key=value to the runtime metadata of the node.
func (g *Graph) SetNodeRTInfo(id NodeId, key string, value any) {
	info, found := g.nodeRTInfo[id]
	if !found {
		info = make(RTInfo)
		g.nodeRTInfo[id] = info
	}
	info[key] = value
}

// RTInfo returns the runtime metadata attached to the graph itself. Transformations use it to keep
// information across runs.
//
// The returned map is owned by the graph: changes to it are visible to later calls.
func (g *Graph) RTInfo() RTInfo {
	return g.rtInfo
}

// InputRTInfo returns the runtime metadata attached to the input port, or nil if there is none.
//
// It is keyed by the consumer port, so it is kept when the port is rewired with SetInput.
func (g *Graph) InputRTInfo(in Input) RTInfo {
	return g.inputRTInfo[in]
}

// SetInputRTInfo attaches key=value to the runtime metadata of the input port.
func (g *Graph) SetInputRTInfo(in Input, key string, value any) {
	info, found := g.inputRTInfo[in]
	if !found {
		info = make(RTInfo)
		g.inputRTInfo[in] = info
	}
	info[key] = value
}
