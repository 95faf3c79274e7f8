// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
	"k8s.io/klog/v2"
)

// eliminateNoOpConverts bypasses the ConvertDType nodes that existed before the run, whose operand already has the
// destination dtype: e.g. a Convert(Int64->Int32) whose operand was itself converted to Int32.
//
// Converts reading from nodes with multiple outputs are kept, and so are the ones carrying runtime metadata
// (it would be lost from the live graph) and the nodes inserted during the run.
// Bypassed nodes are left in the graph, with no consumers.
func (s *runState) eliminateNoOpConverts() error {
	for _, id := range s.order {
		node := s.g.Node(id)
		if node.OpType() != ops.OpTypeConvertDType || s.inserted.Has(id) {
			continue
		}
		operand := node.Input(0)
		attrs, ok := node.Attrs().(*graph.DTypeAttrs)
		if !ok || s.g.Shape(operand).DType != attrs.DType || s.g.Node(operand.Node).NumOutputs() != 1 {
			continue
		}
		if len(s.g.NodeRTInfo(id)) > 0 {
			klog.V(2).Infof("ConvertPrecision: no-op conversion node #%d kept, it carries runtime metadata", id)
			continue
		}
		output := node.Output(0)
		rewired := 0
		for _, consumer := range s.g.Consumers(output) {
			if err := s.g.SetInput(consumer, operand); err != nil {
				return err
			}
			rewired++
		}
		for outputIdx, value := range s.g.Outputs() {
			if value != output {
				continue
			}
			if err := s.g.SetOutput(outputIdx, operand); err != nil {
				return err
			}
			rewired++
		}
		if rewired > 0 {
			s.changed = true
			s.stats.eliminated++
			klog.V(2).Infof("ConvertPrecision: bypassed no-op conversion node #%d (%d uses rewired to %s)", id, rewired, operand)
		}
	}
	return nil
}
