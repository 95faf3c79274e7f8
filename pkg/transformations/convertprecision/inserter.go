// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// convertedKey is the key in the graph runtime metadata (graph.Graph.RTInfo) of the values converted by
// ConvertPrecision runs, mapped to the precision pair applied to each of them.
const convertedKey = "ConvertPrecision.converted"

// convertedValues returns the values converted by previous runs on g. The returned map is kept in g, so new
// entries are seen by later runs.
func convertedValues(g *graph.Graph) map[graph.Value]Pair {
	info := g.RTInfo()
	converted, ok := info[convertedKey].(map[graph.Value]Pair)
	if !ok {
		converted = make(map[graph.Value]Pair)
		info[convertedKey] = converted
	}
	return converted
}

// convertKey identifies the conversion of a value to a dtype.
type convertKey struct {
	value graph.Value
	to    dtypes.DType
}

// convertValue returns the output of the ConvertDType node converting value to the dtype to.
// At most one such node is created per run for a given value and dtype.
//
// The new node has no runtime metadata: it is not a copy of the producer.
func (s *runState) convertValue(value graph.Value, to dtypes.DType) (graph.Value, error) {
	key := convertKey{value: value, to: to}
	if converted, found := s.converts[key]; found {
		return converted, nil
	}
	node, err := s.g.AddNode(ops.OpTypeConvertDType, &graph.DTypeAttrs{DType: to}, value)
	if err != nil {
		return graph.Value{}, errors.WithMessagef(err, "inserting conversion of %s to %s", value, to)
	}
	converted := node.Output(0)
	s.converts[key] = converted
	s.converted[converted] = Pair{From: s.g.Shape(value).DType, To: to}
	s.inserted.Insert(node.Id())
	s.changed = true
	s.stats.inserted++
	klog.V(2).Infof("ConvertPrecision: inserted node #%d converting %s from %s to %s",
		node.Id(), value, s.g.Shape(value).DType, to)
	return converted, nil
}
