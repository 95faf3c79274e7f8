// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"fmt"
	"strings"

	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pair of dtypes: edges of dtype From are converted to dtype To.
type Pair struct {
	From dtypes.DType `yaml:"from"`
	To   dtypes.DType `yaml:"to"`
}

// String implements fmt.Stringer.
func (p Pair) String() string {
	return fmt.Sprintf("%s->%s", p.From, p.To)
}

// Precisions is the ordered table of Pair used by one run of the pass.
//
// For a given dtype, only the first pair with a matching From is used. It is immutable after construction.
type Precisions struct {
	pairs []Pair
}

// NewPrecisions creates a Precisions table with the given pairs, in order.
//
// Pairs with From == To are kept (they shadow later pairs for the same From), but they never convert anything.
func NewPrecisions(pairs ...Pair) Precisions {
	for _, pair := range pairs {
		if pair.From == pair.To {
			klog.Warningf("ConvertPrecision: precision pair %s has the same from and to dtypes, it will be ignored", pair)
		}
	}
	return Precisions{pairs: append([]Pair(nil), pairs...)}
}

// ParsePrecisions parses a comma-separated list of "from:to" pairs, e.g.: "i64:i32,f16:f32".
// The dtypes can be given by any of the names in dtypes.MapOfNames.
func ParsePrecisions(text string) (Precisions, error) {
	var pairs []Pair
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fromName, toName, found := strings.Cut(part, ":")
		if !found {
			return Precisions{}, errors.Errorf("invalid precision pair %q in %q, it should be formatted as \"from:to\"", part, text)
		}
		from, err := dtypes.FromName(strings.TrimSpace(fromName))
		if err != nil {
			return Precisions{}, errors.WithMessagef(err, "parsing precision pair %q", part)
		}
		to, err := dtypes.FromName(strings.TrimSpace(toName))
		if err != nil {
			return Precisions{}, errors.WithMessagef(err, "parsing precision pair %q", part)
		}
		pairs = append(pairs, Pair{From: from, To: to})
	}
	if len(pairs) == 0 {
		return Precisions{}, errors.Errorf("no precision pairs given in %q", text)
	}
	return NewPrecisions(pairs...), nil
}

// Len returns the number of pairs in the table.
func (p Precisions) Len() int { return len(p.pairs) }

// Pairs returns a copy of the pairs in the table, in order.
func (p Precisions) Pairs() []Pair {
	return append([]Pair(nil), p.pairs...)
}

// Resolve returns the To dtype of the first pair whose From is dtype.
//
// It returns false if there is no such pair, or if the first matching pair has From == To.
func (p Precisions) Resolve(dtype dtypes.DType) (to dtypes.DType, found bool) {
	for _, pair := range p.pairs {
		if pair.From != dtype {
			continue
		}
		if pair.To == dtype {
			return dtypes.InvalidDType, false
		}
		return pair.To, true
	}
	return dtypes.InvalidDType, false
}

// FromSet returns the set of dtypes that are converted by the table.
func (p Precisions) FromSet() dtypes.Set {
	set := dtypes.SetWith()
	for _, pair := range p.pairs {
		if _, found := p.Resolve(pair.From); found {
			set.Insert(pair.From)
		}
	}
	return set
}

// String implements fmt.Stringer.
func (p Precisions) String() string {
	parts := make([]string, len(p.pairs))
	for ii, pair := range p.pairs {
		parts[ii] = pair.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
