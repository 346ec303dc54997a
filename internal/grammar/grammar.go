// Package grammar implements the primitive set: the weighted, arity-aware
// collection of grammar symbols the tree creators sample from.
//
// A PrimitiveSet is a snapshot: creators only read it, and any tuning of
// frequencies or enabled symbols between generations happens on a Clone,
// never concurrently with sampling. This keeps Create calls pure functions
// of their random stream and makes population generation safe to run from
// many goroutines against one shared set.
package grammar

import (
	"fmt"
	"math/rand"

	"github.com/evoreth/symreg/internal/tree"
)

// DefaultFrequency is the weight assigned to every symbol on construction.
const DefaultFrequency = 1

// ErrEmptySet is returned when a primitive set is constructed without any
// symbols.
var ErrEmptySet = fmt.Errorf("grammar: primitive set has no symbols")

// NoQualifyingSymbolError is returned by SampleSymbol when no enabled
// symbol's arity intersects the requested range. A leafless grammar asked
// for arity 0 is the typical caller contract violation that surfaces this.
type NoQualifyingSymbolError struct {
	MinArity int
	MaxArity int
}

func (e *NoQualifyingSymbolError) Error() string {
	return fmt.Sprintf("grammar: no enabled symbol with arity in [%d, %d]", e.MinArity, e.MaxArity)
}

type primitive struct {
	symbol    tree.Symbol
	arity     int
	frequency int
	enabled   bool
}

// PrimitiveSet holds the enabled symbols and their sampling frequencies.
type PrimitiveSet struct {
	prims []primitive
}

// New creates a primitive set over the symbols present in the given mask,
// all enabled with DefaultFrequency.
func New(mask tree.Symbol) (*PrimitiveSet, error) {
	var prims []primitive
	for bit := tree.Symbol(1); bit <= mask && bit != 0; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		prims = append(prims, primitive{
			symbol:    bit,
			arity:     tree.SymbolArity(bit),
			frequency: DefaultFrequency,
			enabled:   true,
		})
	}
	if len(prims) == 0 {
		return nil, ErrEmptySet
	}
	return &PrimitiveSet{prims: prims}, nil
}

// Clone returns an independent copy. Frequency and enablement changes on
// the clone do not affect the original.
func (p *PrimitiveSet) Clone() *PrimitiveSet {
	prims := make([]primitive, len(p.prims))
	copy(prims, p.prims)
	return &PrimitiveSet{prims: prims}
}

// SampleSymbol draws a node for an enabled symbol whose arity lies in
// [minArity, maxArity], weighted by the frequency table.
func (p *PrimitiveSet) SampleSymbol(r *rand.Rand, minArity, maxArity int) (tree.Node, error) {
	total := 0
	for i := range p.prims {
		if p.prims[i].qualifies(minArity, maxArity) {
			total += p.prims[i].frequency
		}
	}
	if total == 0 {
		return tree.Node{}, &NoQualifyingSymbolError{MinArity: minArity, MaxArity: maxArity}
	}
	k := r.Intn(total)
	for i := range p.prims {
		if !p.prims[i].qualifies(minArity, maxArity) {
			continue
		}
		k -= p.prims[i].frequency
		if k < 0 {
			return tree.NewNode(p.prims[i].symbol), nil
		}
	}
	// Unreachable: the weights summed to total above.
	return tree.Node{}, &NoQualifyingSymbolError{MinArity: minArity, MaxArity: maxArity}
}

func (pr *primitive) qualifies(minArity, maxArity int) bool {
	return pr.enabled && pr.frequency > 0 && pr.arity >= minArity && pr.arity <= maxArity
}

// FunctionArityLimits returns the smallest and largest arity over all
// enabled function symbols. Both are 0 when no function symbol is enabled.
func (p *PrimitiveSet) FunctionArityLimits() (minArity, maxArity int) {
	for i := range p.prims {
		pr := &p.prims[i]
		if !pr.enabled || pr.frequency <= 0 || pr.arity == 0 {
			continue
		}
		if minArity == 0 || pr.arity < minArity {
			minArity = pr.arity
		}
		if pr.arity > maxArity {
			maxArity = pr.arity
		}
	}
	return minArity, maxArity
}

// IsEnabled reports whether the symbol is present and enabled.
func (p *PrimitiveSet) IsEnabled(s tree.Symbol) bool {
	for i := range p.prims {
		if p.prims[i].symbol == s {
			return p.prims[i].enabled
		}
	}
	return false
}

// Enable marks the symbol as sampleable.
func (p *PrimitiveSet) Enable(s tree.Symbol) { p.setEnabled(s, true) }

// Disable removes the symbol from sampling without forgetting its
// frequency.
func (p *PrimitiveSet) Disable(s tree.Symbol) { p.setEnabled(s, false) }

func (p *PrimitiveSet) setEnabled(s tree.Symbol, enabled bool) {
	for i := range p.prims {
		if p.prims[i].symbol == s {
			p.prims[i].enabled = enabled
			return
		}
	}
}

// SetFrequency adjusts the sampling weight of a symbol. Frequencies at or
// below zero exclude the symbol from sampling.
func (p *PrimitiveSet) SetFrequency(s tree.Symbol, freq int) {
	for i := range p.prims {
		if p.prims[i].symbol == s {
			p.prims[i].frequency = freq
			return
		}
	}
}

// Frequency returns the sampling weight of a symbol, 0 if absent.
func (p *PrimitiveSet) Frequency(s tree.Symbol) int {
	for i := range p.prims {
		if p.prims[i].symbol == s {
			return p.prims[i].frequency
		}
	}
	return 0
}

// EnabledSymbols returns the mask of enabled symbols.
func (p *PrimitiveSet) EnabledSymbols() tree.Symbol {
	var mask tree.Symbol
	for i := range p.prims {
		if p.prims[i].enabled && p.prims[i].frequency > 0 {
			mask |= p.prims[i].symbol
		}
	}
	return mask
}
