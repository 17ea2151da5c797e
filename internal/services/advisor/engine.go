// Package advisor implements the allocation engine: catalog filtering and
// risk-tiered allocation of wallet balances across yield pools.
package advisor

import (
	"go.uber.org/zap"
)

// Engine evaluates filter criteria and produces investment plans.
// It holds no mutable state; concurrent calls with different inputs are safe.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an allocation engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}
