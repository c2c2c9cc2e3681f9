// Package storage collects pluggable per-archetype column StorageStrategy
// implementations for github.com/solenoid-ecs/solenoid.
package storage

import ecs "github.com/solenoid-ecs/solenoid"

// NewDenseStrategy re-exports the engine's default column strategy, for
// callers that want to name it explicitly alongside NewSharedStrategy.
func NewDenseStrategy() ecs.StorageStrategy { return ecs.NewDenseStrategy() }
