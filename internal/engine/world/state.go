package world

import "github.com/voxelforge/voxelforge/internal/engine/mesh"

// StateKind enumerates the render-representation states a chunk moves
// through: Unloaded → Queued → Ready(mode) → Transitioning(mode→mode') →
// Ready(mode') → Unloaded.
type StateKind uint8

const (
	StateUnloaded StateKind = iota
	StateQueued
	StateReady
	StateTransitioning
)

// String returns the state name.
func (k StateKind) String() string {
	switch k {
	case StateQueued:
		return "queued"
	case StateReady:
		return "ready"
	case StateTransitioning:
		return "transitioning"
	default:
		return "unloaded"
	}
}

// RenderState is the tagged-variant render representation of a chunk,
// stored as ordinary typed state. Mode is meaningful for StateReady;
// From/To/Progress only for StateTransitioning. Blending the two meshes is
// the renderer's concern; the core only tracks progress.
type RenderState struct {
	Kind     StateKind
	Mode     mesh.Mode
	From, To mesh.Mode
	Progress float32
}

// ready returns a Ready state for the given mode.
func ready(m mesh.Mode) RenderState {
	return RenderState{Kind: StateReady, Mode: m}
}

// transitioning returns a Transitioning state from one mode to another.
func transitioning(from, to mesh.Mode) RenderState {
	return RenderState{Kind: StateTransitioning, From: from, To: to}
}
