package composer

import (
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/resource"
)

// State is the lifecycle phase of the composition machine.
type State int

const (
	StateIdle State = iota
	StateRendering
	StateReady
	StateError
)

// String returns the state name used in status output and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// RunInfo describes the last successful composition run.
type RunInfo struct {
	Scenes     int
	Codec      ports.Codec
	Container  string
	MediaType  string
	Frames     int
	DurationMs int
	Bytes      int
}

// Status is a point-in-time snapshot of the machine.
type Status struct {
	State  State
	Reason string // failure reason when State is StateError

	// Resource is the published output when State is StateReady.
	Resource *resource.Resource

	// Run carries details of the run that produced Resource.
	Run *RunInfo
}
