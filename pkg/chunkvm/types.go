package chunkvm

import (
	"time"

	"github.com/vybium/chunkvm/internal/chunkvm/observe"
)

// Config tunes a VM's optional collaborators. Zero-value fields
// disable the corresponding observer, matching the internal vm.VM's
// own nil-means-disabled convention.
type Config struct {
	JITThreshold int64
	JITTTL       time.Duration
	StackLimit   int

	EnableProfiler bool

	CoherenceMode      observe.CoherenceMode
	CoherenceTolerance float64

	CheckpointBackend CheckpointBackend
	CheckpointEvery   int64 // instructions between checkpoints; 0 disables
}
