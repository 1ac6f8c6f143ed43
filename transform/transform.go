// Package transform composes the lifting kernels and quantizer into
// the engine's forward and inverse 2-D wavelet pyramid drivers
// (component D): sizing, topology assembly and the per-channel state
// machine that enforces encode/decode ordering.
package transform

import (
	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/cfmetrics"
	"github.com/gopro/cineform-wavelet/coeff"
)

// State is one channel's position in the forward/inverse lifecycle:
// Empty -> Forwarding -> Full, then on decode Full -> Inverting -> Empty.
// There is one Forwarding and one Inverting state rather than one per
// level; the forward level reached is kept in a separate counter
// (Level), and no level counter is kept while inverting. Transitions are
// driven only by explicit calls; there is no implicit recovery from a
// failed step.
type State int

const (
	StateEmpty State = iota
	StateForwarding
	StateFull
	StateInverting
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateForwarding:
		return "forwarding"
	case StateFull:
		return "full"
	case StateInverting:
		return "inverting"
	default:
		return "unknown"
	}
}

// scratchRowsPerPlane is the worst-case horizontal kernel ring plus
// staging rows the forward/inverse drivers need per scratch buffer, per
// spec.md's transform engine sizing note.
const scratchRowsPerPlane = 18

// Transform is a fixed-capacity, ordered pyramid of wavelet images for
// one channel of one frame group, plus the bookkeeping the forward and
// inverse drivers share.
type Transform struct {
	Topology   Topology
	Precision  Precision
	FrameCount int // 1 for SPATIAL, 2 for FIELD/FIELD-PLUS
	Levels     int // N spatial refinement levels beyond the frame-level wavelet

	SrcWidth, SrcHeight int
	Prescale            [8]int

	// Scratch backs the transient horizontal-pass staging planes every
	// forward/inverse 2-D level needs (lift.Forward2DScratch/
	// Inverse2DScratch); it is never aliased with a wavelet's band
	// storage. It starts at the spec's worst-case ring allocation and
	// grows (and is kept, not freed) the first time a level's actual
	// plane is larger than that, so steady-state frames of the same
	// dimensions never reallocate it.
	Scratch []byte

	// MaxScratchBytes caps how large Scratch may grow; 0 means
	// unbounded. A level whose staging planes would need more than this
	// fails with cferr.TransformMemory instead of growing, for callers
	// operating under a fixed memory budget.
	MaxScratchBytes int

	// RowConsumed tells the forward driver that every wavelet it builds
	// will later be read back one row at a time — by this same
	// Transform's InverseXxx, or by a caller walking Band.Row()
	// sequentially rather than indexing at random — so wavelets should
	// use the stacked strip layout instead of the default interleaved
	// quad layout (coeff.NewStackedWavelet vs coeff.NewQuadWavelet).
	// Leave false for forward-only use (e.g. writing bands straight to
	// a bandfile and never inverting them in this process).
	RowConsumed bool

	Wavelets []*coeff.Wavelet

	state State
	level int // highest level index reached so far

	Metrics *cfmetrics.Counters
}

// New sizes a Transform for the given topology, precision and frame
// dimensions. Per spec.md §4.4: max_band_width is input_width/2 rounded
// up to 16-byte alignment, max_band_height is input_height/2, and the
// scratch buffer's initial allocation holds at least
// scratchRowsPerPlane rows of max_band_width samples — the worst-case
// horizontal-kernel ring for the deepest pyramid levels. Levels whose
// staging planes need more than that (chiefly the frame level, which
// stages a full-height plane rather than a ring) grow it on first use;
// see scratchBytes.
func New(topology Topology, precision Precision, frameWidth, frameHeight, levels int) (*Transform, error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return nil, cferr.New("transform.New", cferr.BadArgument)
	}
	if frameWidth%2 != 0 || frameHeight%2 != 0 {
		return nil, cferr.New("transform.New", cferr.BadArgument)
	}
	if levels < 0 {
		return nil, cferr.New("transform.New", cferr.BadArgument)
	}

	frameCount := 1
	if topology != TopologySpatial {
		frameCount = 2
	}

	maxBandWidthBytes := coeff.AlignUp((frameWidth/2)*coeff.SampleSize, coeff.Alignment)
	scratch := make([]byte, maxBandWidthBytes*scratchRowsPerPlane)

	capacity := 1 + levels
	switch topology {
	case TopologyField:
		capacity = frameCount + 1 + levels // two frame-level wavelets + one temporal + N spatial
	case TopologyFieldPlus:
		capacity = frameCount + 1 + 2*levels // ...+ N spatial over the LL chain + N spatial over the highpass chain
	}

	return &Transform{
		Topology:   topology,
		Precision:  precision,
		FrameCount: frameCount,
		Levels:     levels,
		SrcWidth:   frameWidth,
		SrcHeight:  frameHeight,
		Prescale:   prescaleFor(topology, precision),
		Scratch:    scratch,
		Wavelets:   make([]*coeff.Wavelet, 0, capacity),
		state:      StateEmpty,
		Metrics:    &cfmetrics.Counters{},
	}, nil
}

// State reports the transform's current lifecycle state.
func (t *Transform) State() State { return t.state }

// Level reports the highest forward level index reached so far (0
// before any ForwardXxx call), letting a caller that fails mid-pyramid
// report how far it got without walking t.Wavelets itself.
func (t *Transform) Level() int { return t.level }

// scratchBytes returns a slice of t.Scratch at least need bytes long,
// growing (and retaining) the backing allocation first if necessary.
// A transform only ever grows its scratch once per distinct size it is
// asked to satisfy: every later call at that size or smaller reuses
// the grown buffer, which is what spec.md means by scratch being
// "re-used across frames" rather than rebuilt every level. If
// MaxScratchBytes is set and satisfying need would require growing
// past it, TransformMemory is returned and Scratch is left untouched.
func (t *Transform) scratchBytes(op string, need int) ([]byte, error) {
	if need <= len(t.Scratch) {
		return t.Scratch[:need], nil
	}
	if t.MaxScratchBytes > 0 && need > t.MaxScratchBytes {
		return nil, cferr.New(op, cferr.TransformMemory)
	}
	t.Scratch = make([]byte, need)
	return t.Scratch, nil
}

// Free tears down every wavelet the transform owns and returns it to
// the Empty state. Wavelets read but not owned by this transform (none
// in the current drivers) are left untouched by Wavelet.Free itself.
func (t *Transform) Free() {
	for _, wv := range t.Wavelets {
		wv.Free()
	}
	t.Wavelets = t.Wavelets[:0]
	t.state = StateEmpty
	t.level = 0
}

func (t *Transform) requireState(op string, want State) error {
	if t.state != want {
		return cferr.New(op, cferr.Unexpected)
	}
	return nil
}
