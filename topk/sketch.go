package topk

import (
	"sync"

	"github.com/keilerkonzept/topk/sliding"
)

// SketchParams configures a sliding top-k sketch over request ticks.
type SketchParams struct {
	// K is how many heavy hitters the sketch tracks.
	K int
	// WindowSize is the number of ticks a request stays counted.
	WindowSize int
	// Width and Depth size the underlying count-min structure.
	Width int
	Depth int
	// TickSize is how many requests advance the window by one tick.
	TickSize uint64
	// MaxSharePercent is the share of the window capacity
	// (WindowSize * TickSize) a single key may consume before it is
	// reported.
	MaxSharePercent int
}

// TopKSketch is a thread-safe wrapper around a sliding sketch that
// reports keys exceeding their fair share of recent traffic. A key is
// reported once; it becomes reportable again after its count decays
// below the threshold.
type TopKSketch struct {
	mu        sync.Mutex
	sketch    *sliding.Sketch
	tickSize  uint64
	tickReq   uint64
	threshold uint32
	reported  map[string]struct{}
}

func New(p SketchParams) *TopKSketch {
	if p.TickSize == 0 {
		p.TickSize = 1000
	}

	instance := sliding.New(p.K, p.WindowSize,
		sliding.WithWidth(p.Width),
		sliding.WithDepth(p.Depth),
	)

	windowCapacity := uint64(p.WindowSize) * p.TickSize
	threshold := uint32(windowCapacity * uint64(p.MaxSharePercent) / 100)

	return &TopKSketch{
		sketch:    instance,
		tickSize:  p.TickSize,
		threshold: threshold,
		reported:  make(map[string]struct{}),
	}
}

// ProcessTick counts one request for key and, on tick boundaries,
// returns the keys newly over threshold. Returns nil between ticks.
func (cs *TopKSketch) ProcessTick(key string) []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.sketch.Incr(key)
	cs.tickReq++

	if cs.tickReq < cs.tickSize {
		return nil
	}
	cs.tickReq = 0
	cs.sketch.Tick()

	var toBlock []string
	for _, item := range cs.sketch.SortedSlice() {
		if item.Count <= cs.threshold {
			// Sorted descending, nothing further qualifies.
			break
		}
		if _, seen := cs.reported[item.Item]; seen {
			continue
		}
		cs.reported[item.Item] = struct{}{}
		toBlock = append(toBlock, item.Item)
	}

	// Keys that decayed out of the window become reportable again.
	for key := range cs.reported {
		if cs.sketch.Count(key) <= cs.threshold {
			delete(cs.reported, key)
		}
	}

	return toBlock
}

// Threshold returns the per-window request count above which a key is
// reported.
func (cs *TopKSketch) Threshold() uint32 {
	return cs.threshold
}
