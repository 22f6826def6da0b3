package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth      int
	Candidates int
	Duration   time.Duration
	Nodes      int
	Leaves     int
	Cutoffs    int
	Fallbacks  int
}

type MoveMetric struct {
	Step   int
	Player string // color name
	SearchMetric
}

type GameMetric struct {
	Players        int
	StartingPlayer string // color name
	Winner         string // color name, empty when the turn cap was reached
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(depth, candidates int)
	AddNode()
	AddLeaf()
	AddCutoff()
	AddFallback()
	Complete() SearchMetric
}

type collector struct {
	depth      int
	candidates int
	startTime  time.Time
	nodes      atomic.Int32
	leaves     atomic.Int32
	cutoffs    atomic.Int32
	fallbacks  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(depth, candidates int) {
	m.startTime = time.Now()
	m.depth = depth
	m.candidates = candidates
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.fallbacks.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddFallback() {
	m.fallbacks.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:      m.depth,
		Candidates: m.candidates,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Leaves:     int(m.leaves.Load()),
		Cutoffs:    int(m.cutoffs.Load()),
		Fallbacks:  int(m.fallbacks.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, candidates int) {}
func (m *dummyCollector) AddNode()                    {}
func (m *dummyCollector) AddLeaf()                    {}
func (m *dummyCollector) AddCutoff()                  {}
func (m *dummyCollector) AddFallback()                {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
