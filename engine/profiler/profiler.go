package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
)

// Stats is one reporting interval's summary.
type Stats struct {
	FPS            float64
	PassesPerFrame float64
	HeapMB         float64
	AllocRateMB    float64
	SysMB          float64
	GCCount        uint32
	LastPauseUs    uint64
	MaxPauseUs     uint64
}

// Profiler tracks frame rate, passes per frame and memory statistics. It logs one line
// per interval at Notice level so it shows at the default verbosity.
type Profiler struct {
	frameCount     int
	passCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now    func() time.Time
	logger log.Logger
	last   Stats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
		logger:         log.New("profiler"),
	}
}

// Tick should be called once per frame.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - passes: the number of passes the frame ran
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(passes int) bool {
	p.frameCount++
	p.passCount += passes
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		PassesPerFrame: float64(p.passCount) / float64(p.frameCount),
		// Alloc is live heap, Sys is the process footprint obtained from the OS
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if s.GCCount-start > 256 {
			start = s.GCCount - 256
		}
		for i := start; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Noticef("FPS: %.2f | Passes/frame: %.1f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.PassesPerFrame, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.passCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats of the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}
