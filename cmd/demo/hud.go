package main

import (
	"fmt"

	"batch-render/renderer"
)

// TitleStats accumulates frames and publishes a summary once per interval.
type TitleStats struct {
	Interval float64 // seconds

	base     string
	frames   int
	elapsed  float64
	lastText string
}

func NewTitleStats(base string) *TitleStats {
	return &TitleStats{Interval: 1, base: base}
}

// Frame records one frame of dt seconds. It returns the new title and true
// when an interval has elapsed.
func (ts *TitleStats) Frame(dt float64, s renderer.Stats) (string, bool) {
	ts.frames++
	ts.elapsed += dt
	if ts.elapsed < ts.Interval {
		return ts.lastText, false
	}
	fps := float64(ts.frames) / ts.elapsed
	ts.lastText = fmt.Sprintf("%s | %.0f fps | draws %d | quads %d | spheres %d",
		ts.base, fps, s.DrawCalls(), s.Renderer2D.QuadCount, s.Renderer3D.SphereCount)
	ts.frames, ts.elapsed = 0, 0
	return ts.lastText, true
}
