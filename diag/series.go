// Package diag samples published frames into time series and reports them
// as terminal plots or PNG charts for headless runs.
package diag

import (
	"math"

	"github.com/lixenwraith/particle3d/engine"
	"github.com/lixenwraith/particle3d/vmath"
)

// Sample is the aggregate state of one frame
type Sample struct {
	Tick      uint64
	Kinetic   float64 // Σ ½·m·|v|²
	MeanSpeed float64
	MaxSpeed  float64
	Spread    float64 // rms distance from the centroid
}

// Measure reduces f to a Sample
func Measure(f *engine.Frame) Sample {
	s := Sample{Tick: f.Tick}
	n := f.Len()
	if n == 0 {
		return s
	}

	var centroid vmath.Vec3F
	var speedSum float64
	for i := range f.Particles {
		p := &f.Particles[i]
		speed := vmath.V3FMag(p.Velocity)
		speedSum += speed
		s.MaxSpeed = max(s.MaxSpeed, speed)
		s.Kinetic += 0.5 * p.Mass * speed * speed
		centroid = vmath.V3FAdd(centroid, p.Position)
	}
	centroid = vmath.V3FScale(centroid, 1/float64(n))
	s.MeanSpeed = speedSum / float64(n)

	var sq float64
	for i := range f.Particles {
		sq += vmath.V3FMagSq(vmath.V3FSub(f.Particles[i].Position, centroid))
	}
	s.Spread = math.Sqrt(sq / float64(n))
	return s
}

// Recorder keeps a Sample every Every ticks
type Recorder struct {
	Every   int
	samples []Sample
}

// NewRecorder creates a recorder sampling every ticks, values below 1 sample every tick
func NewRecorder(every int) *Recorder {
	return &Recorder{Every: max(every, 1)}
}

// Observe records f when its tick falls on the sampling period, reports whether it did
func (r *Recorder) Observe(f *engine.Frame) bool {
	if f == nil || f.Tick%uint64(r.Every) != 0 {
		return false
	}
	if n := len(r.samples); n > 0 && r.samples[n-1].Tick == f.Tick {
		return false
	}
	r.samples = append(r.samples, Measure(f))
	return true
}

func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Column extracts one field of every sample
func Column(samples []Sample, field func(Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = field(s)
	}
	return out
}

func kinetic(s Sample) float64   { return s.Kinetic }
func meanSpeed(s Sample) float64 { return s.MeanSpeed }
func maxSpeed(s Sample) float64  { return s.MaxSpeed }
func spread(s Sample) float64    { return s.Spread }
func tick(s Sample) float64      { return float64(s.Tick) }
