package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/scene"
)

// sunKey is the directional light state at one time of day.
type sunKey struct {
	t         float32 // normalised time 0..1
	color     mgl32.Vec3
	intensity float32
	clear     mgl32.Vec4 // background behind the IBL cube
}

// sunKeys are ordered by t and wrap (0 == 1).
var sunKeys = []sunKey{
	{t: 0.00, color: mgl32.Vec3{1.00, 0.98, 0.92}, intensity: 1.00, clear: mgl32.Vec4{0.58, 0.75, 0.95, 1}}, // noon
	{t: 0.22, color: mgl32.Vec3{1.00, 0.65, 0.25}, intensity: 0.75, clear: mgl32.Vec4{0.90, 0.52, 0.18, 1}}, // golden hour
	{t: 0.30, color: mgl32.Vec3{0.70, 0.40, 0.55}, intensity: 0.20, clear: mgl32.Vec4{0.50, 0.22, 0.28, 1}}, // dusk
	{t: 0.50, color: mgl32.Vec3{0.40, 0.45, 0.65}, intensity: 0.08, clear: mgl32.Vec4{0.04, 0.04, 0.08, 1}}, // midnight
	{t: 0.78, color: mgl32.Vec3{1.00, 0.60, 0.28}, intensity: 0.60, clear: mgl32.Vec4{0.88, 0.45, 0.22, 1}}, // dawn
}

// DayNight swings the scene's directional light around the X axis and
// tints it from sunKeys.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool
	// Strength scales the sampled intensity into light units.
	Strength float32
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120, Active: true, Strength: 10}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active || dn.Speed <= 0 {
		return
	}
	dn.Time += dt / dn.Speed
	for dn.Time >= 1 {
		dn.Time--
	}
}

// Apply writes direction and color into light.
func (dn *DayNight) Apply(light *scene.DirectionalLightComponent) {
	k := sampleSun(dn.Time)
	light.Direction = sunDirection(dn.Time)
	light.Color = k.color.Mul(k.intensity * dn.Strength)
}

// ClearColor is the sky tint for the current time.
func (dn *DayNight) ClearColor() mgl32.Vec4 { return sampleSun(dn.Time).clear }

// sunDirection points straight down at noon and straight up at midnight.
func sunDirection(t float32) mgl32.Vec3 {
	angle := float64(t) * 2 * math.Pi
	return mgl32.Vec3{0, -float32(math.Cos(angle)), -float32(math.Sin(angle))}
}

// sampleSun interpolates between the two keys surrounding t.
func sampleSun(t float32) sunKey {
	n := len(sunKeys)
	for i := 0; i < n; i++ {
		a, b := sunKeys[i], sunKeys[(i+1)%n]
		tb := b.t
		if i == n-1 {
			tb = 1 // last key wraps to noon
		}
		if t >= a.t && t < tb {
			f := (t - a.t) / (tb - a.t)
			return sunKey{
				t:         t,
				color:     lerp3(a.color, b.color, f),
				intensity: a.intensity + (b.intensity-a.intensity)*f,
				clear:     lerp4(a.clear, b.clear, f),
			}
		}
	}
	return sunKeys[0]
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 { return a.Add(b.Sub(a).Mul(t)) }
func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 { return a.Add(b.Sub(a).Mul(t)) }
