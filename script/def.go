// Package script loads named action definitions from YAML so that effects can
// be tuned without recompiling.
//
//	actions:
//	  pop:
//	    kind: sequence
//	    actions:
//	      - {kind: scale_to, duration: 0.1, scale: 1.2}
//	      - {kind: scale_to, duration: 0.1, scale: 1}
//	  wobble:
//	    kind: repeat_forever
//	    action: {kind: rotate_by, duration: 0.5, angle: 10}
//	  drift:
//	    kind: call
//	    script: |
//	      x = x + 4
//	      opacity = opacity * 0.9
//
// A call action runs a tengo script against its target. The script sees the
// target's x, y, rotation (degrees), scale_x, scale_y, opacity and visible
// as variables and whatever it assigns is written back.
//
// A Library is immutable once loaded. Watch reloads a directory whenever a
// definition file changes and hands fresh libraries to the game loop.
package script

import "errors"

var (
	// ErrUnknownAction is returned when a name is not defined in the library.
	ErrUnknownAction = errors.New("script: unknown action")
	// ErrUnknownKind is returned for a definition with an unsupported kind.
	ErrUnknownKind = errors.New("script: unknown kind")
)

// Def is one action definition. Which fields apply depends on Kind. Angles
// are in degrees.
type Def struct {
	Kind string `yaml:"kind"`
	Tag  *int   `yaml:"tag,omitempty"`

	Duration float64 `yaml:"duration,omitempty"`

	X      float64  `yaml:"x,omitempty"`
	Y      float64  `yaml:"y,omitempty"`
	Angle  float64  `yaml:"angle,omitempty"`
	Scale  *float64 `yaml:"scale,omitempty"`
	ScaleX *float64 `yaml:"scale_x,omitempty"`
	ScaleY *float64 `yaml:"scale_y,omitempty"`

	Opacity float64 `yaml:"opacity,omitempty"`
	R       float64 `yaml:"r,omitempty"`
	G       float64 `yaml:"g,omitempty"`
	B       float64 `yaml:"b,omitempty"`

	Height float64 `yaml:"height,omitempty"`
	Jumps  int     `yaml:"jumps,omitempty"`
	Blinks int     `yaml:"blinks,omitempty"`
	Flip   *bool   `yaml:"flip,omitempty"`

	Points  [][2]float64 `yaml:"points,omitempty"`
	Tension float64      `yaml:"tension,omitempty"`

	Times int     `yaml:"times,omitempty"`
	Speed float64 `yaml:"speed,omitempty"`
	Ease  string  `yaml:"ease,omitempty"`
	Rate  float64 `yaml:"rate,omitempty"`

	Ref    string `yaml:"ref,omitempty"`
	Script string `yaml:"script,omitempty"`

	Action  *Def  `yaml:"action,omitempty"`
	Actions []Def `yaml:"actions,omitempty"`
}

// document is the top-level shape of a definition file.
type document struct {
	Actions map[string]Def `yaml:"actions"`
}

func (d Def) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if d.Scale != nil {
		sx, sy = *d.Scale, *d.Scale
	}
	if d.ScaleX != nil {
		sx = *d.ScaleX
	}
	if d.ScaleY != nil {
		sy = *d.ScaleY
	}
	return sx, sy
}

func (d Def) flip() bool {
	return d.Flip == nil || *d.Flip
}

func (d Def) jumps() int {
	return max(d.Jumps, 1)
}

func (d Def) times() int {
	return max(d.Times, 1)
}
