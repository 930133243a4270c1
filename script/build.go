package script

import (
	"fmt"
	"math"
	"slices"

	"github.com/phanxgames/grove/action"
	"github.com/tanema/gween/ease"
)

// eases maps definition ease names to gween easing functions.
var eases = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_out_expo":    ease.InOutExpo,
	"in_back":        ease.InBack,
	"out_back":       ease.OutBack,
	"in_out_back":    ease.InOutBack,
	"in_elastic":     ease.InElastic,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
	"in_bounce":      ease.InBounce,
	"out_bounce":     ease.OutBounce,
	"in_out_bounce":  ease.InOutBounce,
}

// builder turns definitions into fresh action trees. refs holds the names
// currently being expanded so that reference cycles are reported instead of
// recursing forever.
type builder struct {
	lib  *Library
	refs []string
}

func (b *builder) build(d Def) (action.Action, error) {
	a, err := b.kind(d)
	if err != nil {
		return nil, err
	}
	if d.Tag != nil {
		a.SetTag(*d.Tag)
	}
	return a, nil
}

// finite builds d and requires the result to have a known duration.
func (b *builder) finite(d Def) (action.FiniteTimeAction, error) {
	a, err := b.build(d)
	if err != nil {
		return nil, err
	}
	f, ok := a.(action.FiniteTimeAction)
	if !ok {
		return nil, fmt.Errorf("script: %s cannot be nested", d.Kind)
	}
	return f, nil
}

// interval builds d and requires the result to be an interval action.
func (b *builder) interval(d Def) (action.IntervalAction, error) {
	a, err := b.build(d)
	if err != nil {
		return nil, err
	}
	ia, ok := a.(action.IntervalAction)
	if !ok {
		return nil, fmt.Errorf("script: %s is not an interval action", d.Kind)
	}
	return ia, nil
}

func (b *builder) child(d Def) (action.FiniteTimeAction, error) {
	if d.Action == nil {
		return nil, fmt.Errorf("script: %s needs an action", d.Kind)
	}
	return b.finite(*d.Action)
}

func (b *builder) children(d Def) ([]action.FiniteTimeAction, error) {
	if len(d.Actions) == 0 {
		return nil, fmt.Errorf("script: %s needs actions", d.Kind)
	}
	out := make([]action.FiniteTimeAction, 0, len(d.Actions))
	for _, c := range d.Actions {
		a, err := b.finite(c)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (b *builder) kind(d Def) (action.Action, error) {
	switch d.Kind {
	case "delay":
		return action.NewDelayTime(d.Duration), nil
	case "move_by":
		return action.NewMoveBy(d.Duration, d.X, d.Y), nil
	case "move_to":
		return action.NewMoveTo(d.Duration, d.X, d.Y), nil
	case "jump_by":
		return action.NewJumpBy(d.Duration, d.X, d.Y, d.Height, d.jumps()), nil
	case "jump_to":
		return action.NewJumpTo(d.Duration, d.X, d.Y, d.Height, d.jumps()), nil
	case "spline_to", "spline_by", "catmull_rom_to", "catmull_rom_by":
		return d.spline()
	case "rotate_by":
		return action.NewRotateBy(d.Duration, radians(d.Angle)), nil
	case "rotate_to":
		return action.NewRotateTo(d.Duration, radians(d.Angle)), nil
	case "scale_by":
		sx, sy := d.scale()
		return action.NewScaleBy(d.Duration, sx, sy), nil
	case "scale_to":
		sx, sy := d.scale()
		return action.NewScaleTo(d.Duration, sx, sy), nil
	case "skew_by":
		return action.NewSkewBy(d.Duration, radians(d.X), radians(d.Y)), nil
	case "skew_to":
		return action.NewSkewTo(d.Duration, radians(d.X), radians(d.Y)), nil
	case "fade_in":
		return action.NewFadeIn(d.Duration), nil
	case "fade_out":
		return action.NewFadeOut(d.Duration), nil
	case "fade_to":
		return action.NewFadeTo(d.Duration, d.Opacity), nil
	case "tint_to":
		return action.NewTintTo(d.Duration, d.R, d.G, d.B), nil
	case "tint_by":
		return action.NewTintBy(d.Duration, d.R, d.G, d.B), nil
	case "blink":
		return action.NewBlink(d.Duration, max(d.Blinks, 1)), nil
	case "show":
		return action.NewShow(), nil
	case "hide":
		return action.NewHide(), nil
	case "toggle":
		return action.NewToggleVisibility(), nil
	case "flip_x":
		return action.NewFlipX(d.flip()), nil
	case "flip_y":
		return action.NewFlipY(d.flip()), nil
	case "place":
		return action.NewPlace(d.X, d.Y), nil
	case "call":
		return b.lib.call(d.Script)
	case "sequence":
		cs, err := b.children(d)
		if err != nil {
			return nil, err
		}
		return action.NewSequence(cs...), nil
	case "spawn":
		cs, err := b.children(d)
		if err != nil {
			return nil, err
		}
		return action.NewSpawn(cs...), nil
	case "repeat":
		c, err := b.child(d)
		if err != nil {
			return nil, err
		}
		return action.NewRepeat(c, d.times()), nil
	case "repeat_forever":
		if d.Action == nil {
			return nil, fmt.Errorf("script: %s needs an action", d.Kind)
		}
		c, err := b.interval(*d.Action)
		if err != nil {
			return nil, err
		}
		return action.NewRepeatForever(c), nil
	case "reverse":
		c, err := b.child(d)
		if err != nil {
			return nil, err
		}
		return c.Reverse(), nil
	case "reverse_time":
		c, err := b.child(d)
		if err != nil {
			return nil, err
		}
		return action.NewReverseTime(c), nil
	case "speed":
		if d.Action == nil {
			return nil, fmt.Errorf("script: %s needs an action", d.Kind)
		}
		c, err := b.build(*d.Action)
		if err != nil {
			return nil, err
		}
		return action.NewSpeed(c, d.Speed), nil
	case "ease":
		return b.ease(d)
	case "ref":
		return b.ref(d.Ref)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
}

func (b *builder) ease(d Def) (action.Action, error) {
	if d.Action == nil {
		return nil, fmt.Errorf("script: %s needs an action", d.Kind)
	}
	c, err := b.interval(*d.Action)
	if err != nil {
		return nil, err
	}
	rate := d.Rate
	if rate == 0 {
		rate = 2
	}
	switch d.Ease {
	case "in":
		return action.NewEaseIn(c, rate), nil
	case "out":
		return action.NewEaseOut(c, rate), nil
	case "in_out":
		return action.NewEaseInOut(c, rate), nil
	}
	fn, ok := eases[d.Ease]
	if !ok {
		return nil, fmt.Errorf("script: unknown ease %q", d.Ease)
	}
	return action.NewEase(c, fn), nil
}

func (b *builder) ref(name string) (action.Action, error) {
	if slices.Contains(b.refs, name) {
		return nil, fmt.Errorf("script: reference cycle through %q", name)
	}
	d, ok := b.lib.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	b.refs = append(b.refs, name)
	defer func() { b.refs = b.refs[:len(b.refs)-1] }()
	return b.build(d)
}

func (d Def) spline() (action.Action, error) {
	if len(d.Points) == 0 {
		return nil, fmt.Errorf("script: %s needs points", d.Kind)
	}
	pts := make([]action.Point, len(d.Points))
	for i, p := range d.Points {
		pts[i] = action.Point{X: p[0], Y: p[1]}
	}
	switch d.Kind {
	case "spline_to":
		return action.NewCardinalSplineTo(d.Duration, pts, d.Tension), nil
	case "spline_by":
		return action.NewCardinalSplineBy(d.Duration, pts, d.Tension), nil
	case "catmull_rom_to":
		return action.NewCatmullRomTo(d.Duration, pts), nil
	}
	return action.NewCatmullRomBy(d.Duration, pts), nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
