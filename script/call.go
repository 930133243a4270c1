package script

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/phanxgames/grove/action"
)

// props is the slice of target state a call script can read and write.
type props struct {
	x, y     float64
	rotation float64
	scaleX   float64
	scaleY   float64
	opacity  float64
	visible  bool
}

func defaultProps() props {
	return props{scaleX: 1, scaleY: 1, opacity: 1, visible: true}
}

func readProps(t action.Target) props {
	p := defaultProps()
	if n, ok := t.(action.Positioner); ok {
		p.x, p.y = n.Position()
	}
	if n, ok := t.(action.Rotator); ok {
		p.rotation = degrees(n.Angle())
	}
	if n, ok := t.(action.Scaler); ok {
		p.scaleX, p.scaleY = n.Scale()
	}
	if n, ok := t.(action.Opacifier); ok {
		p.opacity = n.Opacity()
	}
	if n, ok := t.(action.Shower); ok {
		p.visible = n.IsVisible()
	}
	return p
}

// writeProps applies every property that changed between before and after.
func writeProps(t action.Target, before, after props) {
	if n, ok := t.(action.Positioner); ok && (after.x != before.x || after.y != before.y) {
		n.SetPosition(after.x, after.y)
	}
	if n, ok := t.(action.Rotator); ok && after.rotation != before.rotation {
		n.SetAngle(radians(after.rotation))
	}
	if n, ok := t.(action.Scaler); ok && (after.scaleX != before.scaleX || after.scaleY != before.scaleY) {
		n.SetScale(after.scaleX, after.scaleY)
	}
	if n, ok := t.(action.Opacifier); ok && after.opacity != before.opacity {
		n.SetOpacity(after.opacity)
	}
	if n, ok := t.(action.Shower); ok && after.visible != before.visible {
		n.SetVisible(after.visible)
	}
}

func (p props) vars() map[string]any {
	return map[string]any{
		"x":        p.x,
		"y":        p.y,
		"rotation": p.rotation,
		"scale_x":  p.scaleX,
		"scale_y":  p.scaleY,
		"opacity":  p.opacity,
		"visible":  p.visible,
	}
}

func compile(src string) (*tengo.Compiled, error) {
	s := tengo.NewScript([]byte(src))
	for name, v := range defaultProps().vars() {
		if err := s.Add(name, v); err != nil {
			return nil, fmt.Errorf("script: add %s: %w", name, err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	c, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return c, nil
}

// run executes a compiled call script against t.
func run(base *tengo.Compiled, t action.Target) error {
	c := base.Clone()
	before := readProps(t)
	for name, v := range before.vars() {
		if err := c.Set(name, v); err != nil {
			return fmt.Errorf("script: set %s: %w", name, err)
		}
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("script: run: %w", err)
	}
	after := props{
		x:        c.Get("x").Float(),
		y:        c.Get("y").Float(),
		rotation: c.Get("rotation").Float(),
		scaleX:   c.Get("scale_x").Float(),
		scaleY:   c.Get("scale_y").Float(),
		opacity:  c.Get("opacity").Float(),
		visible:  c.Get("visible").Bool(),
	}
	writeProps(t, before, after)
	return nil
}

// call returns an instant action that runs src against its target. A script
// error panics inside the action, which the Manager reports as a failure.
func (l *Library) call(src string) (action.Action, error) {
	if src == "" {
		return nil, errors.New("script: call needs a script")
	}
	c, err := l.compiled(src)
	if err != nil {
		return nil, err
	}
	return action.NewCallFuncN(func(t action.Target) {
		if err := run(c, t); err != nil {
			panic(err)
		}
	}), nil
}
