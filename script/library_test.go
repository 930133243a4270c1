package script

import (
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/grove/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	x, y    float64
	angle   float64
	sx, sy  float64
	opacity float64
	visible bool
}

func newNode() *node { return &node{sx: 1, sy: 1, opacity: 1, visible: true} }

func (n *node) Position() (float64, float64) { return n.x, n.y }
func (n *node) SetPosition(x, y float64)     { n.x, n.y = x, y }
func (n *node) Angle() float64               { return n.angle }
func (n *node) SetAngle(a float64)           { n.angle = a }
func (n *node) Scale() (float64, float64)    { return n.sx, n.sy }
func (n *node) SetScale(sx, sy float64)      { n.sx, n.sy = sx, sy }
func (n *node) Opacity() float64             { return n.opacity }
func (n *node) SetOpacity(a float64)         { n.opacity = a }
func (n *node) IsVisible() bool              { return n.visible }
func (n *node) SetVisible(v bool)            { n.visible = v }

const effects = `
actions:
  slide:
    kind: move_by
    duration: 1
    x: 10
    tag: 4
  pop:
    kind: sequence
    actions:
      - {kind: scale_to, duration: 0.1, scale: 1.2}
      - {kind: scale_to, duration: 0.1, scale: 1}
  pop_twice:
    kind: repeat
    times: 2
    action: {kind: ref, ref: pop}
  turn:
    kind: rotate_by
    duration: 1
    angle: 90
  bounce:
    kind: ease
    ease: out_bounce
    action: {kind: move_by, duration: 1, x: 100}
  soft:
    kind: ease
    ease: in_out
    action: {kind: fade_out, duration: 1}
  spin:
    kind: repeat_forever
    action: {kind: rotate_by, duration: 0.5, angle: 10}
  nudge:
    kind: call
    script: |
      x = x + 4
      rotation = rotation + 90
      opacity = opacity / 2
      visible = false
`

func mustLoad(t *testing.T, src string) *Library {
	t.Helper()
	lib, err := Load([]byte(src))
	require.NoError(t, err)
	return lib
}

func runFor(a action.Action, target action.Target, dt float64, steps int) *action.Manager {
	m := action.NewManager()
	m.SetLogger(log.New(io.Discard, "", 0))
	m.AddAction(a, target, false)
	for range steps {
		m.Update(dt)
	}
	return m
}

func TestLibrary(t *testing.T) {
	lib := mustLoad(t, effects)

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"bounce", "nudge", "pop", "pop_twice", "slide", "soft", "spin", "turn"}, lib.Names())
		assert.True(t, lib.Has("pop"))
		assert.False(t, lib.Has("missing"))
		assert.Equal(t, 8, lib.Len())
	})

	t.Run("builds a running action", func(t *testing.T) {
		a, err := lib.Build("slide")
		require.NoError(t, err)
		assert.Equal(t, 4, a.Tag())

		n := newNode()
		runFor(a, n, 0.5, 1)
		assert.InDelta(t, 5, n.x, 1e-9)
	})

	t.Run("every build is a fresh action", func(t *testing.T) {
		a := lib.MustBuild("slide")
		b := lib.MustBuild("slide")
		assert.NotSame(t, a, b)
	})

	t.Run("composites and references keep their durations", func(t *testing.T) {
		pop := lib.MustBuild("pop").(action.FiniteTimeAction)
		assert.InDelta(t, 0.2, pop.Duration(), 1e-9)

		twice := lib.MustBuild("pop_twice").(action.FiniteTimeAction)
		assert.InDelta(t, 0.4, twice.Duration(), 1e-9)
	})

	t.Run("angles are degrees", func(t *testing.T) {
		n := newNode()
		runFor(lib.MustBuild("turn"), n, 0.5, 2)
		assert.InDelta(t, math.Pi/2, n.angle, 1e-9)
	})

	t.Run("named and rate eases reach their end", func(t *testing.T) {
		n := newNode()
		runFor(lib.MustBuild("bounce"), n, 0.25, 4)
		assert.InDelta(t, 100, n.x, 1e-6)

		runFor(lib.MustBuild("soft"), n, 0.25, 4)
		assert.InDelta(t, 0, n.opacity, 1e-9)
	})

	t.Run("repeat forever stays top level", func(t *testing.T) {
		n := newNode()
		m := runFor(lib.MustBuild("spin"), n, 0.25, 10)
		assert.Equal(t, 1, m.NumberOfRunningActionsInTarget(n))
	})
}

func TestLibraryErrors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		target error
		text   string
	}{
		{"unknown kind", "actions:\n  a: {kind: warp}", ErrUnknownKind, ""},
		{"unknown reference", "actions:\n  a: {kind: ref, ref: b}", ErrUnknownAction, ""},
		{"reference cycle", "actions:\n  a: {kind: ref, ref: b}\n  b: {kind: ref, ref: a}", nil, "cycle"},
		{"negative duration", "actions:\n  a: {kind: delay, duration: -1}", nil, "negative"},
		{"unreversible action", "actions:\n  a: {kind: reverse, action: {kind: move_to, duration: 1}}", nil, "build a"},
		{"forever inside a sequence", "actions:\n  a: {kind: sequence, actions: [{kind: repeat_forever, action: {kind: delay, duration: 1}}]}", nil, "cannot be nested"},
		{"missing children", "actions:\n  a: {kind: spawn}", nil, "needs actions"},
		{"unknown ease", "actions:\n  a: {kind: ease, ease: sideways, action: {kind: delay, duration: 1}}", nil, "unknown ease"},
		{"script compile error", "actions:\n  a: {kind: call, script: 'x = = 1'}", nil, "compile"},
		{"bad yaml", "actions: [", nil, "unmarshal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.src))
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			if tc.text != "" {
				assert.Contains(t, err.Error(), tc.text)
			}
		})
	}

	t.Run("building a missing name", func(t *testing.T) {
		lib := mustLoad(t, effects)
		_, err := lib.Build("missing")
		assert.ErrorIs(t, err, ErrUnknownAction)
	})
}

func TestCallScript(t *testing.T) {
	lib := mustLoad(t, effects)

	t.Run("writes back assigned properties", func(t *testing.T) {
		n := newNode()
		n.x = 1
		runFor(lib.MustBuild("nudge"), n, 0, 1)
		assert.InDelta(t, 5, n.x, 1e-9)
		assert.InDelta(t, math.Pi/2, n.angle, 1e-9)
		assert.InDelta(t, 0.5, n.opacity, 1e-9)
		assert.False(t, n.visible)
		assert.Equal(t, 1.0, n.sx)
	})

	t.Run("runs once per firing", func(t *testing.T) {
		n := newNode()
		a := action.NewRepeat(lib.MustBuild("nudge").(action.FiniteTimeAction), 3)
		runFor(a, n, 0, 1)
		assert.InDelta(t, 12, n.x, 1e-9)
	})

	t.Run("runtime errors fail the action", func(t *testing.T) {
		lib := mustLoad(t, "actions:\n  boom:\n    kind: call\n    script: |\n      z := 0\n      x = 1 / z\n")
		n := newNode()

		m := action.NewManager()
		m.SetLogger(log.New(io.Discard, "", 0))
		var failed error
		m.SetListener(func(e action.Event) {
			if e.Type == action.EventFailed {
				failed = e.Err
			}
		})
		m.AddAction(lib.MustBuild("boom"), n, false)
		m.Update(0)

		assert.True(t, errors.Is(failed, action.ErrActionPanicked))
		assert.Equal(t, 0, m.NumberOfTargets())
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	t.Run("merges definition files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.yaml"), "actions:\n  a: {kind: delay, duration: 1}")
		writeFile(t, filepath.Join(dir, "b.yml"), "actions:\n  b: {kind: ref, ref: a}")
		writeFile(t, filepath.Join(dir, "notes.txt"), "not yaml: [")

		lib, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, lib.Names())
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.yaml"), "actions:\n  a: {kind: delay, duration: 1}")
		writeFile(t, filepath.Join(dir, "b.yaml"), "actions:\n  a: {kind: delay, duration: 2}")

		_, err := LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defined twice")
	})

	t.Run("single file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fx.yaml")
		writeFile(t, path, effects)
		lib, err := LoadFile(path)
		require.NoError(t, err)
		assert.True(t, lib.Has("spin"))

		_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fx.yaml")
	writeFile(t, path, "actions:\n  a: {kind: delay, duration: 1}")

	w, err := Watch(dir)
	require.NoError(t, err)

	_, ok := w.Poll()
	assert.False(t, ok, "no reload before a change")

	writeFile(t, path, "actions:\n  a: {kind: delay, duration: 1}\n  b: {kind: hide}")

	select {
	case lib := <-w.Reloads():
		require.NotNil(t, lib)
		assert.True(t, lib.Has("b"))
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after a change")
	}

	require.NoError(t, w.Close())
	_, open := <-w.Reloads()
	assert.False(t, open, "reloads closed after Close")
	assert.NoError(t, w.Close())
}
