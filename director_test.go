package grove

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove/action"
	"github.com/phanxgames/grove/script"
)

// newRunning creates a director whose running scene is s. The first tick
// applies the scene change.
func newRunning(t *testing.T, s *Scene) *Director {
	t.Helper()
	d := NewDirector(DefaultConfig())
	d.SetLogger(log.New(&bytes.Buffer{}, "", 0))
	d.RunWithScene(s)
	d.Tick(0)
	if d.RunningScene() != s {
		t.Fatal("scene should be running after the first tick")
	}
	return d
}

func TestNewDirectorInvalidConfigPanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TPS = 0
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid config")
		}
	}()
	NewDirector(cfg)
}

func TestDirectorRunWithScene(t *testing.T) {
	d := NewDirector(DefaultConfig())
	s := NewScene()
	child := NewContainer("child")
	s.Root().AddChild(child)

	d.RunWithScene(s)
	if d.RunningScene() != nil {
		t.Error("scene change should wait for the next tick")
	}
	d.Tick(0)
	if !s.IsRunning() || !child.IsRunning() {
		t.Error("scene tree should be running after the tick")
	}
	if d.SceneCount() != 1 {
		t.Errorf("SceneCount() = %d, want 1", d.SceneCount())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for a second RunWithScene")
		}
	}()
	d.RunWithScene(NewScene())
}

func TestDirectorTickOrder(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)

	var order []string
	n := NewContainer("n")
	s.Root().AddChild(n)
	n.OnUpdate = func(float64) { order = append(order, "update") }
	n.ScheduleUpdate()
	n.RunAction(action.NewCallFunc(func() { order = append(order, "action") }))

	d.Tick(1.0 / 60)
	if !slices.Equal(order, []string{"update", "action"}) {
		t.Errorf("order = %v, want [update action]", order)
	}
	if d.TotalFrames() != 2 {
		t.Errorf("TotalFrames() = %d, want 2", d.TotalFrames())
	}
}

func TestDirectorDeltaClamp(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)

	var got []float64
	s.Root().OnUpdate = func(dt float64) { got = append(got, dt) }
	s.Root().ScheduleUpdate()

	d.Tick(1)
	d.Tick(-1)
	d.Tick(0.1)
	want := []float64{0.25, 0, 0.1}
	if !slices.Equal(got, want) {
		t.Errorf("dts = %v, want %v", got, want)
	}
	if d.DeltaTime() != 0.1 {
		t.Errorf("DeltaTime() = %v, want 0.1", d.DeltaTime())
	}
}

func TestDirectorPauseResume(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)

	var got []float64
	s.Root().OnUpdate = func(dt float64) { got = append(got, dt) }
	s.Root().ScheduleUpdate()

	d.Pause()
	if !d.IsPaused() {
		t.Error("IsPaused() should be true")
	}
	d.Tick(0.1)
	if len(got) != 0 {
		t.Errorf("paused director ran updates: %v", got)
	}

	d.Resume()
	d.Tick(0.1)
	d.Tick(0.1)
	if !slices.Equal(got, []float64{0, 0.1}) {
		t.Errorf("dts after resume = %v, want [0 0.1]", got)
	}

	d.SetNextDeltaTimeZero()
	d.Tick(0.1)
	if got[len(got)-1] != 0 {
		t.Errorf("dt after SetNextDeltaTimeZero = %v, want 0", got[len(got)-1])
	}
}

func TestDirectorPushPopScene(t *testing.T) {
	s1 := NewScene()
	d := newRunning(t, s1)
	n1 := NewContainer("n1")
	s1.Root().AddChild(n1)
	n1.RunAction(action.NewMoveBy(10, 100, 0))

	s2 := NewScene()
	n2 := NewContainer("n2")
	s2.Root().AddChild(n2)
	n2.RunAction(action.NewMoveBy(10, 100, 0))

	d.PushScene(s2)
	d.Tick(0.1)
	if d.RunningScene() != s2 || d.SceneCount() != 2 {
		t.Fatalf("running = %v, count = %d; want s2, 2", d.RunningScene() == s2, d.SceneCount())
	}
	if s1.IsRunning() || n1.IsRunning() {
		t.Error("pushed-over scene should not be running")
	}
	if !d.ActionManager().IsTargetPaused(n1) {
		t.Error("n1 actions should be paused")
	}

	x, _ := n1.Position()
	d.Tick(0.1)
	if x2, _ := n1.Position(); x2 != x {
		t.Errorf("paused n1 moved from %v to %v", x, x2)
	}
	if x, _ := n2.Position(); x <= 0 {
		t.Error("n2 should be moving")
	}

	d.PopScene()
	d.Tick(0)
	if d.RunningScene() != s1 || d.SceneCount() != 1 {
		t.Fatal("s1 should be running again")
	}
	if n2.NumberOfRunningActions() != 0 {
		t.Error("popped scene should be cleaned up")
	}
	if n1.NumberOfRunningActions() != 1 || d.ActionManager().IsTargetPaused(n1) {
		t.Error("n1 action should be resumed")
	}
}

func TestDirectorReplaceScene(t *testing.T) {
	s1 := NewScene()
	d := newRunning(t, s1)
	n1 := NewContainer("n1")
	s1.Root().AddChild(n1)
	n1.RunAction(action.NewDelayTime(10))
	n1.Schedule("tick", func(float64) {}, 1)

	s2 := NewScene()
	d.ReplaceScene(s2)
	d.Tick(0)
	if d.RunningScene() != s2 || d.SceneCount() != 1 {
		t.Fatal("s2 should replace s1")
	}
	if n1.NumberOfRunningActions() != 0 || n1.IsScheduled("tick") {
		t.Error("replaced scene should be cleaned up")
	}
}

func TestDirectorPopToRootScene(t *testing.T) {
	s1, s2, s3 := NewScene(), NewScene(), NewScene()
	d := newRunning(t, s1)
	mid := NewContainer("mid")
	s2.Root().AddChild(mid)

	d.PushScene(s2)
	d.Tick(0)
	mid.RunAction(action.NewDelayTime(10))
	d.PushScene(s3)
	d.Tick(0)

	d.PopToRootScene()
	d.Tick(0)
	if d.RunningScene() != s1 || d.SceneCount() != 1 {
		t.Fatal("s1 should be running")
	}
	if mid.NumberOfRunningActions() != 0 {
		t.Error("intermediate scene should be cleaned up")
	}
}

func TestDirectorPopLastSceneEnds(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	n := NewContainer("n")
	s.Root().AddChild(n)
	n.RunAction(action.NewDelayTime(10))

	d.PopScene()
	if !d.IsEnded() {
		t.Fatal("popping the last scene should end the director")
	}
	if err := d.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update() = %v, want ebiten.Termination", err)
	}
	if d.RunningScene() != nil {
		t.Error("RunningScene() should be nil after end")
	}
	if d.ActionManager().NumberOfTargets() != 0 {
		t.Errorf("NumberOfTargets() = %d, want 0", d.ActionManager().NumberOfTargets())
	}
	if n.IsRunning() {
		t.Error("node should not be running after end")
	}
}

func TestNodeQueuesBeforeEnter(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	s.Root().AddChild(n)

	fired := 0
	a := n.RunAction(action.NewMoveBy(1, 10, 0))
	n.ScheduleOnce("once", func(float64) { fired++ }, 0)
	if n.NumberOfRunningActions() != 1 || !n.IsScheduled("once") {
		t.Fatal("action and timer should be queued")
	}

	d := newRunning(t, s)
	if a.Target() != n {
		t.Error("queued action should start on enter")
	}
	if d.ActionManager().IsTargetPaused(n) || d.Scheduler().IsTargetPaused(n) {
		t.Error("queued work should start unpaused")
	}
	d.Tick(0.5)
	d.Tick(0.5)
	if x, _ := n.Position(); x != 10 {
		t.Errorf("x = %v, want 10", x)
	}
	if fired != 1 {
		t.Errorf("timer fired %d times, want 1", fired)
	}
}

func TestNodeQueueStopAndUnschedule(t *testing.T) {
	n := NewContainer("n")
	a := action.NewDelayTime(1)
	a.SetTag(3)
	n.RunAction(a)
	if got, ok := n.ActionByTag(3); !ok || got != a {
		t.Error("ActionByTag should find the queued action")
	}
	n.StopActionByTag(3)
	if n.NumberOfRunningActions() != 0 {
		t.Error("StopActionByTag should drop the queued action")
	}

	n.Schedule("k", func(float64) {}, 1)
	n.Unschedule("k")
	if n.IsScheduled("k") {
		t.Error("Unschedule should drop the queued timer")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for a queued action run twice")
		}
	}()
	b := action.NewDelayTime(1)
	n.RunAction(b)
	n.RunAction(b)
}

func TestNodeRemoveChildPausesAndResumes(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	n := NewContainer("n")
	s.Root().AddChild(n)
	n.RunAction(action.NewMoveBy(1, 10, 0))

	s.Root().RemoveChild(n, false)
	if n.IsRunning() || !d.ActionManager().IsTargetPaused(n) {
		t.Error("removed node should be paused")
	}
	// Actions run on a detached node start paused.
	n.RunAction(action.NewDelayTime(1))
	if n.NumberOfRunningActions() != 2 {
		t.Errorf("NumberOfRunningActions() = %d, want 2", n.NumberOfRunningActions())
	}

	s.Root().AddChild(n)
	if !n.IsRunning() || d.ActionManager().IsTargetPaused(n) {
		t.Error("re-added node should resume")
	}

	s.Root().RemoveChild(n, true)
	if n.NumberOfRunningActions() != 0 {
		t.Error("cleanup should stop every action")
	}
}

func TestNodeDisposePurges(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	s.Root().AddChild(parent)

	child.RunAction(action.NewDelayTime(1))
	child.Schedule("k", func(float64) {}, 0)
	parent.ScheduleUpdate()

	parent.Dispose()
	if d.ActionManager().NumberOfRunningActionsInTarget(child) != 0 {
		t.Error("disposed child should have no actions")
	}
	if d.Scheduler().IsScheduled(child, "k") || d.Scheduler().IsUpdateScheduled(parent) {
		t.Error("disposed subtree should have no timers")
	}
}

func TestNodeStopActions(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	n := NewContainer("n")
	s.Root().AddChild(n)

	a := n.RunAction(action.NewDelayTime(1))
	b := action.NewDelayTime(1)
	b.SetTag(9)
	n.RunAction(b)

	n.StopAction(a)
	if n.NumberOfRunningActions() != 1 {
		t.Errorf("NumberOfRunningActions() = %d, want 1", n.NumberOfRunningActions())
	}
	if got, ok := n.ActionByTag(9); !ok || got != b {
		t.Error("ActionByTag(9) should find b")
	}
	n.StopActionByTag(9)
	n.RunAction(action.NewDelayTime(1))
	n.StopAllActions()
	if n.NumberOfRunningActions() != 0 || d.ActionManager().NumberOfRunningActionsInTarget(n) != 0 {
		t.Error("StopAllActions should remove everything")
	}
}

func TestNodeScheduleRepeat(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	n := NewContainer("n")
	s.Root().AddChild(n)

	calls := 0
	n.ScheduleRepeat("r", func(float64) { calls++ }, 0.1, 2, 0.2)
	for range 10 {
		d.Tick(0.1)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if n.IsScheduled("r") {
		t.Error("finished timer should be removed")
	}
}

func TestDirectorOverlay(t *testing.T) {
	d := newRunning(t, NewScene())
	overlay := NewContainer("overlay")
	ticks := 0
	overlay.Schedule("count", func(float64) { ticks++ }, 0)

	d.SetOverlay(overlay)
	if !overlay.IsRunning() || d.Overlay() != overlay {
		t.Fatal("overlay should be running")
	}
	d.ReplaceScene(NewScene())
	d.Tick(0.1)
	d.Tick(0.1)
	if ticks != 2 {
		t.Errorf("overlay ticks = %d, want 2", ticks)
	}

	d.SetOverlay(nil)
	if overlay.IsRunning() || overlay.IsScheduled("count") {
		t.Error("removed overlay should be stopped and cleaned up")
	}
}

type recordingStore struct {
	events []ActionEvent
}

func (r *recordingStore) EmitEvent(e ActionEvent) { r.events = append(r.events, e) }

func TestDirectorActionEvents(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	store := &recordingStore{}
	d.SetEntityStore(store)
	var seen []action.EventType
	d.SetActionListener(func(e action.Event) { seen = append(seen, e.Type) })

	n := NewContainer("hero")
	n.EntityID = 42
	s.Root().AddChild(n)
	a := action.NewDelayTime(0.1)
	a.SetTag(7)
	n.RunAction(a)
	d.Tick(0.1)

	want := []action.EventType{action.EventStarted, action.EventFinished}
	if !slices.Equal(seen, want) {
		t.Errorf("listener events = %v, want %v", seen, want)
	}
	if len(store.events) != 2 {
		t.Fatalf("store events = %d, want 2", len(store.events))
	}
	ev := store.events[1]
	if ev.Type != action.EventFinished || ev.Tag != 7 || ev.EntityID != 42 || ev.NodeName != "hero" {
		t.Errorf("event = %+v", ev)
	}
}

const testScripts = `
actions:
  slide:
    kind: move_by
    duration: 1
    x: 40
`

func TestDirectorRunScript(t *testing.T) {
	s := NewScene()
	d := newRunning(t, s)
	n := NewContainer("n")
	s.Root().AddChild(n)

	if _, err := d.RunScript(n, "slide"); !errors.Is(err, script.ErrUnknownAction) {
		t.Errorf("RunScript without scripts = %v, want ErrUnknownAction", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fx.yaml"), []byte(testScripts), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.LoadScripts(dir, false); err != nil {
		t.Fatalf("LoadScripts: %v", err)
	}
	if d.Scripts() == nil || !d.Scripts().Has("slide") {
		t.Fatal("slide should be loaded")
	}

	if _, err := d.RunScript(n, "slide"); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	d.Tick(0.25)
	d.Tick(0.25)
	d.Tick(0.25)
	d.Tick(0.25)
	if x, _ := n.Position(); x != 40 {
		t.Errorf("x = %v, want 40", x)
	}

	if _, err := d.RunScript(n, "missing"); !errors.Is(err, script.ErrUnknownAction) {
		t.Errorf("RunScript(missing) = %v, want ErrUnknownAction", err)
	}
}

func TestDirectorLoadScriptsWatch(t *testing.T) {
	d := newRunning(t, NewScene())
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fx.yaml"), []byte(testScripts), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.LoadScripts(dir, true); err != nil {
		t.Fatalf("LoadScripts: %v", err)
	}
	if !d.Scheduler().IsScheduled(d, scriptPollKey) {
		t.Error("watching should schedule the reload poll")
	}
	d.End()
	d.Tick(0)
	if d.watcher != nil {
		t.Error("ending the director should close the watcher")
	}
}

func BenchmarkDirectorTick1kActions(b *testing.B) {
	s := NewScene()
	d := NewDirector(DefaultConfig())
	for range 1000 {
		n := NewContainer("n")
		s.Root().AddChild(n)
		move := action.NewMoveBy(1, 10, 0)
		n.RunAction(action.NewRepeatForever(action.NewSequence(move, move.Reverse())))
	}
	d.RunWithScene(s)
	d.Tick(0)
	b.ReportAllocs()
	for b.Loop() {
		d.Tick(1.0 / 60)
	}
}
