package grove

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove/action"
	"github.com/phanxgames/grove/schedule"
	"github.com/phanxgames/grove/script"
)

const (
	scriptPollKey      = "grove.scripts"
	scriptPollInterval = 0.25
)

// Director drives the runtime: it owns the Scheduler and the action Manager,
// ticks them once per frame and manages the scene stack. It implements
// ebiten.Game.
//
// A Director and everything it runs belong to the goroutine that ticks it.
type Director struct {
	cfg       Config
	scheduler *schedule.Scheduler
	actions   *action.Manager
	logger    *log.Logger

	// Scene stack. next is applied at the end of the current tick.
	running     *Scene
	next        *Scene
	stack       []*Scene
	sendCleanup bool

	overlay *Node

	paused        bool
	nextDeltaZero bool
	ended         bool
	purged        bool
	totalFrames   uint64
	lastDelta     float64

	store    EntityStore
	listener func(action.Event)

	scripts *script.Library
	watcher *script.Watcher

	debug bool
	frame frameStats
}

// NewDirector creates a director for cfg. Panics if cfg is invalid.
func NewDirector(cfg Config) *Director {
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	d := &Director{
		cfg:       cfg,
		scheduler: schedule.New(),
		actions:   action.NewManager(),
		logger:    log.New(os.Stderr, "[grove] ", 0),
	}
	d.actions.SetListener(d.onActionEvent)
	d.SetDebugMode(cfg.Debug)
	if cfg.ShowStats {
		d.SetOverlay(newStatsNode(d))
	}
	return d
}

// Config returns the director's configuration.
func (d *Director) Config() Config { return d.cfg }

// Scheduler returns the director's scheduler.
func (d *Director) Scheduler() *schedule.Scheduler { return d.scheduler }

// ActionManager returns the director's action manager.
func (d *Director) ActionManager() *action.Manager { return d.actions }

// SetLogger replaces the logger used by the director, its scheduler and its
// action manager.
func (d *Director) SetLogger(l *log.Logger) {
	if l == nil {
		panic("grove: nil logger")
	}
	d.logger = l
	d.scheduler.SetLogger(l)
	d.actions.SetLogger(l)
}

// SetDebugMode enables or disables debug mode for this director only. When
// enabled, disposed-node access within its scenes panics, tree depth and child count warnings are printed, use of the
// scheduler or action manager from a goroutine other than the ticking one
// panics, and timing stats are logged.
func (d *Director) SetDebugMode(enabled bool) {
	d.debug = enabled
	d.scheduler.SetOwnerCheck(enabled)
	d.actions.SetOwnerCheck(enabled)
}

// SetEntityStore sets the optional ECS bridge.
func (d *Director) SetEntityStore(store EntityStore) {
	d.store = store
}

// SetActionListener sets a callback for every action lifecycle event.
func (d *Director) SetActionListener(fn func(action.Event)) {
	d.listener = fn
}

func (d *Director) onActionEvent(e action.Event) {
	if d.listener != nil {
		d.listener(e)
	}
	if d.store != nil {
		d.store.EmitEvent(newActionEvent(e))
	}
}

// --- Frame loop ---

// Tick advances the runtime by dt seconds: the scheduler first, then every
// action, then a pending scene change. dt is capped at Config.MaxDelta.
// While paused only scene changes happen.
func (d *Director) Tick(dt float64) {
	if d.ended {
		d.purge()
		return
	}
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	if d.nextDeltaZero {
		dt = 0
		d.nextDeltaZero = false
	}
	dt = max(dt, 0)
	if d.cfg.MaxDelta > 0 {
		dt = min(dt, d.cfg.MaxDelta)
	}
	d.lastDelta = dt

	if !d.paused {
		d.scheduler.Update(dt)
		d.actions.Update(dt)
	}
	if d.next != nil {
		d.setNextScene()
	}
	d.totalFrames++

	if d.debug {
		d.frame.tickTime = time.Since(t0)
	}
}

// Update implements ebiten.Game. Each call advances one tick of 1/TPS
// seconds. It returns ebiten.Termination once End has been called.
func (d *Director) Update() error {
	d.Tick(1 / float64(ebiten.TPS()))
	if d.ended {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. It draws the running scene, then the overlay.
func (d *Director) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}
	var st drawStats
	if d.running != nil {
		d.running.Draw(screen)
		st = d.running.stats
	}
	if d.overlay != nil {
		var op ebiten.DrawImageOptions
		drawTree(screen, d.overlay, identityTransform, 1, false, &op, &st)
	}
	if d.debug {
		d.frame.drawTime = time.Since(t0)
		d.frame.nodes, d.frame.sprites = st.nodes, st.sprites
		d.debugLog()
	}
}

// Layout implements ebiten.Game with a fixed logical screen size.
func (d *Director) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.cfg.Width, d.cfg.Height
}

// DeltaTime returns the dt used by the last tick.
func (d *Director) DeltaTime() float64 { return d.lastDelta }

// TotalFrames returns the number of ticks since the director was created.
func (d *Director) TotalFrames() uint64 { return d.totalFrames }

// Pause stops the scheduler and every action. Scene changes still apply.
func (d *Director) Pause() { d.paused = true }

// Resume undoes Pause. The first tick after resuming advances by zero so the
// paused wall time is not replayed.
func (d *Director) Resume() {
	if !d.paused {
		return
	}
	d.paused = false
	d.nextDeltaZero = true
}

// IsPaused reports whether the director is paused.
func (d *Director) IsPaused() bool { return d.paused }

// SetNextDeltaTimeZero makes the next tick advance by zero seconds, e.g.
// after a long load.
func (d *Director) SetNextDeltaTimeZero() { d.nextDeltaZero = true }

// End stops the director: the next tick removes every scene, action and
// timer, and Update returns ebiten.Termination.
func (d *Director) End() { d.ended = true }

// IsEnded reports whether End has been called.
func (d *Director) IsEnded() bool { return d.ended }

func (d *Director) purge() {
	if d.purged {
		return
	}
	d.purged = true
	if d.running != nil {
		d.running.onExit()
		d.running.cleanup()
		d.running = nil
	}
	d.next = nil
	d.stack = nil
	if d.overlay != nil {
		d.overlay.exit()
		d.overlay.Cleanup()
		d.overlay = nil
	}
	d.actions.RemoveAllActions()
	d.scheduler.UnscheduleAll()
	d.closeWatcher()
}

// --- Scenes ---

// RunningScene returns the running scene, or nil before the first scene
// change has been applied.
func (d *Director) RunningScene() *Scene { return d.running }

// SceneCount returns the depth of the scene stack.
func (d *Director) SceneCount() int { return len(d.stack) }

// RunWithScene starts the first scene. Panics if a scene is already running.
func (d *Director) RunWithScene(s *Scene) {
	if len(d.stack) > 0 {
		panic("grove: a scene is already running")
	}
	d.PushScene(s)
}

// PushScene suspends the running scene and runs s on top of it. The
// suspended scene keeps its state with its actions and timers paused.
func (d *Director) PushScene(s *Scene) {
	if s == nil {
		panic("grove: cannot push nil scene")
	}
	d.sendCleanup = false
	d.stack = append(d.stack, s)
	d.next = s
}

// PopScene removes the running scene and resumes the one below it. Popping
// the last scene ends the director.
func (d *Director) PopScene() {
	if len(d.stack) == 0 {
		panic("grove: no scene to pop")
	}
	d.stack[len(d.stack)-1] = nil
	d.stack = d.stack[:len(d.stack)-1]
	if len(d.stack) == 0 {
		d.End()
		return
	}
	d.sendCleanup = true
	d.next = d.stack[len(d.stack)-1]
}

// PopToRootScene pops every scene except the bottom one.
func (d *Director) PopToRootScene() {
	if len(d.stack) == 0 {
		panic("grove: no scene to pop")
	}
	for len(d.stack) > 1 {
		top := d.stack[len(d.stack)-1]
		if top != d.running {
			top.cleanup()
		}
		d.stack[len(d.stack)-1] = nil
		d.stack = d.stack[:len(d.stack)-1]
	}
	d.sendCleanup = true
	d.next = d.stack[0]
}

// ReplaceScene swaps the running scene for s. The replaced scene is cleaned
// up. With no running scene this is RunWithScene.
func (d *Director) ReplaceScene(s *Scene) {
	if s == nil {
		panic("grove: cannot replace with nil scene")
	}
	if len(d.stack) == 0 {
		d.RunWithScene(s)
		return
	}
	d.sendCleanup = true
	d.stack[len(d.stack)-1] = s
	d.next = s
}

func (d *Director) setNextScene() {
	next := d.next
	d.next = nil
	if next == d.running {
		return
	}
	if d.running != nil {
		d.running.onExit()
		if d.sendCleanup {
			d.running.cleanup()
		}
	}
	d.running = next
	next.onEnter(d)
}

// SetOverlay sets a node drawn above every scene and kept running across
// scene changes. Pass nil to remove it.
func (d *Director) SetOverlay(n *Node) {
	if d.overlay != nil {
		d.overlay.exit()
		d.overlay.Cleanup()
	}
	d.overlay = n
	if n != nil {
		n.enter(d)
	}
}

// Overlay returns the overlay node.
func (d *Director) Overlay() *Node { return d.overlay }

// --- Scripts ---

// LoadScripts loads the action definitions in dir. With watch the directory
// is reloaded whenever a definition file changes; the new library replaces
// the old one between ticks.
func (d *Director) LoadScripts(dir string, watch bool) error {
	lib, err := script.LoadDir(dir)
	if err != nil {
		return err
	}
	d.scripts = lib
	if !watch {
		return nil
	}
	w, err := script.Watch(dir)
	if err != nil {
		return fmt.Errorf("grove: watch %s: %w", dir, err)
	}
	d.closeWatcher()
	d.watcher = w
	d.scheduler.Schedule(d, scriptPollKey, d.pollScripts, scriptPollInterval, schedule.RepeatForever, 0, false)
	return nil
}

// Scripts returns the loaded action library, or nil.
func (d *Director) Scripts() *script.Library { return d.scripts }

// RunScript builds the named action from the loaded library and runs it on n.
func (d *Director) RunScript(n *Node, name string) (action.Action, error) {
	if d.scripts == nil {
		return nil, fmt.Errorf("grove: no scripts loaded: %w", script.ErrUnknownAction)
	}
	a, err := d.scripts.Build(name)
	if err != nil {
		return nil, err
	}
	return n.RunAction(a), nil
}

func (d *Director) pollScripts(float64) {
	if d.watcher == nil {
		return
	}
	if lib, ok := d.watcher.Poll(); ok && lib != nil {
		d.scripts = lib
		d.logger.Printf("reloaded %d actions", lib.Len())
	}
	select {
	case err, ok := <-d.watcher.Errors():
		if ok && err != nil {
			d.logger.Printf("scripts: %v", err)
		}
	default:
	}
}

func (d *Director) closeWatcher() {
	if d.watcher == nil {
		return
	}
	if err := d.watcher.Close(); err != nil {
		d.logger.Printf("scripts: close watcher: %v", err)
	}
	d.watcher = nil
	d.scheduler.Unschedule(d, scriptPollKey)
}

// --- Window ---

// Run opens a window configured from the director's Config and runs the game
// loop until the window closes or End is called. When Config.ScriptDir is
// set and no scripts are loaded yet, it is loaded and watched first.
func Run(d *Director) error {
	cfg := d.cfg
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ScriptDir != "" && d.scripts == nil {
		if err := d.LoadScripts(cfg.ScriptDir, true); err != nil {
			return err
		}
	}
	defer d.closeWatcher()
	return ebiten.RunGame(d)
}
