// Package grove is a retained-mode 2D scene-graph runtime for [Ebitengine]
// built around composable actions.
//
// Grove provides the node tree, the transform hierarchy and a small sprite
// renderer, and drives time through three pieces: a [schedule.Scheduler] for
// per-frame updates and interval timers, an [action.Manager] that advances
// every running action, and a [Director] that ticks both once per frame and
// manages the scene stack.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	d := grove.NewDirector(grove.DefaultConfig())
//	scene := grove.NewScene()
//	// ... add nodes ...
//	d.RunWithScene(scene)
//	grove.Run(d)
//
// For full control, a Director is an [ebiten.Game]; tests and tools can call
// [Director.Tick] directly with any dt.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
//
//	box := grove.NewRect("box", 80, 40, grove.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	box.SetPosition(100, 50)
//	scene.Root().AddChild(box)
//
// # Actions
//
// Any node can run actions. Actions requested before the node joins the
// running scene are queued and start when it does; a node that leaves the
// scene has its actions and timers paused until it comes back.
//
//	box.RunAction(action.NewSequence(
//		action.NewMoveBy(1, 200, 0),
//		action.NewEase(action.NewFadeOut(0.5), ease.OutCubic),
//	))
//
// Nodes also schedule per-frame updates ([Node.ScheduleUpdate]) and keyed
// timers ([Node.Schedule], [Node.ScheduleOnce]).
//
// # Scripts
//
// Named actions can be defined in YAML and tuned while the game runs. See
// package script and [Director.LoadScripts].
//
// Configuration is read from GROVE_* environment variables by [LoadConfig].
// Action lifecycle events can be bridged into a [Donburi] world with the
// grove/ecs module.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package grove
