package grove

import (
	"github.com/phanxgames/grove/action"
	"github.com/tanema/gween/ease"
)

// The Tween helpers run a single eased action on a node and return it, so it
// can be stopped with Node.StopAction or tagged. Durations are in seconds.

// TweenPosition moves node to (toX, toY).
func TweenPosition(node *Node, toX, toY, duration float64, fn ease.TweenFunc) action.Action {
	return node.RunAction(action.NewEase(action.NewMoveTo(duration, toX, toY), fn))
}

// TweenScale scales node to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY, duration float64, fn ease.TweenFunc) action.Action {
	return node.RunAction(action.NewEase(action.NewScaleTo(duration, toSX, toSY), fn))
}

// TweenColor tints node to the RGB of to and fades it to to.A at the same
// time.
func TweenColor(node *Node, to Color, duration float64, fn ease.TweenFunc) action.Action {
	return node.RunAction(action.NewEase(action.NewSpawn(
		action.NewTintTo(duration, to.R, to.G, to.B),
		action.NewFadeTo(duration, to.A),
	), fn))
}

// TweenAlpha fades node to the given opacity.
func TweenAlpha(node *Node, to, duration float64, fn ease.TweenFunc) action.Action {
	return node.RunAction(action.NewEase(action.NewFadeTo(duration, to), fn))
}

// TweenRotation turns node from its current angle to the given angle in
// radians. Unlike RotateTo it does not take the short way round: from 0 to
// 2π is a full turn.
func TweenRotation(node *Node, to, duration float64, fn ease.TweenFunc) action.Action {
	return node.RunAction(action.NewTween(duration, "rotation", node.Rotation, to, fn))
}
