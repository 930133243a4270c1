package grove

import "github.com/phanxgames/grove/action"

// EntityStore is the interface for optional ECS integration.
// When set on a Director, action lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event ActionEvent)
}

// ActionEvent carries an action lifecycle change for the ECS bridge.
type ActionEvent struct {
	Type action.EventType
	// Tag is the action's tag, action.TagInvalid when untagged.
	Tag int
	// EntityID and NodeName identify the target when it is a *Node.
	EntityID uint32
	NodeName string
	// Err is set for action.EventFailed.
	Err error
}

func newActionEvent(e action.Event) ActionEvent {
	ev := ActionEvent{Type: e.Type, Tag: action.TagInvalid, Err: e.Err}
	if e.Action != nil {
		ev.Tag = e.Action.Tag()
	}
	if n, ok := e.Target.(*Node); ok {
		ev.EntityID = n.EntityID
		ev.NodeName = n.Name
	}
	return ev
}
