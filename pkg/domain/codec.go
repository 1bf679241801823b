package domain

import (
	"encoding/json"
	"fmt"
)

// ActionEnvelope is the wire form of an Action: a type discriminator plus payload.
type ActionEnvelope struct {
	Type    ActionKind      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeAction serializes an action into its envelope form.
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", a.Kind(), err)
	}
	return json.Marshal(ActionEnvelope{Type: a.Kind(), Payload: payload})
}

// DecodeAction parses an envelope produced by EncodeAction.
func DecodeAction(data []byte) (Action, error) {
	var env ActionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action envelope: %w", err)
	}
	return DecodeActionPayload(env.Type, env.Payload)
}

// DecodeActionPayload builds the action named by kind from its JSON payload.
func DecodeActionPayload(kind ActionKind, payload []byte) (Action, error) {
	var a Action
	switch kind {
	case KindAddCard:
		a = &AddCard{}
	case KindUpdateCard:
		a = &UpdateCard{}
	case KindDeleteCard:
		a = &DeleteCard{}
	case KindRestoreCard:
		a = &RestoreCard{}
	case KindMoveCard:
		a = &MoveCard{}
	case KindReorderCards:
		a = &ReorderCards{}
	case KindUndoCard:
		a = &UndoCard{}
	case KindAddLane:
		a = &AddLane{}
	case KindUpdateLane:
		a = &UpdateLane{}
	case KindDeleteLane:
		a = &DeleteLane{}
	case KindReorderLanes:
		a = &ReorderLanes{}
	case KindAddProject:
		a = &AddProject{}
	case KindUpdateProject:
		a = &UpdateProject{}
	case KindDeleteProject:
		a = &DeleteProject{}
	case KindSetActiveProject:
		a = &SetActiveProject{}
	case KindLoadState:
		a = &LoadState{}
	case KindSetError:
		a = &SetError{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}

	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", kind, err)
		}
	}
	return Canonical(a), nil
}

// Canonical converts a pointer action (as produced while decoding) into the
// value form the engine switches on. Value actions are returned unchanged.
func Canonical(a Action) Action {
	switch v := a.(type) {
	case *AddCard:
		return *v
	case *UpdateCard:
		return *v
	case *DeleteCard:
		return *v
	case *RestoreCard:
		return *v
	case *MoveCard:
		return *v
	case *ReorderCards:
		return *v
	case *UndoCard:
		return *v
	case *AddLane:
		return *v
	case *UpdateLane:
		return *v
	case *DeleteLane:
		return *v
	case *ReorderLanes:
		return *v
	case *AddProject:
		return *v
	case *UpdateProject:
		return *v
	case *DeleteProject:
		return *v
	case *SetActiveProject:
		return *v
	case *LoadState:
		return *v
	case *SetError:
		return *v
	}
	return a
}
