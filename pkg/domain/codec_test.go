package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCodec_Roundtrip(t *testing.T) {
	actions := []Action{
		AddCard{CardInput: CardInput{LaneID: "l1", Title: "Write spec", Priority: PriorityHigh}},
		UpdateCard{ID: "c1", Patch: CardPatch{Title: Ptr("t"), DueDate: Null[string]()}},
		MoveCard{ID: "c1", ToLaneID: "l2", ToIndex: 3},
		ReorderLanes{LaneIDs: []string{"b", "a"}},
		SetActiveProject{ID: "p2"},
		SetError{Message: Ptr("oops")},
	}

	for _, a := range actions {
		t.Run(string(a.Kind()), func(t *testing.T) {
			data, err := EncodeAction(a)
			require.NoError(t, err)

			decoded, err := DecodeAction(data)
			require.NoError(t, err)
			assert.Equal(t, a, decoded)
		})
	}
}

func TestDecodeAction_Unknown(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"EXPLODE"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDecodeActionPayload_Empty(t *testing.T) {
	a, err := DecodeActionPayload(KindSetError, nil)
	require.NoError(t, err)
	assert.Equal(t, SetError{}, a)
}

func TestDecodeAction_UpdateCardKeepsStructuralFieldsOut(t *testing.T) {
	data := []byte(`{"type":"UPDATE_CARD","payload":{"id":"c1","updates":{"title":"t","laneId":"l9","order":4,"isDeleted":true}}}`)

	a, err := DecodeAction(data)
	require.NoError(t, err)
	assert.Equal(t, UpdateCard{ID: "c1", Patch: CardPatch{Title: Ptr("t")}}, a)
}
