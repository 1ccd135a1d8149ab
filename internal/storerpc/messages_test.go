package storerpc

import (
	"testing"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestSnapshotMessage(t *testing.T) {
	tests := []struct {
		name string
		snap docstore.Snapshot
	}{
		{name: "absent", snap: docstore.Snapshot{Path: "appData/vaultAmount"}},
		{name: "number", snap: docstore.Snapshot{Path: "appData/vaultAmount", Exists: true, Value: float64(500)}},
		{name: "tree", snap: docstore.Snapshot{Path: "appData/paid", Exists: true, Value: map[string]any{
			"a": true, "b": false,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := SnapshotMessage(tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.snap, SnapshotOf(msg))
		})
	}
}

func TestUpdateRequest_CarriesDeletes(t *testing.T) {
	m, err := docstore.NewMutation(map[string]any{
		"appData/users/a": nil,
		"appData/paid/a":  nil,
		"appData/paid/b":  true,
	})
	require.NoError(t, err)

	req, err := UpdateRequest(m)
	require.NoError(t, err)

	got, err := UpdatesOf(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"appData/users/a": nil,
		"appData/paid/a":  nil,
		"appData/paid/b":  true,
	}, got)
}

func TestUpdatesOf_Missing(t *testing.T) {
	_, err := UpdatesOf(PathRequest("x"))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestSetRequest(t *testing.T) {
	req, err := SetRequest("appData/ganeshaImages/001", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "appData/ganeshaImages/001", PathOf(req))
	assert.Equal(t, "data:image/png;base64,AAAA", ValueOf(req))

	assert.Nil(t, ValueOf(&structpb.Struct{}))
}
