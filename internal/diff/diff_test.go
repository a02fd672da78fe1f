package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffPatch_ChangedScalarField(t *testing.T) {
	prev := []byte(`{"cycles":100,"name":"vm0"}`)
	curr := []byte(`{"cycles":200,"name":"vm0"}`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestDiffPatch_AddedAndRemovedKeys(t *testing.T) {
	prev := []byte(`{"a":1,"b":2}`)
	curr := []byte(`{"a":1,"c":3}`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestDiffPatch_NestedObject(t *testing.T) {
	prev := []byte(`{"device":{"reg":[1,2,3]}}`)
	curr := []byte(`{"device":{"reg":[1,9,3]}}`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestDiffPatch_ArrayGrowsAtTail(t *testing.T) {
	prev := []byte(`{"buffer_infos":[{"offset":0,"length":10}]}`)
	curr := []byte(`{"buffer_infos":[{"offset":0,"length":10},{"offset":10,"length":20}]}`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestDiffPatch_ArrayShrinksAtTail(t *testing.T) {
	prev := []byte(`[1,2,3,4]`)
	curr := []byte(`[1,2]`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestDiff_NoChangesProducesEmptyPatch(t *testing.T) {
	doc := []byte(`{"a":1,"b":[1,2,3]}`)

	patch, err := Diff(doc, doc)
	require.NoError(t, err)

	var ops []Op
	require.NoError(t, json.Unmarshal(patch, &ops))
	require.Empty(t, ops)
}

func TestDiff_PreservesLargeIntegerPrecision(t *testing.T) {
	prev := []byte(`{"cycles":9007199254740993}`)
	curr := []byte(`{"cycles":9007199254740994}`)

	patch, err := Diff(prev, curr)
	require.NoError(t, err)

	out, err := Patch(prev, patch)
	require.NoError(t, err)
	require.JSONEq(t, string(curr), string(out))
}

func TestPatch_RejectsOutOfRangeIndex(t *testing.T) {
	prev := []byte(`[1,2]`)
	patch := []byte(`[{"kind":"change","path":[5],"old":2,"new":3}]`)

	_, err := Patch(prev, patch)
	require.Error(t, err)
}
