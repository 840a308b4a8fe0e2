package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPatch_OmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(CheckPatch{ID: "abc", Method: "post"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","method":"post"}`, string(b))
}

func TestCheckPatch_KeepsZeroTimeoutPointer(t *testing.T) {
	zero := 0
	p := CheckPatch{ID: "abc", TimeoutSeconds: &zero}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","timeoutSeconds":0}`, string(b))
	assert.False(t, p.Empty())
}

func TestEmptyPatches(t *testing.T) {
	assert.True(t, CheckPatch{ID: "abc"}.Empty())
	assert.True(t, UserPatch{Phone: "5551234567"}.Empty())
	assert.False(t, UserPatch{Phone: "5551234567", LastName: "X"}.Empty())
}
