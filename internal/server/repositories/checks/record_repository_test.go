package checks

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/server/models"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/badgerstore"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	r := NewRecordRepository(s)
	c := &models.Check{
		ID: "abcdefghij0123456789", UserPhone: "5551234567", Protocol: "https",
		URL: "example.com", Method: "get", SuccessCodes: []int{200, 201}, TimeoutSeconds: 3,
	}

	require.NoError(t, r.Create(ctx, c))

	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("check mismatch (-want +got):\n%s", diff)
	}

	c.Method = "post"
	require.NoError(t, r.Update(ctx, c))

	require.NoError(t, r.Delete(ctx, c.ID))
	_, err = r.Get(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Update(ctx, c), common.ErrorNotFound)
}
