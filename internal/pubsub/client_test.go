package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeUpdateRatingsRequest(t *testing.T) {
	data, err := Encode(UpdateRatingsRequest{DryRun: true, RequestedBy: "scheduler"})
	require.NoError(t, err)

	var got UpdateRatingsRequest
	require.NoError(t, Decode(data, &got))
	assert.True(t, got.DryRun)
	assert.Equal(t, "scheduler", got.RequestedBy)
}

func TestNewWithoutProjectIsNoop(t *testing.T) {
	c := New("")
	defer c.Close()

	_, ok := c.(*noopClient)
	require.True(t, ok)
	assert.NoError(t, c.SendMessage(context.Background(), EventRatingsUpdated, map[string]int{"games": 2}))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var got UpdateRatingsRequest
	assert.Error(t, Decode([]byte{0xc1}, &got))
}
