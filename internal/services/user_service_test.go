package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToggleActivePipelineFlipsInPlace(t *testing.T) {
	// The toggle runs as one server-side update, so concurrent toggles
	// cannot lose a flip to a stale read.
	pipeline := toggleActivePipeline()
	require.Len(t, pipeline, 1)

	set, ok := pipeline[0].Map()["$set"].(bson.D)
	require.True(t, ok)
	fields := set.Map()
	assert.Equal(t, bson.D{{Key: "$not", Value: "$is_active"}}, fields["is_active"])
	assert.Equal(t, "$NOW", fields["updated_at"])
}
