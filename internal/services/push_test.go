package services

import (
	"context"
	"testing"

	"samaj-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPusher(t *testing.T) {
	p, err := NewPusher(config.APNsConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopPusher{}, p)
	assert.NoError(t, p.Push(context.Background(), "token", "title", "body"))

	_, err = NewPusher(config.APNsConfig{KeyPath: "testdata/missing.p8"})
	assert.Error(t, err)
}
