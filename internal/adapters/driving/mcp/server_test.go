package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil brief service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports, nil)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingBriefService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Brief: &mockBriefService{brief: sampleBrief()},
		}
		server, err := NewServer(ports, nil)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil brief service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingBriefService)
	})

	t.Run("brief service is sufficient", func(t *testing.T) {
		ports := &Ports{
			Brief: &mockBriefService{brief: sampleBrief()},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
