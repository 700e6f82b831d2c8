package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

func TestServer_handleBrief(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the envelope for a valid question", func(t *testing.T) {
		mock := &mockBriefService{brief: sampleBrief()}
		server, err := NewServer(&Ports{Brief: mock}, nil)
		require.NoError(t, err)

		input := BriefInput{Question: "How is Globex doing?"}
		_, output, err := server.handleBrief(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "How is Globex doing?", mock.gotQuestion)
		assert.Equal(t, "How is Globex doing?", output.Question)
		assert.Contains(t, output.Answer, "EXECUTIVE BRIEF")
		assert.True(t, output.Polish.Used)
		assert.Equal(t, "gemini-2.0-flash", output.Polish.Model)

		_, parseErr := time.Parse(time.RFC3339, output.GeneratedAt)
		assert.NoError(t, parseErr)
	})

	t.Run("per-source failures ride inside the output", func(t *testing.T) {
		mock := &mockBriefService{brief: sampleBrief()}
		server, err := NewServer(&Ports{Brief: mock}, nil)
		require.NoError(t, err)

		_, output, err := server.handleBrief(ctx, nil, BriefInput{Question: "status?"})

		require.NoError(t, err)
		assert.True(t, output.Sources.ServiceNow.OK)
		assert.False(t, output.Sources.Salesforce.OK)
		assert.Equal(t, "Salesforce login failed", output.Sources.Salesforce.Error)
		assert.True(t, output.Sources.SharePoint.OK)
	})

	t.Run("returns error on an invalid question", func(t *testing.T) {
		mock := &mockBriefService{err: domain.ErrInvalidQuestion}
		server, err := NewServer(&Ports{Brief: mock}, nil)
		require.NoError(t, err)

		_, _, err = server.handleBrief(ctx, nil, BriefInput{Question: "   "})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
	})
}
