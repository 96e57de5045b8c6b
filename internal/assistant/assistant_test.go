package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripease/config"
)

func TestOfflineAssistant(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, &config.Config{GeminiModel: "gemini-2.0-flash"})

	assert.False(t, a.Online())

	reply := a.Chat(ctx, "Giá vé đi Nam Định bao nhiêu?", "")
	assert.Equal(t, offlineMessage, reply)

	analysis := a.AnalyzeRoute(ctx, "Hà Nội", "Nam Định")
	assert.Equal(t, offlineMessage, analysis)
}
