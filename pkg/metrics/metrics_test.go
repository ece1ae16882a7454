package metrics

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManager(t *testing.T) {
	registry := prometheus.NewRegistry()
	manager := NewManager(registry)
	gt.NotNil(t, manager)

	manager.boardFetches.Inc()
	manager.cacheHits.Inc()
	manager.chatCompletions.WithLabelValues("openai", "demo").Inc()

	families, err := registry.Gather()
	gt.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	gt.True(t, names["worklens_board_fetches_total"])
	gt.True(t, names["worklens_snapshot_cache_hits_total"])
	gt.True(t, names["worklens_chat_completions_total"])
}

func TestGlobalRecorders(t *testing.T) {
	// Global recorders must not panic and must land on the shared registry
	RecordBoardFetch()
	RecordBoardFetchError()
	RecordCacheHit()
	RecordCacheMiss()
	RecordChatCompletion("claude", "live")
	RecordChatError("claude")
	RecordExport()
	RecordHTTPRequest("/api/board", "GET", "200")
	RecordHTTPRequestDuration("/api/board", "GET", 0.01)

	families, err := Registry().Gather()
	gt.NoError(t, err)
	gt.True(t, len(families) > 0)
}
