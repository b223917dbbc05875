package services

import (
	"context"
	"fmt"
	"log/slog"

	"unmasked_server/metrics"
)

type retrievedContent struct {
	handle ContentHandle
	data   []byte
}

// retrieveAll lists groupID and fetches every handle. A failing retrieval is
// skipped; only a failing listing is returned as an error.
func retrieveAll(ctx context.Context, provider CapabilityProvider, groupID, kind string, logger *slog.Logger) ([]retrievedContent, error) {
	handles, err := provider.ListContentHandles(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list %s content: %w", groupID, err)
	}

	items := make([]retrievedContent, 0, len(handles))
	for _, h := range handles {
		data, err := provider.Retrieve(ctx, groupID, h.Handle)
		if err != nil {
			logger.Debug("skipping content", "group", groupID, "handle", h.Handle, "error", err)
			metrics.SkippedRetrievals.WithLabelValues(kind).Inc()
			continue
		}
		items = append(items, retrievedContent{handle: h, data: data})
	}
	return items, nil
}
