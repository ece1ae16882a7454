package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/cli/config"
)

func TestMondayConfigureRequiresCredential(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		cfg := config.Monday{BoardID: "123"}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("missing board id", func(t *testing.T) {
		cfg := config.Monday{APIKey: "secret"}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("configured", func(t *testing.T) {
		cfg := config.Monday{APIKey: "secret", BoardID: "123"}
		client, err := cfg.Configure()
		gt.NoError(t, err)
		gt.NotNil(t, client)
		gt.Equal(t, client.BoardID().String(), "123")
	})
}

func TestMondayConfigureOptionalUnconfigured(t *testing.T) {
	ctx := context.Background()
	var cfg config.Monday

	// Without a credential the client still exists; each fetch fails
	// instead of the process refusing to start.
	client := cfg.ConfigureOptional(ctx)
	gt.NotNil(t, client)

	_, err := client.FetchBoard(ctx)
	gt.Error(t, err)
}
