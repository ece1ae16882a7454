package interfaces

import (
	"context"

	"github.com/worklens-io/worklens/pkg/domain/model"
)

// BoardFetcher retrieves the full nested structure of one upstream board.
// A failed call is terminal for that load attempt; there is no retry.
type BoardFetcher interface {
	FetchBoard(ctx context.Context) (*model.Board, error)
}
