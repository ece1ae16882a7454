package interfaces

import (
	"context"

	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Snapshot operations. PutSnapshot is an upsert on the composite key
	// (BoardID, UpdatedAt): writing twice for the same board and date
	// leaves exactly one record holding the second payload.
	PutSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	GetLatestSnapshot(ctx context.Context, boardID types.BoardID) (*model.Snapshot, error)
	GetSnapshotByDate(ctx context.Context, boardID types.BoardID, date types.SnapshotDate) (*model.Snapshot, error)
	ListSnapshotDates(ctx context.Context, boardID types.BoardID) ([]types.SnapshotDate, error)

	// Chat message operations
	SaveMessage(ctx context.Context, message *model.Message) error
	ListMessages(ctx context.Context, convID types.ConversationID) ([]*model.Message, error)

	// Session operations (demo login)
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// Close closes the repository connection
	Close() error
}
