package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	snapshotsCollection = "board_snapshots"
	messagesCollection  = "chat_messages"
	sessionsCollection  = "sessions"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on credential problems; an empty collection is fine
	_, err = client.Collection(snapshotsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

// snapshotDocID builds the composite document ID. Using the composite key
// as the document ID makes Set an atomic upsert: two writes for the same
// (board, date) can never produce duplicate records.
func snapshotDocID(boardID types.BoardID, date types.SnapshotDate) string {
	return fmt.Sprintf("%s_%s", boardID, date)
}

// PutSnapshot inserts or replaces the snapshot for (boardID, date)
func (f *Firestore) PutSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is nil")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	docID := snapshotDocID(snapshot.BoardID, snapshot.UpdatedAt)
	_, err := f.client.Collection(snapshotsCollection).Doc(docID).Set(ctx, snapshot)
	if err != nil {
		return goerr.Wrap(err, "failed to save snapshot to firestore",
			goerr.V("boardID", snapshot.BoardID), goerr.V("date", snapshot.UpdatedAt))
	}
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a board
func (f *Firestore) GetLatestSnapshot(ctx context.Context, boardID types.BoardID) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	// Query without OrderBy to avoid requiring a composite index; sort in
	// memory instead. Day-granularity snapshots keep the result set small.
	iter := f.client.Collection(snapshotsCollection).
		Where("BoardID", "==", boardID.String()).
		Documents(ctx)
	defer iter.Stop()

	var latest *model.Snapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate snapshots")
		}

		var snap model.Snapshot
		if err := doc.DataTo(&snap); err != nil {
			return nil, goerr.Wrap(err, "failed to decode snapshot")
		}
		if latest == nil || snap.UpdatedAt > latest.UpdatedAt {
			latest = &snap
		}
	}

	if latest == nil {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for board",
			goerr.V("boardID", boardID))
	}
	return latest, nil
}

// GetSnapshotByDate returns the snapshot cached under an exact date
func (f *Firestore) GetSnapshotByDate(ctx context.Context, boardID types.BoardID, date types.SnapshotDate) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}
	if date == "" {
		return nil, goerr.New("snapshot date is empty")
	}

	doc, err := f.client.Collection(snapshotsCollection).Doc(snapshotDocID(boardID, date)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for date",
				goerr.V("boardID", boardID), goerr.V("date", date))
		}
		return nil, goerr.Wrap(err, "failed to get snapshot from firestore")
	}

	var snap model.Snapshot
	if err := doc.DataTo(&snap); err != nil {
		return nil, goerr.Wrap(err, "failed to decode snapshot")
	}
	return &snap, nil
}

// ListSnapshotDates lists all cached dates for a board, newest first
func (f *Firestore) ListSnapshotDates(ctx context.Context, boardID types.BoardID) ([]types.SnapshotDate, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	iter := f.client.Collection(snapshotsCollection).
		Where("BoardID", "==", boardID.String()).
		Documents(ctx)
	defer iter.Stop()

	var dates []types.SnapshotDate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate snapshot dates")
		}

		var snap model.Snapshot
		if err := doc.DataTo(&snap); err != nil {
			return nil, goerr.Wrap(err, "failed to decode snapshot")
		}
		dates = append(dates, snap.UpdatedAt)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
	return dates, nil
}

// SaveMessage appends a chat message to its conversation
func (f *Firestore) SaveMessage(ctx context.Context, message *model.Message) error {
	if message == nil {
		return goerr.New("message is nil")
	}
	if message.ID == "" {
		return goerr.New("message ID is empty")
	}
	if message.ConversationID == "" {
		return goerr.New("conversation ID is empty")
	}

	_, err := f.client.Collection(messagesCollection).Doc(message.ID.String()).Set(ctx, message)
	if err != nil {
		return goerr.Wrap(err, "failed to save message to firestore")
	}
	return nil
}

// ListMessages returns a conversation's history, oldest first
func (f *Firestore) ListMessages(ctx context.Context, convID types.ConversationID) ([]*model.Message, error) {
	if convID == "" {
		return nil, goerr.New("conversation ID is empty")
	}

	iter := f.client.Collection(messagesCollection).
		Where("ConversationID", "==", convID.String()).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages")
		}

		var message model.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message")
		}
		messages = append(messages, &message)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// SaveSession saves a session to Firestore
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(sessionsCollection).Doc(session.ID).Set(ctx, session)
	if err != nil {
		return goerr.Wrap(err, "failed to save session to firestore")
	}
	return nil
}

// GetSession retrieves a session by ID
func (f *Firestore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	doc, err := f.client.Collection(sessionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
		}
		return nil, goerr.Wrap(err, "failed to get session from firestore")
	}

	var session model.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}
	return &session, nil
}

// DeleteSession deletes a session from Firestore
func (f *Firestore) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	doc := f.client.Collection(sessionsCollection).Doc(id)
	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrSessionNotFound, "failed to delete session")
		}
		return goerr.Wrap(err, "failed to check session existence")
	}

	if _, err := doc.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore")
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
