package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

type snapshotKey struct {
	boardID types.BoardID
	date    types.SnapshotDate
}

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu        sync.RWMutex
	snapshots map[snapshotKey]*model.Snapshot
	messages  map[types.ConversationID][]*model.Message
	sessions  map[string]*model.Session
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		snapshots: make(map[snapshotKey]*model.Snapshot),
		messages:  make(map[types.ConversationID][]*model.Message),
		sessions:  make(map[string]*model.Session),
	}
}

// PutSnapshot inserts or replaces the snapshot for (boardID, date)
func (m *Memory) PutSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is nil")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *snapshot
	m.snapshots[snapshotKey{snapshot.BoardID, snapshot.UpdatedAt}] = &copied
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a board
func (m *Memory) GetLatestSnapshot(ctx context.Context, boardID types.BoardID) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.Snapshot
	for key, snap := range m.snapshots {
		if key.boardID != boardID {
			continue
		}
		if latest == nil || snap.UpdatedAt > latest.UpdatedAt {
			latest = snap
		}
	}
	if latest == nil {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for board",
			goerr.V("boardID", boardID))
	}

	copied := *latest
	return &copied, nil
}

// GetSnapshotByDate returns the snapshot cached under an exact date
func (m *Memory) GetSnapshotByDate(ctx context.Context, boardID types.BoardID, date types.SnapshotDate) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}
	if date == "" {
		return nil, goerr.New("snapshot date is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, exists := m.snapshots[snapshotKey{boardID, date}]
	if !exists {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot for date",
			goerr.V("boardID", boardID), goerr.V("date", date))
	}

	copied := *snap
	return &copied, nil
}

// ListSnapshotDates lists all cached dates for a board, newest first
func (m *Memory) ListSnapshotDates(ctx context.Context, boardID types.BoardID) ([]types.SnapshotDate, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var dates []types.SnapshotDate
	for key := range m.snapshots {
		if key.boardID == boardID {
			dates = append(dates, key.date)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })
	return dates, nil
}

// SaveMessage appends a chat message to its conversation
func (m *Memory) SaveMessage(ctx context.Context, message *model.Message) error {
	if message == nil {
		return goerr.New("message is nil")
	}
	if message.ID == "" {
		return goerr.New("message ID is empty")
	}
	if message.ConversationID == "" {
		return goerr.New("conversation ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *message
	m.messages[message.ConversationID] = append(m.messages[message.ConversationID], &copied)
	return nil
}

// ListMessages returns a conversation's history in insertion order
func (m *Memory) ListMessages(ctx context.Context, convID types.ConversationID) ([]*model.Message, error) {
	if convID == "" {
		return nil, goerr.New("conversation ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.messages[convID]
	messages := make([]*model.Message, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		messages = append(messages, &copied)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// SaveSession saves a session to memory
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

// GetSession retrieves a session by ID
func (m *Memory) GetSession(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
	}

	copied := *session
	return &copied, nil
}

// DeleteSession deletes a session
func (m *Memory) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return goerr.Wrap(model.ErrSessionNotFound, "failed to delete session")
	}
	delete(m.sessions, id)
	return nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}

var _ interfaces.Repository = (*Memory)(nil) // Compile-time interface check
