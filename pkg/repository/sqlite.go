package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS = 5000
	timeLayout    = time.RFC3339Nano
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS board_snapshots (
  board_id   TEXT NOT NULL,
  board_name TEXT NOT NULL,
  board_data TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (board_id, updated_at)
);

CREATE TABLE IF NOT EXISTS chat_messages (
  id              TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  provider        TEXT NOT NULL,
  role            TEXT NOT NULL,
  content         TEXT NOT NULL,
  greeting        INTEGER NOT NULL DEFAULT 0,
  created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  id         TEXT PRIMARY KEY,
  secret     TEXT NOT NULL,
  user_name  TEXT NOT NULL,
  created_at TEXT NOT NULL,
  expires_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_board ON board_snapshots(board_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON chat_messages(conversation_id, created_at);
`

// SQLite implements Repository interface with a local SQLite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and bootstraps
// the schema
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is empty")
	}

	dsn := "file:" + path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(" + strconv.Itoa(busyTimeoutMS) + ")",
			"journal_mode(WAL)",
			"foreign_keys(ON)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to bootstrap sqlite schema", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("SQLite repository initialized", "path", path)

	return &SQLite{db: db}, nil
}

// PutSnapshot upserts on (board_id, updated_at); the second write for the
// same key replaces the first payload
func (s *SQLite) PutSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is nil")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot.Board)
	if err != nil {
		return goerr.Wrap(err, "failed to encode board data")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO board_snapshots (board_id, board_name, board_data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(board_id, updated_at) DO UPDATE SET
		  board_name = excluded.board_name,
		  board_data = excluded.board_data`,
		snapshot.BoardID.String(), snapshot.BoardName, string(data), snapshot.UpdatedAt.String(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert snapshot",
			goerr.V("boardID", snapshot.BoardID), goerr.V("date", snapshot.UpdatedAt))
	}
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a board
func (s *SQLite) GetLatestSnapshot(ctx context.Context, boardID types.BoardID) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT board_id, board_name, board_data, updated_at
		FROM board_snapshots WHERE board_id = ?
		ORDER BY updated_at DESC LIMIT 1`, boardID.String())
	return s.scanSnapshot(ctx, row)
}

// GetSnapshotByDate returns the snapshot cached under an exact date
func (s *SQLite) GetSnapshotByDate(ctx context.Context, boardID types.BoardID, date types.SnapshotDate) (*model.Snapshot, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}
	if date == "" {
		return nil, goerr.New("snapshot date is empty")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT board_id, board_name, board_data, updated_at
		FROM board_snapshots WHERE board_id = ? AND updated_at = ?`,
		boardID.String(), date.String())
	return s.scanSnapshot(ctx, row)
}

func (s *SQLite) scanSnapshot(ctx context.Context, row *sql.Row) (*model.Snapshot, error) {
	var boardID, boardName, boardData, updatedAt string
	if err := row.Scan(&boardID, &boardName, &boardData, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot row")
		}
		return nil, goerr.Wrap(err, "failed to scan snapshot row")
	}

	var board model.Board
	if err := json.Unmarshal([]byte(boardData), &board); err != nil {
		// Malformed stored JSON counts as a cache miss, not an error.
		ctxlog.From(ctx).Warn("Discarding malformed cached board data",
			"boardID", boardID, "date", updatedAt, "error", err)
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "cached board data is malformed")
	}

	return &model.Snapshot{
		BoardID:   types.BoardID(boardID),
		BoardName: boardName,
		Board:     &board,
		UpdatedAt: types.SnapshotDate(updatedAt),
	}, nil
}

// ListSnapshotDates lists all cached dates for a board, newest first
func (s *SQLite) ListSnapshotDates(ctx context.Context, boardID types.BoardID) ([]types.SnapshotDate, error) {
	if boardID == "" {
		return nil, goerr.New("board ID is empty")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT updated_at FROM board_snapshots
		WHERE board_id = ? ORDER BY updated_at DESC`, boardID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query snapshot dates")
	}
	defer rows.Close()

	var dates []types.SnapshotDate
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, goerr.Wrap(err, "failed to scan snapshot date")
		}
		dates = append(dates, types.SnapshotDate(date))
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate snapshot dates")
	}
	return dates, nil
}

// SaveMessage appends a chat message to its conversation
func (s *SQLite) SaveMessage(ctx context.Context, message *model.Message) error {
	if message == nil {
		return goerr.New("message is nil")
	}
	if message.ID == "" {
		return goerr.New("message ID is empty")
	}
	if message.ConversationID == "" {
		return goerr.New("conversation ID is empty")
	}

	greeting := 0
	if message.Greeting {
		greeting = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, conversation_id, provider, role, content, greeting, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID.String(), message.ConversationID.String(), message.Provider.String(),
		message.Role.String(), message.Content, greeting, message.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to insert chat message", goerr.V("messageID", message.ID))
	}
	return nil
}

// ListMessages returns a conversation's history, oldest first
func (s *SQLite) ListMessages(ctx context.Context, convID types.ConversationID) ([]*model.Message, error) {
	if convID == "" {
		return nil, goerr.New("conversation ID is empty")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, provider, role, content, greeting, created_at
		FROM chat_messages WHERE conversation_id = ? ORDER BY created_at ASC`,
		convID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query chat messages")
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var id, conversationID, provider, role, content, createdAt string
		var greeting int
		if err := rows.Scan(&id, &conversationID, &provider, &role, &content, &greeting, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan chat message")
		}

		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse message timestamp", goerr.V("value", createdAt))
		}

		messages = append(messages, &model.Message{
			ID:             types.MessageID(id),
			ConversationID: types.ConversationID(conversationID),
			Provider:       types.Provider(provider),
			Role:           types.Role(role),
			Content:        content,
			Greeting:       greeting != 0,
			CreatedAt:      ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate chat messages")
	}
	return messages, nil
}

// SaveSession saves a session
func (s *SQLite) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, secret, user_name, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  secret = excluded.secret,
		  user_name = excluded.user_name,
		  expires_at = excluded.expires_at`,
		session.ID, session.Secret, session.UserName,
		session.CreatedAt.Format(timeLayout), session.ExpiresAt.Format(timeLayout),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save session", goerr.V("sessionID", session.ID))
	}
	return nil
}

// GetSession retrieves a session by ID
func (s *SQLite) GetSession(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, secret, user_name, created_at, expires_at FROM sessions WHERE id = ?`, id)

	var sessionID, secret, userName, createdAt, expiresAt string
	if err := row.Scan(&sessionID, &secret, &userName, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session")
		}
		return nil, goerr.Wrap(err, "failed to scan session row")
	}

	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse session created_at")
	}
	expires, err := time.Parse(timeLayout, expiresAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse session expires_at")
	}

	return &model.Session{
		ID:        sessionID,
		Secret:    secret,
		UserName:  userName,
		CreatedAt: created,
		ExpiresAt: expires,
	}, nil
}

// DeleteSession deletes a session
func (s *SQLite) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("sessionID", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(model.ErrSessionNotFound, "failed to delete session")
	}
	return nil
}

// Close closes the underlying database connection
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ interfaces.Repository = (*SQLite)(nil) // Compile-time interface check
