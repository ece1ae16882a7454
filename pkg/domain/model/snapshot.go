package model

import (
	"github.com/worklens-io/worklens/pkg/domain/types"
)

// Snapshot is one cached capture of a board, keyed by (BoardID, UpdatedAt).
// A board gets at most one snapshot per calendar day; writing again for the
// same day replaces the stored board data.
type Snapshot struct {
	BoardID   types.BoardID      `json:"board_id"`
	BoardName string             `json:"board_name"`
	Board     *Board             `json:"board_data"`
	UpdatedAt types.SnapshotDate `json:"updated_at"`
}

// NewSnapshot creates a snapshot of a fetched board for the given date
func NewSnapshot(boardID types.BoardID, board *Board, date types.SnapshotDate) *Snapshot {
	name := ""
	if board != nil {
		name = board.Name
	}
	return &Snapshot{
		BoardID:   boardID,
		BoardName: name,
		Board:     board,
		UpdatedAt: date,
	}
}

// Validate checks the fields required to persist a snapshot
func (s *Snapshot) Validate() error {
	if s.BoardID == "" {
		return ErrInvalidSnapshot
	}
	if s.Board == nil {
		return ErrInvalidSnapshot
	}
	if s.UpdatedAt == "" {
		return ErrInvalidSnapshot
	}
	return nil
}
