package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// BoardID identifies a board in the upstream project management service
type BoardID string

// String returns the string representation
func (id BoardID) String() string {
	return string(id)
}

// MonthLabel is a column title that participates in hour aggregation.
// Only the twelve labels in MonthColumns are ever aggregated; any other
// column title is ignored.
type MonthLabel string

// String returns the string representation
func (m MonthLabel) String() string {
	return string(m)
}

// MonthColumns lists the twelve month column titles in calendar order
var MonthColumns = []MonthLabel{
	"1월", "2월", "3월", "4월", "5월", "6월",
	"7월", "8월", "9월", "10월", "11월", "12월",
}

// SetMonthColumns replaces the month column vocabulary, for boards whose
// month columns carry different titles. labels must hold exactly twelve
// distinct non-empty titles in calendar order. Process-wide: call once at
// startup, before any aggregation.
func SetMonthColumns(labels []string) error {
	if len(labels) != 12 {
		return goerr.New("month labels must hold exactly 12 entries",
			goerr.V("count", len(labels)))
	}
	seen := make(map[string]bool, len(labels))
	cols := make([]MonthLabel, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			return goerr.New("month label must not be empty")
		}
		if seen[label] {
			return goerr.New("duplicate month label", goerr.V("label", label))
		}
		seen[label] = true
		cols = append(cols, MonthLabel(label))
	}
	MonthColumns = cols
	return nil
}

// IsMonthColumn reports whether title is one of the twelve month labels
func IsMonthColumn(title string) bool {
	for _, m := range MonthColumns {
		if string(m) == title {
			return true
		}
	}
	return false
}

// CurrentMonthColumn returns the month label for the given time
func CurrentMonthColumn(t time.Time) MonthLabel {
	return MonthColumns[int(t.Month())-1]
}

// ItemKey is the "[group title] item name" label a person appears under
type ItemKey string

// String returns the string representation
func (k ItemKey) String() string {
	return string(k)
}

// NewItemKey builds an item key from a group title and item name
func NewItemKey(groupTitle, itemName string) ItemKey {
	return ItemKey(fmt.Sprintf("[%s] %s", groupTitle, itemName))
}

const snapshotDateLayout = "2006-01-02"

// SnapshotDate is a calendar date (day granularity) a board snapshot is
// cached under, formatted as YYYY-MM-DD
type SnapshotDate string

// String returns the string representation
func (d SnapshotDate) String() string {
	return string(d)
}

// NewSnapshotDate truncates a time to its calendar date
func NewSnapshotDate(t time.Time) SnapshotDate {
	return SnapshotDate(t.Format(snapshotDateLayout))
}

// Today returns the snapshot date for the current local day
func Today() SnapshotDate {
	return NewSnapshotDate(time.Now())
}

// ParseSnapshotDate validates a YYYY-MM-DD string
func ParseSnapshotDate(s string) (SnapshotDate, error) {
	t, err := time.Parse(snapshotDateLayout, s)
	if err != nil {
		return "", goerr.Wrap(err, "invalid snapshot date", goerr.V("date", s))
	}
	return NewSnapshotDate(t), nil
}

// Time returns the date as a time.Time at midnight local time
func (d SnapshotDate) Time() (time.Time, error) {
	t, err := time.Parse(snapshotDateLayout, string(d))
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid snapshot date", goerr.V("date", string(d)))
	}
	return t, nil
}

// ConversationID identifies a chat panel conversation
type ConversationID string

// String returns the string representation
func (id ConversationID) String() string {
	return string(id)
}

// NewConversationID creates a new ConversationID
func NewConversationID() ConversationID {
	return ConversationID(uuid.New().String())
}

// MessageID identifies a single chat message
type MessageID string

// String returns the string representation
func (id MessageID) String() string {
	return string(id)
}

// NewMessageID creates a new MessageID
func NewMessageID() MessageID {
	return MessageID(fmt.Sprintf("msg-%s", uuid.New().String()))
}

// Role is the author role of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// Provider identifies a chat completion backend
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// String returns the string representation
func (p Provider) String() string {
	return string(p)
}

// ParseProvider validates a provider name from a request path
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderClaude:
		return Provider(s), nil
	}
	return "", goerr.New("unknown chat provider", goerr.V("provider", s))
}
