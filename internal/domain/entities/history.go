package entities

import "time"

// EditSource indicates where a text edit originated.
type EditSource string

const (
	SourceDashboard    EditSource = "human-dashboard"
	SourceChat         EditSource = "human-chat"
	SourceRegeneration EditSource = "ai-regeneration"
	SourceSystem       EditSource = "system"
)

// Valid reports whether s is a known edit source.
func (s EditSource) Valid() bool {
	switch s {
	case SourceDashboard, SourceChat, SourceRegeneration, SourceSystem:
		return true
	}
	return false
}

// EditHistoryEntry is an immutable audit record of a single text change.
// Entries carry full snapshots rather than diffs so replay and rollback
// stay trivial; they are never updated or deleted.
type EditHistoryEntry struct {
	ID           string     `json:"id"`
	DraftID      string     `json:"draft_id"`
	PreviousText string     `json:"previous_text"`
	NewText      string     `json:"new_text"`
	Source       EditSource `json:"source"`
	CreatedAt    time.Time  `json:"created_at"`
}
