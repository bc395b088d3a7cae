// Package entities contains core domain data structures.
package entities

import "time"

// Status represents a draft's position in the review lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// Terminal reports whether a draft in this status can never be mutated again.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusPublished
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

// Event is a mutating action applied to a draft.
type Event string

const (
	EventApprove         Event = "approve"
	EventReject          Event = "reject"
	EventPublish         Event = "publish"
	EventEditText        Event = "edit-text"
	EventRegenerateText  Event = "regenerate-text"
	EventRegenerateImage Event = "regenerate-image"
)

// Transition returns the status that results from applying ev to a draft in
// status cur. Editing and regeneration are self-transitions. Any pair not
// covered by the lifecycle table fails with InvalidTransitionError.
func Transition(cur Status, ev Event) (Status, error) {
	switch cur {
	case StatusDraft:
		switch ev {
		case EventApprove:
			return StatusApproved, nil
		case EventReject:
			return StatusRejected, nil
		case EventEditText, EventRegenerateText, EventRegenerateImage:
			return StatusDraft, nil
		}
	case StatusApproved:
		switch ev {
		case EventPublish:
			return StatusPublished, nil
		case EventReject:
			return StatusRejected, nil
		case EventEditText:
			return StatusApproved, nil
		}
	}
	return cur, &InvalidTransitionError{Status: cur, Event: ev}
}

// Draft represents one proposed social post tracked through review.
type Draft struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject"`
	Text      string     `json:"text"`      // empty until first generation succeeds
	ImageRef  string     `json:"image_ref"` // opaque asset reference, stored verbatim
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	// ExternalRef points at the chat message currently displaying this
	// draft (at most one); used to route update notifications.
	ExternalRef string     `json:"external_ref,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
