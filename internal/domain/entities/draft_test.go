package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Status
		event   Event
		want    Status
		wantErr bool
	}{
		{StatusDraft, EventApprove, StatusApproved, false},
		{StatusDraft, EventReject, StatusRejected, false},
		{StatusDraft, EventEditText, StatusDraft, false},
		{StatusDraft, EventRegenerateText, StatusDraft, false},
		{StatusDraft, EventRegenerateImage, StatusDraft, false},
		{StatusDraft, EventPublish, StatusDraft, true},

		{StatusApproved, EventPublish, StatusPublished, false},
		{StatusApproved, EventReject, StatusRejected, false},
		{StatusApproved, EventEditText, StatusApproved, false},
		{StatusApproved, EventApprove, StatusApproved, true},
		{StatusApproved, EventRegenerateText, StatusApproved, true},
		{StatusApproved, EventRegenerateImage, StatusApproved, true},

		{StatusRejected, EventApprove, StatusRejected, true},
		{StatusRejected, EventEditText, StatusRejected, true},
		{StatusRejected, EventPublish, StatusRejected, true},
		{StatusPublished, EventEditText, StatusPublished, true},
		{StatusPublished, EventReject, StatusPublished, true},
		{StatusPublished, EventRegenerateText, StatusPublished, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.from, tt.event), func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidTransition(err))
				// Status is unchanged on a rejected transition.
				assert.Equal(t, tt.from, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusPublished.Terminal())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusApproved, StatusRejected, StatusPublished} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestEditSourceValid(t *testing.T) {
	for _, s := range []EditSource{SourceDashboard, SourceChat, SourceRegeneration, SourceSystem} {
		assert.True(t, s.Valid())
	}
	assert.False(t, EditSource("user").Valid())
}

func TestInvalidTransitionError(t *testing.T) {
	_, err := Transition(StatusPublished, EventEditText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit-text")
	assert.Contains(t, err.Error(), "published")
}
