package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected State
	}{
		{
			name:     "waiting for project name",
			raw:      "WAITING_FOR_PROJECT_NAME",
			expected: State{Kind: StateWaitingForProjectName},
		},
		{
			name:     "waiting for option",
			raw:      "WAITING_FOR_OPTION",
			expected: State{Kind: StateWaitingForOption},
		},
		{
			name:     "waiting for project selection",
			raw:      "WAITING_FOR_PROJECT_SELECTION",
			expected: State{Kind: StateWaitingForProjectSelection},
		},
		{
			name:     "active project with id",
			raw:      "ACTIVE_PROJECT:proj-42",
			expected: State{Kind: StateActiveProject, ProjectID: "proj-42"},
		},
		{
			name:     "active project without id is unknown",
			raw:      "ACTIVE_PROJECT:",
			expected: State{Kind: StateUnknown},
		},
		{
			name:     "empty column is unknown",
			raw:      "",
			expected: State{Kind: StateUnknown},
		},
		{
			name:     "garbage is unknown",
			raw:      "SOMETHING_ELSE",
			expected: State{Kind: StateUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseState(tt.raw))
		})
	}
}

func TestState_String_RoundTrip(t *testing.T) {
	states := []State{
		{Kind: StateWaitingForProjectName},
		{Kind: StateWaitingForOption},
		{Kind: StateWaitingForProjectSelection},
		ActiveProject("proj-7"),
	}

	for _, s := range states {
		assert.Equal(t, s, ParseState(s.String()))
	}
}
