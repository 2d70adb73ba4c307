package domain

import (
	"strings"
	"time"
)

// User represents a registered chat user
type User struct {
	ID          string
	PhoneNumber string
	Platform    string
	DisplayName string
	State       State
	CreatedAt   time.Time
}

// StateKind identifies a conversation state
type StateKind string

const (
	StateWaitingForProjectName      StateKind = "WAITING_FOR_PROJECT_NAME"
	StateWaitingForOption           StateKind = "WAITING_FOR_OPTION"
	StateWaitingForProjectSelection StateKind = "WAITING_FOR_PROJECT_SELECTION"
	StateActiveProject              StateKind = "ACTIVE_PROJECT"
	StateUnknown                    StateKind = ""
)

// State is the user's conversation state. ACTIVE_PROJECT carries the id of
// the project generation prompts are directed at; ProjectID is empty for
// every other kind.
type State struct {
	Kind      StateKind
	ProjectID string
}

// ActiveProject returns an ACTIVE_PROJECT state bound to the given project
func ActiveProject(projectID string) State {
	return State{Kind: StateActiveProject, ProjectID: projectID}
}

// ParseState decodes the persisted state column. The active state is stored
// as "ACTIVE_PROJECT:<project_id>". Anything unrecognized (including an
// empty column) decodes to StateUnknown, which the conversation flow treats
// the same as WAITING_FOR_OPTION.
func ParseState(raw string) State {
	if rest, ok := strings.CutPrefix(raw, string(StateActiveProject)+":"); ok && rest != "" {
		return ActiveProject(rest)
	}

	switch StateKind(raw) {
	case StateWaitingForProjectName, StateWaitingForOption, StateWaitingForProjectSelection:
		return State{Kind: StateKind(raw)}
	}
	return State{Kind: StateUnknown}
}

// String returns the storage encoding of the state
func (s State) String() string {
	if s.Kind == StateActiveProject {
		return string(StateActiveProject) + ":" + s.ProjectID
	}
	return string(s.Kind)
}
