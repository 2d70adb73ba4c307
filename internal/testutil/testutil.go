package testutil

import (
	"context"
	"sync"
	"time"

	"siteship/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id, phone string, state domain.State) *domain.User {
	return &domain.User{
		ID:          id,
		PhoneNumber: phone,
		Platform:    domain.PlatformWhatsApp,
		DisplayName: "Test User",
		State:       state,
		CreatedAt:   time.Now(),
	}
}

// NewTestProject creates a test project
func NewTestProject(id, userID, name string) *domain.Project {
	return &domain.Project{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// RecordingMessenger captures outbound messages in send order
type RecordingMessenger struct {
	mu       sync.Mutex
	Messages []string
	Err      error
}

func (m *RecordingMessenger) Send(ctx context.Context, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, text)
	return m.Err
}

// Sent returns a copy of the captured messages
func (m *RecordingMessenger) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages...)
}

// NewTestMessage creates a valid inbound WhatsApp message
func NewTestMessage(from, body string) domain.InboundMessage {
	return domain.InboundMessage{
		MessageID:   "SM-test-1",
		From:        from,
		To:          "+15559998888",
		ProfileName: "Test User",
		Body:        body,
		Platform:    domain.PlatformWhatsApp,
	}
}
