package testutil

import (
	"context"

	"siteship/internal/deploy"
	"siteship/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, platform, phoneNumber string) (*domain.User, error) {
	args := m.Called(platform, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, phoneNumber, platform, displayName string) (*domain.User, error) {
	args := m.Called(phoneNumber, platform, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateState(ctx context.Context, userID string, state domain.State) error {
	args := m.Called(userID, state)
	return args.Error(0)
}

// MockProjectRepository is a mock for repository.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, userID, name string) (*domain.Project, error) {
	args := m.Called(userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) UpdateSummary(ctx context.Context, projectID, summary string) error {
	args := m.Called(projectID, summary)
	return args.Error(0)
}

// MockPromptRepository is a mock for repository.PromptRepository
type MockPromptRepository struct {
	mock.Mock
}

func (m *MockPromptRepository) Save(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error) {
	args := m.Called(prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

// MockGenerator is a mock for generator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

// MockMessenger is a mock for messenger.Messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Send(ctx context.Context, to, text string) error {
	args := m.Called(to, text)
	return args.Error(0)
}

// MockArchiveStore is a mock for service.ArchiveStore
type MockArchiveStore struct {
	mock.Mock
}

func (m *MockArchiveStore) Upload(ctx context.Context, objectKey, archivePath string) (string, error) {
	args := m.Called(objectKey, archivePath)
	return args.String(0), args.Error(1)
}

// MockDeployTrigger is a mock for service.DeployTrigger
type MockDeployTrigger struct {
	mock.Mock
}

func (m *MockDeployTrigger) Deploy(ctx context.Context, req deploy.Request) (deploy.Status, error) {
	args := m.Called(req)
	return args.Get(0).(deploy.Status), args.Error(1)
}

// MockBuilder is a mock for service.Builder
type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Build(ctx context.Context, user *domain.User, project *domain.Project, msg domain.InboundMessage) error {
	args := m.Called(user, project, msg)
	return args.Error(0)
}
