package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"siteship/internal/domain"
	"siteship/internal/messenger"
	"siteship/internal/repository"

	"go.uber.org/zap"
)

// Fixed reply texts. The welcome and project-created messages are part of
// the product voice and referenced by tests; change them deliberately.
const (
	msgWelcome = "Welcome 👋\nI can help you build a website in minutes.\nLet's get started by Starting a new project. Please name your project"

	msgMenu = "What would you like to do?\n1. Start a new project\n2. Continue an existing project\n\nReply with 1 or 2."

	msgProjectCreated = "Congratulations your project is created! Now, tell me more about this project so that I can help you build great websites."

	msgNameProject      = "Great! Please name your new project."
	msgNoProjects       = "You don't have any projects yet. Reply 1 to start a new one."
	msgInvalidOption    = "Invalid option. Reply 1 to start a new project or 2 to continue an existing one."
	msgInvalidSelection = "Invalid selection. Please pick a number from the list."
	msgReplyWithNumber  = "Please reply with a number from the list."
	msgProjectNotFound  = "Sorry, I couldn't find that project anymore."
	msgWorking          = "Working on it! Building your website now, this can take a minute..."
	msgGenerationFailed = "Something went wrong while building your site. Please try again."
	msgSiteReady        = "Your site is ready! 🎉\nDownload: %s\nDeploy status: %s"
	msgResuming         = "Resuming %s. Tell me what you'd like to build or change."
)

// Builder runs one generation turn for an active project
type Builder interface {
	Build(ctx context.Context, user *domain.User, project *domain.Project, msg domain.InboundMessage) error
}

// ConversationService interprets each inbound message against the user's
// persisted state and decides the next action
type ConversationService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	builder  Builder
	notifier *messenger.Notifier
	logger   *zap.Logger

	// serializes turns per user so concurrent webhook deliveries cannot
	// race on the persisted state
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewConversationService creates the conversation state machine
func NewConversationService(
	users repository.UserRepository,
	projects repository.ProjectRepository,
	builder Builder,
	notifier *messenger.Notifier,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		users:    users,
		projects: projects,
		builder:  builder,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *ConversationService) lockUser(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// HandleMessage runs one full conversation turn. Every failure is scoped to
// this turn: the caller only gets an error for logging and a failure status,
// never a partial mutation to undo.
func (s *ConversationService) HandleMessage(ctx context.Context, msg domain.InboundMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	unlock := s.lockUser(msg.Platform + ":" + msg.From)
	defer unlock()

	user, err := s.users.GetByPhone(ctx, msg.Platform, msg.From)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	// first contact: register and ask for a project name, whatever the
	// message said
	if user == nil {
		user, err = s.users.Create(ctx, msg.From, msg.Platform, msg.ProfileName)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		s.logger.Info("New user registered",
			zap.String("user_id", user.ID),
			zap.String("platform", msg.Platform),
		)
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgWelcome)
		return nil
	}

	text := strings.TrimSpace(msg.Body)

	// "menu" escapes every state, including an active project
	if strings.EqualFold(text, "menu") {
		if err := s.users.UpdateState(ctx, user.ID, domain.State{Kind: domain.StateWaitingForOption}); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgMenu)
		return nil
	}

	switch user.State.Kind {
	case domain.StateWaitingForProjectName:
		return s.handleProjectName(ctx, user, msg, text)
	case domain.StateWaitingForOption:
		return s.handleOption(ctx, user, msg, text)
	case domain.StateWaitingForProjectSelection:
		return s.handleSelection(ctx, user, msg, text)
	case domain.StateActiveProject:
		return s.handleActiveProject(ctx, user, msg)
	default:
		// unknown or legacy state: fall back to the menu
		if err := s.users.UpdateState(ctx, user.ID, domain.State{Kind: domain.StateWaitingForOption}); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgMenu)
		return nil
	}
}

func (s *ConversationService) handleProjectName(ctx context.Context, user *domain.User, msg domain.InboundMessage, text string) error {
	if text == "" {
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgNameProject)
		return nil
	}

	project, err := s.projects.Create(ctx, user.ID, text)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	if err := s.users.UpdateState(ctx, user.ID, domain.ActiveProject(project.ID)); err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	s.logger.Info("Project created",
		zap.String("user_id", user.ID),
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
	)
	s.notifier.Notify(ctx, msg.Platform, msg.From, msgProjectCreated)
	return nil
}

func (s *ConversationService) handleOption(ctx context.Context, user *domain.User, msg domain.InboundMessage, text string) error {
	switch text {
	case "1":
		if err := s.users.UpdateState(ctx, user.ID, domain.State{Kind: domain.StateWaitingForProjectName}); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgNameProject)
		return nil

	case "2":
		projects, err := s.projects.ListByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		if len(projects) == 0 {
			s.notifier.Notify(ctx, msg.Platform, msg.From, msgNoProjects)
			return nil
		}

		if err := s.users.UpdateState(ctx, user.ID, domain.State{Kind: domain.StateWaitingForProjectSelection}); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		s.notifier.Notify(ctx, msg.Platform, msg.From, formatProjectList(projects))
		return nil

	default:
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgInvalidOption)
		return nil
	}
}

func (s *ConversationService) handleSelection(ctx context.Context, user *domain.User, msg domain.InboundMessage, text string) error {
	index, err := strconv.Atoi(text)
	if err != nil {
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgReplyWithNumber)
		return nil
	}

	projects, err := s.projects.ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if index < 1 || index > len(projects) {
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgInvalidSelection)
		return nil
	}

	selected := projects[index-1]
	if err := s.users.UpdateState(ctx, user.ID, domain.ActiveProject(selected.ID)); err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	s.notifier.Notify(ctx, msg.Platform, msg.From, fmt.Sprintf(msgResuming, selected.Name))
	return nil
}

func (s *ConversationService) handleActiveProject(ctx context.Context, user *domain.User, msg domain.InboundMessage) error {
	project, err := s.projects.GetByID(ctx, user.State.ProjectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		if err := s.users.UpdateState(ctx, user.ID, domain.State{Kind: domain.StateWaitingForOption}); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgProjectNotFound)
		s.notifier.Notify(ctx, msg.Platform, msg.From, msgMenu)
		return nil
	}

	// the raw body is the generation prompt; no normalization here
	return s.builder.Build(ctx, user, project, msg)
}

func formatProjectList(projects []domain.Project) string {
	var b strings.Builder
	b.WriteString("Your projects:\n")
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Name)
	}
	b.WriteString("\nReply with the number of the project to continue.")
	return b.String()
}
