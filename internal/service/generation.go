package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"siteship/internal/deploy"
	"siteship/internal/domain"
	"siteship/internal/generator"
	"siteship/internal/messenger"
	"siteship/internal/repository"
	"siteship/internal/site"

	"go.uber.org/zap"
)

// summaryLimit bounds what is carried forward as generation context
const summaryLimit = 1000

// ArchiveStore uploads a packaged archive and returns its public URL
type ArchiveStore interface {
	Upload(ctx context.Context, objectKey, archivePath string) (string, error)
}

// DeployTrigger submits a generated site for static hosting
type DeployTrigger interface {
	Deploy(ctx context.Context, req deploy.Request) (deploy.Status, error)
}

// ObjectKeyFunc builds the storage key for one packaged turn
type ObjectKeyFunc func(userID, projectName string, now time.Time) string

// SiteBuilder runs the generation turn: prompt, model call, parse, package,
// upload, deploy trigger, terminal notice. Implements Builder.
type SiteBuilder struct {
	prompts   repository.PromptRepository
	projects  repository.ProjectRepository
	generator generator.Generator
	packager  *site.Packager
	archives  ArchiveStore
	deployer  DeployTrigger
	notifier  *messenger.Notifier
	objectKey ObjectKeyFunc
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSiteBuilder creates the generation turn service
func NewSiteBuilder(
	prompts repository.PromptRepository,
	projects repository.ProjectRepository,
	gen generator.Generator,
	packager *site.Packager,
	archives ArchiveStore,
	deployer DeployTrigger,
	notifier *messenger.Notifier,
	objectKey ObjectKeyFunc,
	timeout time.Duration,
	logger *zap.Logger,
) *SiteBuilder {
	return &SiteBuilder{
		prompts:   prompts,
		projects:  projects,
		generator: gen,
		packager:  packager,
		archives:  archives,
		deployer:  deployer,
		notifier:  notifier,
		objectKey: objectKey,
		timeout:   timeout,
		logger:    logger,
	}
}

// Build runs one generation turn for the user's active project. The user
// always gets exactly one terminal notice, success or failure; records
// written before a later step fails stay written, because the conversational
// progress is valid even when this turn's deployment is not.
func (b *SiteBuilder) Build(ctx context.Context, user *domain.User, project *domain.Project, msg domain.InboundMessage) error {
	b.notifier.Notify(ctx, msg.Platform, msg.From, msgWorking)

	prompt := generator.BuildSitePrompt(msg.Body, project.LastAISummary)

	genCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	response, err := b.generator.Generate(genCtx, prompt)
	if err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("generate site: %w", err)
	}

	if _, err := b.prompts.Save(ctx, domain.Prompt{
		UserID:        user.ID,
		ProjectID:     project.ID,
		MessageID:     msg.MessageID,
		PromptText:    msg.Body,
		ModelResponse: response,
	}); err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("save prompt: %w", err)
	}

	files, err := site.Parse(response)
	if err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("parse response: %w", err)
	}

	archivePath, cleanup, err := b.packager.Package(files, user.ID)
	if err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("package site: %w", err)
	}
	defer cleanup()

	key := b.objectKey(user.ID, project.Name, time.Now())
	archiveURL, err := b.archives.Upload(ctx, key, archivePath)
	if err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("upload archive: %w", err)
	}

	status, err := b.deployer.Deploy(ctx, deploy.Request{
		Username:    user.PhoneNumber,
		ProjectName: project.Name,
		Prompt:      msg.Body,
		ArchiveURL:  archiveURL,
		Metadata: deploy.Metadata{
			Source:        msg.Platform,
			MessageID:     msg.MessageID,
			ProfileName:   msg.ProfileName,
			ProjectID:     project.ID,
			LastAISummary: project.LastAISummary,
		},
	})
	if err != nil {
		b.notifier.Notify(ctx, msg.Platform, msg.From, msgGenerationFailed)
		return fmt.Errorf("trigger deploy: %w", err)
	}

	// carry the latest request forward as context for the next iteration;
	// losing it degrades the next prompt but does not fail this turn
	if err := b.projects.UpdateSummary(ctx, project.ID, truncate(msg.Body, summaryLimit)); err != nil {
		b.logger.Error("Failed to update project summary",
			zap.Error(err),
			zap.String("project_id", project.ID),
		)
	}

	b.logger.Info("Site deployed",
		zap.String("user_id", user.ID),
		zap.String("project_id", project.ID),
		zap.String("status", status.Status),
	)
	b.notifier.Notify(ctx, msg.Platform, msg.From, fmt.Sprintf(msgSiteReady, archiveURL, status.Status))
	return nil
}

// truncate cuts s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
