package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"siteship/internal/deploy"
	"siteship/internal/domain"
	"siteship/internal/messenger"
	"siteship/internal/site"
	"siteship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testModelResponse = "```html\n<h1>Bakery</h1>\n```css\nh1 { color: tomato; }\n```javascript\nconsole.log(\"hi\");\n```"

type builderFixture struct {
	prompts   *testutil.MockPromptRepository
	projects  *testutil.MockProjectRepository
	generator *testutil.MockGenerator
	archives  *testutil.MockArchiveStore
	deployer  *testutil.MockDeployTrigger
	outbound  *testutil.RecordingMessenger
	builder   *SiteBuilder
}

func newBuilderFixture(t *testing.T) *builderFixture {
	t.Helper()

	f := &builderFixture{
		prompts:   new(testutil.MockPromptRepository),
		projects:  new(testutil.MockProjectRepository),
		generator: new(testutil.MockGenerator),
		archives:  new(testutil.MockArchiveStore),
		deployer:  new(testutil.MockDeployTrigger),
		outbound:  &testutil.RecordingMessenger{},
	}

	notifier := messenger.NewNotifier(testutil.NewTestLogger())
	notifier.Register(domain.PlatformWhatsApp, f.outbound)

	objectKey := func(userID, projectName string, now time.Time) string {
		return userID + "/" + projectName + "/site.zip"
	}

	f.builder = NewSiteBuilder(
		f.prompts,
		f.projects,
		f.generator,
		site.NewPackager(t.TempDir()),
		f.archives,
		f.deployer,
		notifier,
		objectKey,
		time.Minute,
		testutil.NewTestLogger(),
	)
	return f
}

func TestBuild_HappyPath(t *testing.T) {
	f := newBuilderFixture(t)

	user := testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7"))
	project := testutil.NewTestProject("p7", "u1", "Bakery")
	project.LastAISummary = "a bakery landing page"
	msg := testutil.NewTestMessage("+1555", "add a contact form")

	f.generator.On("Generate", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "add a contact form") &&
			strings.Contains(prompt, "a bakery landing page")
	})).Return(testModelResponse, nil)

	f.prompts.On("Save", mock.MatchedBy(func(p domain.Prompt) bool {
		return p.UserID == "u1" &&
			p.ProjectID == "p7" &&
			p.MessageID == msg.MessageID &&
			p.PromptText == "add a contact form" &&
			p.ModelResponse == testModelResponse
	})).Return(&domain.Prompt{ID: "pr1"}, nil)

	f.archives.On("Upload", "u1/Bakery/site.zip", mock.MatchedBy(func(path string) bool {
		return strings.HasSuffix(path, "site.zip")
	})).Return("https://files.example.com/u1/Bakery/site.zip", nil)

	f.deployer.On("Deploy", mock.MatchedBy(func(req deploy.Request) bool {
		return req.Username == "+1555" &&
			req.ProjectName == "Bakery" &&
			req.Prompt == "add a contact form" &&
			req.ArchiveURL == "https://files.example.com/u1/Bakery/site.zip" &&
			req.Metadata.ProjectID == "p7" &&
			req.Metadata.Source == domain.PlatformWhatsApp
	})).Return(deploy.Status{Status: "queued"}, nil)

	f.projects.On("UpdateSummary", "p7", "add a contact form").Return(nil)

	err := f.builder.Build(context.Background(), user, project, msg)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		msgWorking,
		fmt.Sprintf(msgSiteReady, "https://files.example.com/u1/Bakery/site.zip", "queued"),
	}, f.outbound.Sent())

	f.prompts.AssertExpectations(t)
	f.archives.AssertExpectations(t)
	f.deployer.AssertExpectations(t)
	f.projects.AssertExpectations(t)
}

func TestBuild_GenerationFailure(t *testing.T) {
	f := newBuilderFixture(t)

	f.generator.On("Generate", mock.Anything).Return("", fmt.Errorf("model overloaded"))

	err := f.builder.Build(
		context.Background(),
		testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
		testutil.NewTestProject("p7", "u1", "Bakery"),
		testutil.NewTestMessage("+1555", "add a contact form"),
	)

	assert.Error(t, err)
	assert.Equal(t, []string{msgWorking, msgGenerationFailed}, f.outbound.Sent())
	f.prompts.AssertNotCalled(t, "Save", mock.Anything)
	f.archives.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything)
}

func TestBuild_UnparsableResponse(t *testing.T) {
	f := newBuilderFixture(t)

	f.generator.On("Generate", mock.Anything).
		Return("I'm sorry, I can't build that website.", nil)
	// the raw exchange is recorded even when it cannot be parsed
	f.prompts.On("Save", mock.Anything).Return(&domain.Prompt{ID: "pr1"}, nil)

	err := f.builder.Build(
		context.Background(),
		testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
		testutil.NewTestProject("p7", "u1", "Bakery"),
		testutil.NewTestMessage("+1555", "add a contact form"),
	)

	assert.ErrorIs(t, err, site.ErrUnparsable)
	assert.Equal(t, []string{msgWorking, msgGenerationFailed}, f.outbound.Sent())
	f.prompts.AssertExpectations(t)
	f.archives.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything)
}

func TestBuild_UploadFailure(t *testing.T) {
	f := newBuilderFixture(t)

	f.generator.On("Generate", mock.Anything).Return(testModelResponse, nil)
	f.prompts.On("Save", mock.Anything).Return(&domain.Prompt{ID: "pr1"}, nil)
	f.archives.On("Upload", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("bucket unreachable"))

	err := f.builder.Build(
		context.Background(),
		testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
		testutil.NewTestProject("p7", "u1", "Bakery"),
		testutil.NewTestMessage("+1555", "add a contact form"),
	)

	assert.Error(t, err)
	assert.Equal(t, []string{msgWorking, msgGenerationFailed}, f.outbound.Sent())
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything)
}

func TestBuild_DeployFailureKeepsRecords(t *testing.T) {
	f := newBuilderFixture(t)

	f.generator.On("Generate", mock.Anything).Return(testModelResponse, nil)
	f.prompts.On("Save", mock.Anything).Return(&domain.Prompt{ID: "pr1"}, nil)
	f.archives.On("Upload", mock.Anything, mock.Anything).
		Return("https://files.example.com/site.zip", nil)
	f.deployer.On("Deploy", mock.Anything).
		Return(deploy.Status{}, fmt.Errorf("deploy service down"))

	err := f.builder.Build(
		context.Background(),
		testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
		testutil.NewTestProject("p7", "u1", "Bakery"),
		testutil.NewTestMessage("+1555", "add a contact form"),
	)

	assert.Error(t, err)
	assert.Equal(t, []string{msgWorking, msgGenerationFailed}, f.outbound.Sent())
	// the prompt stays written, there is nothing to roll back
	f.prompts.AssertExpectations(t)
	f.projects.AssertNotCalled(t, "UpdateSummary", mock.Anything, mock.Anything)
}

func TestBuild_SummaryFailureDoesNotFailTurn(t *testing.T) {
	f := newBuilderFixture(t)

	f.generator.On("Generate", mock.Anything).Return(testModelResponse, nil)
	f.prompts.On("Save", mock.Anything).Return(&domain.Prompt{ID: "pr1"}, nil)
	f.archives.On("Upload", mock.Anything, mock.Anything).
		Return("https://files.example.com/site.zip", nil)
	f.deployer.On("Deploy", mock.Anything).Return(deploy.Status{Status: "queued"}, nil)
	f.projects.On("UpdateSummary", mock.Anything, mock.Anything).
		Return(fmt.Errorf("write timeout"))

	err := f.builder.Build(
		context.Background(),
		testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
		testutil.NewTestProject("p7", "u1", "Bakery"),
		testutil.NewTestMessage("+1555", "add a contact form"),
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		msgWorking,
		fmt.Sprintf(msgSiteReady, "https://files.example.com/site.zip", "queued"),
	}, f.outbound.Sent())
}

func TestBuild_SummaryTruncated(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		expectedSummary string
	}{
		{
			name:            "ascii cut at the byte limit",
			body:            strings.Repeat("x", summaryLimit+500),
			expectedSummary: strings.Repeat("x", summaryLimit),
		},
		{
			// 3-byte runes never divide the limit evenly, so a byte-offset
			// cut would split one and produce invalid UTF-8
			name:            "multibyte cut backs up to a rune boundary",
			body:            strings.Repeat("€", 400),
			expectedSummary: strings.Repeat("€", summaryLimit/3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBuilderFixture(t)

			f.generator.On("Generate", mock.Anything).Return(testModelResponse, nil)
			f.prompts.On("Save", mock.Anything).Return(&domain.Prompt{ID: "pr1"}, nil)
			f.archives.On("Upload", mock.Anything, mock.Anything).
				Return("https://files.example.com/site.zip", nil)
			f.deployer.On("Deploy", mock.Anything).Return(deploy.Status{Status: "queued"}, nil)
			f.projects.On("UpdateSummary", "p7", mock.MatchedBy(func(summary string) bool {
				return summary == tt.expectedSummary &&
					len(summary) <= summaryLimit &&
					utf8.ValidString(summary)
			})).Return(nil)

			err := f.builder.Build(
				context.Background(),
				testutil.NewTestUser("u1", "+1555", domain.ActiveProject("p7")),
				testutil.NewTestProject("p7", "u1", "Bakery"),
				testutil.NewTestMessage("+1555", tt.body),
			)

			assert.NoError(t, err)
			f.projects.AssertExpectations(t)
		})
	}
}
