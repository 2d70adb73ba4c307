package site

import (
	"errors"
	"regexp"
	"strings"

	"siteship/internal/domain"
)

// ErrUnparsable means the model response contains no markup fence, so there
// is nothing to build a site from
var ErrUnparsable = errors.New("model response contains no html fence")

// Model output is adversarial input: these patterns tolerate partial
// responses instead of assuming the contract was honored. Labels match the
// fence contract in internal/generator.
var (
	markupPattern  = regexp.MustCompile("(?is)```html(.*?)```css")
	stylingPattern = regexp.MustCompile("(?is)```css(.*?)```javascript")
	scriptPattern  = regexp.MustCompile("(?is)```javascript(.*?)```")
)

// Parse extracts the markup, styling and script payloads from a model
// response. A missing markup segment fails the whole parse; missing styling
// or script degrade to empty strings, since a site without them is still
// deployable.
func Parse(response string) (domain.SiteFiles, error) {
	markup := markupPattern.FindStringSubmatch(response)
	if markup == nil {
		return domain.SiteFiles{}, ErrUnparsable
	}

	files := domain.SiteFiles{
		Markup: strings.TrimSpace(markup[1]),
	}

	if styling := stylingPattern.FindStringSubmatch(response); styling != nil {
		files.Styling = strings.TrimSpace(styling[1])
	}
	if script := scriptPattern.FindStringSubmatch(response); script != nil {
		files.Script = strings.TrimSpace(script[1])
	}

	return files, nil
}
