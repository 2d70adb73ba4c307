package generator

import "fmt"

// promptTemplate carries the output contract the response parser depends on:
// three fences labeled html, css and javascript, in that order. The labels
// here and the patterns in internal/site must change together.
const promptTemplate = `You are an expert AI web developer.
Your task is to generate a simple but complete static website based on the following requirements:
%s
Please provide the HTML, CSS, and JavaScript code strictly in the output format below.
---
Instructions:
- Create a single-page responsive website.
- Use only HTML, CSS, and minimal JavaScript if needed.
- Include clear structure: header, main, footer.
- Add placeholder text and images if details are missing.
- Use clean, readable indentation.
- Write all code inline in one file.
- Do NOT include explanations, only the final code.
- Return the code block fenced in triple backticks with html, css, and javascript tags.
---
Example output format:
` + "```" + `html
<!-- Your generated HTML goes here -->
` + "```" + `css
/* Your generated CSS goes here */
` + "```" + `javascript
// Your generated JavaScript goes here
` + "```" + `
`

// BuildSitePrompt renders the generation prompt around the user's free text.
// priorSummary is the project's last AI summary and may be empty; when set it
// is prepended so follow-up prompts refine the same site instead of starting
// over.
func BuildSitePrompt(userInput, priorSummary string) string {
	requirements := userInput
	if priorSummary != "" {
		requirements = fmt.Sprintf(
			"Context from the previous iteration of this website:\n%s\n\nNew request:\n%s",
			priorSummary, userInput,
		)
	}
	return fmt.Sprintf(promptTemplate, requirements)
}
