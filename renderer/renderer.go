package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// ReviewRenderOptions holds configuration for rendering a review report.
type ReviewRenderOptions struct {
	SkipLoans bool // Do not render the per-loan table, for large books.
}

// RenderReview renders the Review struct to a markdown string.
func RenderReview(r *Review, opts ReviewRenderOptions) string {
	// Phase 1: Declare template dependencies.
	// We define which partials are needed and how they are aliased in the main template.
	partials := map[string]string{
		"review_title":       "review_title.md",
		"review_summary":     "review_summary.md",
		"review_assumptions": "review_assumptions.md",
	}

	// Skip the loan table if requested.
	if opts.SkipLoans {
		partials["review_loans"] = "review_loans_skipped.md"
	} else {
		partials["review_loans"] = "review_loans.md"
	}

	// Phase 2: Execute rendering with the generic utility.
	return renderTemplate("review", "review.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
