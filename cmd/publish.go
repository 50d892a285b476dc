package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

// reportTask names one file of the published tree.
type reportTask struct {
	Report string    // report family, first directory level
	Folder string    // optional second level (aggregation period or loan id)
	AsOf   date.Date // projection start, used as the file name
}

type publishCmd struct {
	outputDir      string
	frontMatterTpl string
}

func (*publishCmd) Name() string { return "publish" }

func (*publishCmd) Synopsis() string { return "generates all reports for the loan book" }

func (*publishCmd) Usage() string {
	return `publish [-o <dir>] [-frontmatter <file>]

  Generates the full report set (review, projections at every aggregation
  period, the by-tier projection, the risk report, and one schedule per
  loan) and saves them to a structured directory tree, one dated file
  per report. Re-running after a book update archives the new snapshot
  next to the previous ones.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "reports", "Root directory for the generated reports")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the report front matter")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var frontMatterTpl *template.Template
	if c.frontMatterTpl != "" {
		var err error
		frontMatterTpl, err = template.ParseFiles(c.frontMatterTpl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse front matter template: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		return subcommands.ExitFailure
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the book: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(p.Loans) == 0 {
		fmt.Println("Book is empty, nothing to publish.")
		return subcommands.ExitSuccess
	}

	review, err := loanbook.NewReview(ctx, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to project the book: %v\n", err)
		return subcommands.ExitFailure
	}

	// Run the tasks
	for _, task := range publishTasks(review) {
		md, err := renderReport(review, task)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate %s report for %s: %v\n", task.Report, task.AsOf, err)
			continue
		}

		// Generate frontmatter if template is provided
		if frontMatterTpl != nil {
			fm, err := renderFrontMatter(frontMatterTpl, task)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to render front matter for %s report %s: %v\n", task.Report, task.AsOf, err)
				continue
			}
			md = fm + "\n" + md // Prepend front matter to markdown
		}

		filePath := path.Join(task.Report, task.Folder, task.AsOf.String()+".md")
		fullPath := filepath.Join(c.outputDir, filePath)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output directory for file %s: %v\n", filePath, err)
			return subcommands.ExitFailure
		}

		if err := os.WriteFile(fullPath, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write file %s: %v\n", filePath, err)
			return subcommands.ExitFailure
		}
		log.Printf("Generated %s report %s", task.Report, filePath)
	}

	return subcommands.ExitSuccess
}

// publishTasks lists every file one publish run writes for the review.
func publishTasks(review *loanbook.Review) []reportTask {
	asof := review.AsOf()

	tasks := []reportTask{
		{Report: "review", AsOf: asof},
		{Report: "tiers", AsOf: asof},
		{Report: "risk", AsOf: asof},
	}
	for _, p := range []date.Period{date.Monthly, date.Quarterly, date.Yearly} {
		tasks = append(tasks, reportTask{Report: "schedule", Folder: p.String(), AsOf: asof})
	}
	for _, s := range review.Schedules() {
		tasks = append(tasks, reportTask{Report: "loans", Folder: s.LoanID, AsOf: asof})
	}
	return tasks
}

func renderReport(review *loanbook.Review, task reportTask) (string, error) {
	switch task.Report {
	case "review":
		return renderer.RenderReview(renderer.NewReview(review), renderer.ReviewRenderOptions{}), nil
	case "tiers":
		return renderer.ScheduleMarkdown(review, renderer.ScheduleOptions{ByTier: true})
	case "risk":
		r, err := renderer.NewRisk(review, loanbook.DurationOptions{WithConvexity: true})
		if err != nil {
			return "", err
		}
		return renderer.RiskMarkdown(r), nil
	case "schedule":
		period, err := date.ParsePeriod(task.Folder)
		if err != nil {
			return "", err
		}
		return renderer.ScheduleMarkdown(review, renderer.ScheduleOptions{Period: period})
	case "loans":
		return renderer.ScheduleMarkdown(review, renderer.ScheduleOptions{LoanID: task.Folder})
	default:
		return "", fmt.Errorf("unknown report %q", task.Report)
	}
}

func renderFrontMatter(tpl *template.Template, task reportTask) (string, error) {
	var fmBuffer bytes.Buffer
	if err := tpl.Execute(&fmBuffer, task); err != nil {
		return "", err
	}
	return fmBuffer.String(), nil
}
