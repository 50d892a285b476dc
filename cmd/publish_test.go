package cmd

import (
	"context"
	"testing"
	"text/template"
	"time"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
)

// testReview projects a small two-loan book for task and render tests.
func testReview(t *testing.T) *loanbook.Review {
	t.Helper()
	p := &loanbook.Portfolio{
		AsOf: date.New(2025, time.January, 1),
		Loans: []loanbook.Loan{
			{ID: "L-001", Balance: 25000, Rate: 0.0599, Term: 60},
			{ID: "L-002", Balance: 50000, Rate: 0.0649, Term: 48, Tier: "near-prime"},
		},
		Assumptions: loanbook.AssumptionSet{
			loanbook.DefaultTier: {CPR: 0.05, CreditRate: 0.01},
		},
		Policy:   loanbook.DefaultPolicy(),
		Currency: "USD",
	}
	review, err := loanbook.NewReview(context.Background(), p)
	if err != nil {
		t.Fatalf("NewReview() error = %v", err)
	}
	return review
}

func TestPublishTasks(t *testing.T) {
	review := testReview(t)

	tasks := publishTasks(review)

	counts := make(map[string]int)
	for _, task := range tasks {
		counts[task.Report]++
		if task.AsOf.String() != "2025-01-01" {
			t.Errorf("task %s/%s dated %s, want 2025-01-01", task.Report, task.Folder, task.AsOf)
		}
	}

	want := map[string]int{"review": 1, "tiers": 1, "risk": 1, "schedule": 3, "loans": 2}
	for report, n := range want {
		if counts[report] != n {
			t.Errorf("publishTasks() got %d %q tasks, want %d", counts[report], report, n)
		}
	}
	if len(tasks) != 8 {
		t.Errorf("publishTasks() got %d tasks, want 8", len(tasks))
	}
}

func TestRenderReport(t *testing.T) {
	review := testReview(t)

	for _, task := range publishTasks(review) {
		md, err := renderReport(review, task)
		if err != nil {
			t.Errorf("renderReport(%s/%s) error = %v", task.Report, task.Folder, err)
			continue
		}
		if md == "" {
			t.Errorf("renderReport(%s/%s) returned an empty report", task.Report, task.Folder)
		}
	}
}

func TestRenderFrontMatter(t *testing.T) {
	asof := date.New(2025, time.January, 1)
	tests := []struct {
		name     string
		template string
		task     reportTask
		want     string
		wantErr  bool
	}{
		{
			name:     "basic template",
			template: "---\ntitle: {{.Report}} report as of {{.AsOf}}\n---",
			task:     reportTask{Report: "review", AsOf: asof},
			want:     "---\ntitle: review report as of 2025-01-01\n---",
			wantErr:  false,
		},
		{
			name: "api",
			template: `
{{.Report}}: The report family (e.g., "review", "schedule", "loans").
{{.Folder}}: The sub folder (aggregation period or loan id).
{{.AsOf}}: The projection start date.
{{.AsOf.Format "January 06"}}: A formatted string of the date.`,
			task: reportTask{Report: "schedule", Folder: "monthly", AsOf: asof},
			want: `
schedule: The report family (e.g., "review", "schedule", "loans").
monthly: The sub folder (aggregation period or loan id).
2025-01-01: The projection start date.
January 25: A formatted string of the date.`,
			wantErr: false,
		},
		{
			name:     "empty template",
			template: "",
			task:     reportTask{Report: "review", AsOf: asof},
			want:     "",
			wantErr:  false,
		},
		{
			name:     "template with error",
			template: "{{.NonExistentField}}",
			task:     reportTask{Report: "review", AsOf: asof},
			want:     "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := template.New("test").Parse(tt.template)
			if err != nil && !tt.wantErr {
				t.Fatalf("failed to parse template: %v", err)
			}

			got, err := renderFrontMatter(tpl, tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("renderFrontMatter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("renderFrontMatter() got = %v, want %v", got, tt.want)
			}
		})
	}
}
