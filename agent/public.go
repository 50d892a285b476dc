package agent

import (
	"context"
	"fmt"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/docs"
	"github.com/etnz/loanbook/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user owns or services a book of amortizing loans. They are here primarily to understand
			the projected cash flows of their book, the prepayment and credit assumptions behind them,
			and the value and rate risk of the whole.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.

			The user will assume that you know about his loans, check the book first through the Actuary.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the market analyst, the expert for anything outside
// the book: rates, consumer credit news, lenders, and institutions.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert credit market analyst,
		very well aware of consumer lending, interest rates, and the institutions behind them,
		about the latest news on lenders, rates, and credit performance.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in credit markets, you can search and find about anything related to
			consumer lending, interest rates, lenders, servicers, prepayment behavior etc. You leverage
			Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewActuary returns the expert that reads the loan book at bookPath and
// answers with its reports.
func NewActuary(bookPath string) *Expert {

	lib := []Function{reviewFunc(bookPath), projectionFunc(bookPath), riskFunc(bookPath)}

	return &Expert{
		Name: "Actuary",
		Description: `This is the Actuary, in charge of reading the user's loan book.
		The Actuary can project the book's cash flows and compute the relevant figures about the user's loans.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an actuary in charge of the user's loan book.
				You know how to use the Tools to extract relevant information about the user's loans and
				their projected cash flows. You are part of a team of experts, yours is everything inside
				the book. They might ask you questions about the user's loans, pardon their approximative
				language and figure out what they meant.

				Use the available tools to get information about the user's loan book
				  - the review (loans outstanding, assumptions, projected totals)
				  - the projection (period by period cash flows)
				  - the risk figures (value, duration, convexity, weighted average life)
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// The function list below is hand rolled; revisit if it grows past a handful.

func reviewFunc(bookPath string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Review",
			Description: `Review summarizes the loan book: the loans outstanding with their balances
			and rates, the assumption tiers they project under, and the projected totals (interest,
			principal, credit losses, recoveries, investor take).`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted review of the loan book.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			review, err := loadReview(ctx, bookPath)
			if err != nil {
				return errResponse(id, "Review", err)
			}
			md := renderer.RenderReview(renderer.NewReview(review), renderer.ReviewRenderOptions{})
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Review",
				Response: map[string]any{
					"output": md,
				},
			}
		},
	}
}

func projectionFunc(bookPath string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Projection",
			Description: `Projection lists the book's projected cash flows period by period: interest,
			scheduled and prepaid principal, credit losses, recoveries, and the investor's share.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type:        genai.TypeString,
						Description: `Calendar bucketing of the rows: "monthly" (the default), "quarterly", or "yearly".`,
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the projected cash flows, one row per period.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			period, err := parsePeriod(args)
			if err != nil {
				return errResponse(id, "Projection", err)
			}
			review, err := loadReview(ctx, bookPath)
			if err != nil {
				return errResponse(id, "Projection", err)
			}
			md, err := renderer.ScheduleMarkdown(review, renderer.ScheduleOptions{Period: period})
			if err != nil {
				return errResponse(id, "Projection", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Projection",
				Response: map[string]any{
					"output": md,
				},
			}
		},
	}
}

func riskFunc(bookPath string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Risk",
			Description: `Risk measures the book's interest-rate sensitivity: present value, Macaulay
			and modified duration, convexity, weighted average life, and repriced values under parallel
			rate shocks.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted risk report for the loan book.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			review, err := loadReview(ctx, bookPath)
			if err != nil {
				return errResponse(id, "Risk", err)
			}
			r, err := renderer.NewRisk(review, loanbook.DurationOptions{WithConvexity: true})
			if err != nil {
				return errResponse(id, "Risk", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Risk",
				Response: map[string]any{
					"output": renderer.RiskMarkdown(r),
				},
			}
		},
	}
}

// loadReview loads the book at bookPath and projects it.
func loadReview(ctx context.Context, bookPath string) (*loanbook.Review, error) {
	book, err := loanbook.LoadBook(bookPath)
	if err != nil {
		return nil, fmt.Errorf("could not load book: %w", err)
	}
	p, err := book.Portfolio()
	if err != nil {
		return nil, err
	}
	return loanbook.NewReview(ctx, p)
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func parsePeriod(args map[string]any) (date.Period, error) {
	iperiod, hasPeriod := args["period"]
	if !hasPeriod {
		return date.Monthly, nil
	}
	speriod, ok := iperiod.(string)
	if !ok {
		return date.Monthly, fmt.Errorf("argument 'period' is not a string as expected but %T", iperiod)
	}

	period, err := date.ParsePeriod(speriod)
	if err != nil {
		return date.Monthly, fmt.Errorf("argument 'period' must be a valid period got %q. Below is the doc about the reports\n\n%s", speriod, must(docs.GetTopic("reports")))
	}

	return period, nil
}
