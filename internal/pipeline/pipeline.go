package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jsravan/postpilot/internal/config"
	"github.com/jsravan/postpilot/internal/database"
	"github.com/jsravan/postpilot/internal/generate"
	"github.com/jsravan/postpilot/internal/github"
	"github.com/jsravan/postpilot/internal/llm"
	"github.com/jsravan/postpilot/internal/notion"
	"github.com/jsravan/postpilot/internal/summary"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunDate   string
	Steps     []StepResult
	Published int
	Failed    int

	// FatalErr is set when the run ended on a failure the caller should
	// propagate (a feed fetch error). A generation parse failure is logged
	// and recorded in Steps but ends the run gracefully.
	FatalErr error
}

// ActivitySource provides recent activity events.
type ActivitySource interface {
	RecentActivity(ctx context.Context) ([]github.Activity, error)
}

// Publisher creates one record per post.
type Publisher interface {
	CreatePost(ctx context.Context, post notion.Post) error
}

// Pipeline orchestrates the 4-step run: fetch -> summarize -> generate -> publish.
type Pipeline struct {
	cfg       *config.Config
	db        *database.DB
	source    ActivitySource
	publisher Publisher
	gen       *generate.Generator
}

// New creates a pipeline wired to the live GitHub, LLM, and Notion clients.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	g := cfg.Generation
	provider := llm.CreateProvider(g.Provider, g.OpenAIModel, g.APIKeyEnv, g.OllamaModel, g.OllamaURL)

	return &Pipeline{
		cfg:       cfg,
		db:        db,
		source:    github.NewClient(cfg.GitHub.Username, os.Getenv(cfg.GitHub.TokenEnv), cfg.GitHub.PageSize, cfg.GitHub.DaysBack),
		publisher: notion.NewClient(os.Getenv(cfg.Notion.TokenEnv), cfg.Notion.DatabaseID),
		gen:       generate.NewGenerator(provider, g.IdeaCount, g.MaxTokens),
	}
}

// Run executes the full pipeline for runDate (YYYY-MM-DD). Idea i gets due
// date runDate+i; publish failures are isolated per record and never shift
// sibling dates.
func (p *Pipeline) Run(ctx context.Context, runDate string) *Result {
	r := &Result{RunDate: runDate}

	// Step 1: Fetch activity
	log.Println("Step 1/4: Fetching GitHub activity...")
	activity, err := p.source.RecentActivity(ctx)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Fetch", Err: err})
		r.FatalErr = err
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Found %d push/PR events in the window", len(activity)),
	})

	// Step 2: Summarize
	log.Println("Step 2/4: Summarizing activity...")
	weekly := summary.Summarize(activity)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Summarize",
		Summary: fmt.Sprintf("%d-line summary", len(strings.Split(weekly, "\n"))),
	})

	// Step 3: Generate ideas
	log.Println("Step 3/4: Generating post ideas...")
	ideas, err := p.gen.Ideas(ctx, weekly)
	if err != nil {
		// A malformed model response ends the run before any publish.
		log.Printf("Error parsing ideas response: %v", err)
		r.Steps = append(r.Steps, StepResult{Name: "Generate", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Generate",
		Summary: fmt.Sprintf("Generated %d post ideas", len(ideas)),
	})

	// Step 4: Publish, one record per idea
	log.Println("Step 4/4: Publishing posts to Notion...")
	runID, err := p.db.InsertRun(runDate, weekly, len(ideas))
	if err != nil {
		log.Printf("Error recording run: %v", err)
	}

	start, err := time.Parse("2006-01-02", runDate)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Publish", Err: fmt.Errorf("invalid run date %q: %w", runDate, err)})
		return r
	}

	for i, idea := range ideas {
		dueDate := start.AddDate(0, 0, i).Format("2006-01-02")

		draft, err := p.gen.Draft(ctx, idea.Body)
		if err != nil {
			// Publish the brief alone rather than dropping the record.
			log.Printf("Draft generation failed for %q: %v", idea.Heading, err)
			draft = ""
		}

		post := notion.Post{Heading: idea.Heading, Brief: idea.Body, Draft: draft, DueDate: dueDate}

		var draftPtr *string
		if draft != "" {
			draftPtr = &draft
		}
		postID, err := p.db.InsertPost(runID, post.Heading, post.Brief, draftPtr, dueDate)
		if err != nil {
			log.Printf("Error recording post %q: %v", post.Heading, err)
		}

		if err := p.publisher.CreatePost(ctx, post); err != nil {
			log.Printf("Failed to add post for %s: %v", dueDate, err)
			if postID > 0 {
				p.db.MarkPostFailed(postID, err.Error())
			}
			r.Failed++
			continue
		}

		log.Printf("Post %q added to Notion for %s.", post.Heading, dueDate)
		if postID > 0 {
			p.db.MarkPostPublished(postID)
		}
		r.Published++
	}

	if err := p.db.UpdateRunCounts(runID, r.Published, r.Failed); err != nil {
		log.Printf("Error updating run counts: %v", err)
	}

	r.Steps = append(r.Steps, StepResult{
		Name:    "Publish",
		Summary: fmt.Sprintf("Published %d posts, %d failed", r.Published, r.Failed),
	})
	return r
}

// DryRun fetches and summarizes but makes no generation or publish calls.
func (p *Pipeline) DryRun(ctx context.Context, runDate string) *Result {
	r := &Result{RunDate: runDate}

	activity, err := p.source.RecentActivity(ctx)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Fetch", Err: err})
		r.FatalErr = err
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Found %d push/PR events in the window", len(activity)),
	})

	weekly := summary.Summarize(activity)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Summarize",
		Summary: weekly,
	})

	ideaCount := p.cfg.Generation.IdeaCount
	r.Steps = append(r.Steps, StepResult{
		Name:    "Generate",
		Summary: fmt.Sprintf("[dry-run] Would request %d post ideas", ideaCount),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Publish",
		Summary: fmt.Sprintf("[dry-run] Would publish %d posts with due dates starting %s", ideaCount, runDate),
	})
	return r
}
