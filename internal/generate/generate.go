package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jsravan/postpilot/internal/llm"
)

// PostIdea is one candidate post topic parsed from the model response.
type PostIdea struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

const ideasPrompt = `You are a social media marketer.

Task:
- List %d unique topics that I worked on that can be turned into LinkedIn posts based on the following weekly GitHub activity summary.

Notes:
- Do not add any emojis.
- Respond with ONLY a JSON array, no markdown, no code fences, no surrounding text. Each element has:
  - heading: A short title for the post
  - body: A detailed explanation of the topic suitable for a LinkedIn post

Summary:
%s`

const draftPrompt = `You are a social media marketer and a good story writer with solid technical and coding knowledge.

Your tasks:
- Based on the following brief, create a LinkedIn post.
- Make it personal and add story-telling.
- Add reasons supporting why I would have done this.

Notes:
- Always write in first person and write like a human, not like a bot.
- Feel free to add emojis and a very tiny bit of humor if relevant.
- Only provide the post body without any markdown.
- Keep the language simple, professional yet engaging.

Brief:
%s`

// Generator turns an activity summary into post ideas and full drafts.
type Generator struct {
	provider  llm.Provider
	ideaCount int
	maxTokens int
}

// NewGenerator creates a generator. ideaCount defaults to 5 and maxTokens
// to 2048 when zero.
func NewGenerator(provider llm.Provider, ideaCount, maxTokens int) *Generator {
	if ideaCount <= 0 {
		ideaCount = 5
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Generator{provider: provider, ideaCount: ideaCount, maxTokens: maxTokens}
}

// Ideas asks the model for post topics and parses the JSON array response.
// A malformed response is an error; the caller ends the run without
// publishing anything.
func (g *Generator) Ideas(ctx context.Context, summary string) ([]PostIdea, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("no LLM provider available")
	}

	prompt := fmt.Sprintf(ideasPrompt, g.ideaCount, summary)
	text, err := g.provider.Generate(ctx, prompt, g.maxTokens)
	if err != nil {
		return nil, err
	}

	text = llm.StripCodeFences(text)
	var ideas []PostIdea
	if err := json.Unmarshal([]byte(text), &ideas); err != nil {
		return nil, fmt.Errorf("parsing ideas response: %w", err)
	}
	return ideas, nil
}

// Draft expands one idea body into a full first-person post.
func (g *Generator) Draft(ctx context.Context, brief string) (string, error) {
	if g.provider == nil {
		return "", fmt.Errorf("no LLM provider available")
	}

	prompt := fmt.Sprintf(draftPrompt, brief)
	text, err := g.provider.Generate(ctx, prompt, g.maxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
