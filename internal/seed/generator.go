// ABOUTME: Plugin directory data generator for seeding.
// ABOUTME: Uses OpenAI to invent plugin listings, falling back to a static catalog.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// Seed sizes
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

const aiBatchSize = 30

// SizeCount maps a seed size to a number of plugin rows.
func SizeCount(size string) (int, error) {
	switch size {
	case SizeSmall, "":
		return 10, nil
	case SizeMedium:
		return 30, nil
	case SizeLarge:
		return 120, nil
	}
	return 0, fmt.Errorf("unknown seed size %q (want small, medium or large)", size)
}

// Generator creates plugin listings using OpenAI or falls back to static data.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewGenerator creates a generator, loading the API key from .env if available.
func NewGenerator() *Generator {
	LoadEnv()

	g := &Generator{model: os.Getenv("OPENAI_MODEL")}
	if g.model == "" {
		g.model = "gpt-5-mini"
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated plugins with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static plugin catalog")
	}
	return g
}

// NewGeneratorWithClient creates a generator that always uses client.
func NewGeneratorWithClient(client *openai.Client, model string) *Generator {
	return &Generator{client: client, useAI: client != nil, model: model}
}

// LoadEnv loads .env from the working directory, its parents and $HOME.
// Variables already set in the environment win.
func LoadEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}
}

// PluginData is one generated directory listing.
type PluginData struct {
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Author           string            `json:"author"`
	Requires         string            `json:"requires"`
	Tested           string            `json:"tested"`
	RequiresPHP      string            `json:"requires_php"`
	Rating           int               `json:"rating"`
	NumRatings       int               `json:"num_ratings"`
	ActiveInstalls   int64             `json:"active_installs"`
	Downloaded       int64             `json:"downloaded"`
	ShortDescription string            `json:"short_description"`
	Homepage         string            `json:"homepage"`
	Tags             map[string]string `json:"tags"`
}

// Generate returns count plugins with unique slugs.
func (g *Generator) Generate(ctx context.Context, count int) ([]PluginData, error) {
	if count <= 0 {
		return []PluginData{}, nil
	}
	if !g.useAI {
		return generateStatic(count), nil
	}

	log.Printf("Generating %d plugins via AI...", count)

	type result struct {
		batch   int
		plugins []PluginData
		err     error
	}

	batches := (count + aiBatchSize - 1) / aiBatchSize
	resultCh := make(chan result, batches)
	for b := 0; b < batches; b++ {
		n := aiBatchSize
		if rest := count - b*aiBatchSize; rest < n {
			n = rest
		}
		go func(b, n int) {
			plugins, err := g.generatePlugins(ctx, n)
			resultCh <- result{batch: b, plugins: plugins, err: err}
		}(b, n)
	}

	byBatch := make([][]PluginData, batches)
	for i := 0; i < batches; i++ {
		r := <-resultCh
		if r.err != nil {
			log.Printf("  ✗ Failed to generate batch %d: %v", r.batch, r.err)
			log.Print("AI generation incomplete, falling back to static catalog...")
			return generateStatic(count), nil
		}
		byBatch[r.batch] = r.plugins
	}

	var all []PluginData
	for _, b := range byBatch {
		all = append(all, b...)
	}
	plugins := uniqueSlugs(all)
	if len(plugins) < count {
		// top up with static entries the model did not already produce
		plugins = uniqueSlugs(append(plugins, generateStatic(count)...))
	}
	if len(plugins) > count {
		plugins = plugins[:count]
	}

	log.Printf("AI generation complete! (%d plugins)", len(plugins))
	return plugins, nil
}

func (g *Generator) generatePlugins(ctx context.Context, count int) ([]PluginData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic fake WordPress plugin directory listings. Include a mix of:
- SEO, caching and performance plugins
- Security and backup plugins
- Forms, e-commerce and page builder add-ons
- Small single-purpose utilities with few installs

Return as JSON array with objects containing: slug (lowercase, hyphenated, unique), name, version (semver),
author, requires (minimum WordPress version like "6.2"), tested (like "6.6"), requires_php (like "7.4"),
rating (0-100), num_ratings, active_installs (round numbers like 1000, 50000, 1000000), downloaded,
short_description (one sentence, under 150 characters), homepage (URL), tags (object of slug to label, 1-5 entries).`, count)

	return callOpenAI[[]PluginData](ctx, g.client, g.model, prompt)
}

func uniqueSlugs(plugins []PluginData) []PluginData {
	seen := make(map[string]bool, len(plugins))
	out := make([]PluginData, 0, len(plugins))
	for _, p := range plugins {
		p.Slug = strings.TrimSpace(strings.ToLower(p.Slug))
		if p.Slug == "" || seen[p.Slug] {
			continue
		}
		seen[p.Slug] = true
		out = append(out, p)
	}
	return out
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
