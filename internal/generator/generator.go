// Package generator produces draft recipes through an LLM. Drafts are
// untrusted creative output: nothing here is verified, that is the
// pipeline's job.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nutrigen/carbofit/internal/cache"
	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/common"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/llm"
	"github.com/nutrigen/carbofit/internal/logger"
)

type Config struct {
	MaxRetries int
	CacheTTL   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		CacheTTL:   6 * time.Hour,
	}
}

// FromConfig overlays the file settings on the defaults; zero fields keep
// the default value.
func FromConfig(c config.GeneratorConfig) Config {
	out := DefaultConfig()
	if c.MaxRetries > 0 {
		out.MaxRetries = c.MaxRetries
	}
	return out
}

type Generator struct {
	llm   llm.LLMClient
	cache *cache.Cache
	cfg   Config
	log   *logger.Logger
}

// NewGenerator builds a draft producer. cache may be nil.
func NewGenerator(llmClient llm.LLMClient, c *cache.Cache, cfg Config, log *logger.Logger) *Generator {
	return &Generator{llm: llmClient, cache: c, cfg: cfg, log: log}
}

type draftPayload struct {
	Recipes []model.DraftRecipe `json:"recipes"`
}

// Drafts asks the model for count draft recipes aimed at the target.
// Malformed replies are retried; recipes come back with fresh IDs.
func (g *Generator) Drafts(ctx context.Context, target model.UserTarget, count int) ([]model.DraftRecipe, error) {
	key := cacheKey(target, count)

	var cached []model.DraftRecipe
	if hit, err := g.cache.GetJSON(ctx, key, &cached); err != nil {
		g.log.Warn("draft cache unavailable", "error", err)
	} else if hit {
		g.log.Debug("draft cache hit", "key", key, "recipes", len(cached))
		return cached, nil
	}

	prompt := buildPrompt(target, count)

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		response, err := g.llm.Generate(ctx, prompt)
		if err != nil {
			lastErr = fmt.Errorf("draft generation failed: %w", err)
			continue
		}

		payload, err := common.ParseJSON[draftPayload](response)
		if err != nil {
			g.log.Warn("draft reply was not valid JSON, retrying",
				"attempt", attempt, "error", err)
			lastErr = err
			continue
		}
		if len(payload.Recipes) == 0 {
			lastErr = fmt.Errorf("draft reply contained no recipes")
			continue
		}

		drafts := payload.Recipes
		for i := range drafts {
			drafts[i].ID = uuid.New().String()
		}

		if err := g.cache.SetJSON(ctx, key, drafts); err != nil {
			g.log.Warn("failed to cache drafts", "error", err)
		}
		return drafts, nil
	}
	return nil, fmt.Errorf("no usable drafts after %d attempts: %w", g.cfg.MaxRetries, lastErr)
}

func buildPrompt(target model.UserTarget, count int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Genera %d ricette italiane in formato JSON.\n", count)
	fmt.Fprintf(&sb, "Ogni ricetta deve contenere circa %.0f g di carboidrati totali.\n", target.TargetCHOG)

	var constraints []string
	if target.IsVegan {
		constraints = append(constraints, "vegane")
	}
	if target.IsVegetarian {
		constraints = append(constraints, "vegetariane")
	}
	if target.IsGlutenFree {
		constraints = append(constraints, "senza glutine")
	}
	if target.IsLactoseFree {
		constraints = append(constraints, "senza lattosio")
	}
	if len(constraints) > 0 {
		fmt.Fprintf(&sb, "Tutte le ricette devono essere: %s.\n", strings.Join(constraints, ", "))
	}

	sb.WriteString(`
Rispondi esclusivamente con un oggetto JSON in questo formato:
{
  "recipes": [
    {
      "title": "...",
      "ingredients": [{"name": "...", "quantity_g": 0}],
      "instructions": ["...", "..."]
    }
  ]
}
Usa nomi di ingredienti semplici e quantità in grammi.`)
	return sb.String()
}

func cacheKey(target model.UserTarget, count int) string {
	return fmt.Sprintf("drafts:%d:%.0f:%t%t%t%t",
		count, target.TargetCHOG,
		target.IsVegan, target.IsVegetarian, target.IsGlutenFree, target.IsLactoseFree)
}
