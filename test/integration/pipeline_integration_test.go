//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core"
	"github.com/nutrigen/carbofit/internal/core/diversity"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/optimize"
	"github.com/nutrigen/carbofit/internal/core/resolve"
	"github.com/nutrigen/carbofit/internal/generator"
	"github.com/nutrigen/carbofit/internal/index"
	"github.com/nutrigen/carbofit/internal/llm"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

// Full-flow test against a live LLM provider: generate drafts, resolve
// them against the shipped reference table and verify the accepted
// recipes land inside the tolerance window.
func TestFullFlow(t *testing.T) {
	_ = godotenv.Load("../../.env")

	if os.Getenv("LLM_API_KEY") == "" {
		t.Skip("Skipping integration test: LLM_API_KEY not set")
	}

	cfg, err := config.Load("../../config/config.toml")
	require.NoError(t, err)
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.LLM.Provider = p
	}
	if m := os.Getenv("LLM_MODEL"); m != "" {
		cfg.LLM.Model = m
	}

	log := logger.Nop()

	table, err := store.LoadCSV("../../data/ingredients.csv")
	require.NoError(t, err)

	llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
	require.NoError(t, err)

	// The index artifact is environment-provided; without it semantic
	// resolution is skipped, the exact and synonym levels still work.
	var ix *index.Index
	if loaded, err := index.Load("../../data/ingredient_index.json"); err == nil {
		ix = loaded
	}

	resolver := resolve.NewResolver(table, ix, embedder, resolve.FromConfig(cfg.Resolver), log)
	optimizer := optimize.NewOptimizer(optimize.FromConfig(cfg.Optimizer), table.Complements(cfg.Data.Complements, log), log)
	pipeline := core.NewPipeline(resolver, optimizer, diversity.NewFilter(diversity.FromConfig(cfg.Diversity)), core.FromConfig(cfg.Pipeline), log)

	gen := generator.NewGenerator(llmClient, nil, generator.FromConfig(cfg.Generator), log)

	target := model.UserTarget{
		TargetCHOG: 80,
		ToleranceG: 10,
		IsVegan:    true,
	}

	drafts, err := gen.Drafts(context.Background(), target, 4)
	require.NoError(t, err)
	require.NotEmpty(t, drafts)

	result, err := pipeline.Run(context.Background(), drafts, target)
	require.NoError(t, err)

	t.Logf("accepted=%d rejected=%d", len(result.Accepted), len(result.Rejected))
	for _, c := range result.Accepted {
		assert.InDelta(t, target.TargetCHOG, c.TotalCHO, target.ToleranceG)
		assert.True(t, c.Flags.IsVegan, "accepted recipe %q is not vegan", c.Title)
	}
	for _, r := range result.Rejected {
		assert.NotEmpty(t, r.Reason)
	}
}

// Resolution against the live embedder: common Italian ingredient names
// should resolve through the direct levels without calling out at all.
func TestResolveDirectLevels(t *testing.T) {
	_ = godotenv.Load("../../.env")

	table, err := store.LoadCSV("../../data/ingredients.csv")
	require.NoError(t, err)

	resolver := resolve.NewResolver(table, nil, nil, resolve.DefaultConfig(), logger.Nop())

	cases := []struct {
		raw   string
		want  string
		level model.MatchLevel
	}{
		{"Pomodoro", "Pomodoro", model.MatchExact},
		{"pomodori", "Pomodoro", model.MatchSynonym},
		{"Zucchine rosse", "Zucchine", model.MatchExact},
		{"zucchina", "Zucchine", model.MatchSynonym},
	}
	for _, tc := range cases {
		got := resolver.Resolve(context.Background(), tc.raw, 100)
		require.NotNil(t, got.Matched, "expected %q to resolve", tc.raw)
		assert.Equal(t, tc.want, got.Matched.Name)
		assert.Equal(t, tc.level, got.Level)
	}
}
