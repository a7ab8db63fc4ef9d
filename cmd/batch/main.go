// Batch runner: verifies a file of recipe drafts against a carbohydrate
// target and prints a report. Useful for checking a reference table or
// tuning optimizer settings without standing up the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core"
	"github.com/nutrigen/carbofit/internal/core/diversity"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/optimize"
	"github.com/nutrigen/carbofit/internal/core/resolve"
	"github.com/nutrigen/carbofit/internal/index"
	"github.com/nutrigen/carbofit/internal/llm"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.toml", "path to the TOML configuration file")
		draftsPath  = flag.String("drafts", "", "path to a JSON file with an array of recipe drafts")
		targetCHO   = flag.Float64("target", 0, "target carbohydrates in grams")
		tolerance   = flag.Float64("tolerance", 10, "accepted deviation from the target in grams")
		vegan       = flag.Bool("vegan", false, "require vegan recipes")
		vegetarian  = flag.Bool("vegetarian", false, "require vegetarian recipes")
		glutenFree  = flag.Bool("gluten-free", false, "require gluten-free recipes")
		lactoseFree = flag.Bool("lactose-free", false, "require lactose-free recipes")
		jsonOut     = flag.Bool("json", false, "print the full result as JSON instead of a report")
	)
	flag.Parse()

	if *draftsPath == "" || *targetCHO <= 0 {
		fmt.Fprintln(os.Stderr, "usage: batch -drafts <file.json> -target <grams> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fatalf("build logger: %v", err)
	}
	defer log.Sync()

	drafts, err := readDrafts(*draftsPath)
	if err != nil {
		fatalf("read drafts: %v", err)
	}

	table, err := store.LoadCSV(cfg.Data.IngredientsCSV)
	if err != nil {
		fatalf("%v: %v", model.ErrResourceUnavailable, err)
	}
	ix, err := index.Load(cfg.Data.IndexPath)
	if err != nil {
		fatalf("%v: %v", model.ErrResourceUnavailable, err)
	}

	// Semantic resolution is optional here: without credentials the
	// resolver still works through the exact and synonym levels.
	var embedder llm.EmbedderClient
	if _, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM); err != nil {
		log.Warn("no embedding client, semantic resolution disabled", "error", err)
	} else {
		embedder = embedderClient
	}

	resolver := resolve.NewResolver(table, ix, embedder, resolve.FromConfig(cfg.Resolver), log)
	optimizer := optimize.NewOptimizer(optimize.FromConfig(cfg.Optimizer), table.Complements(cfg.Data.Complements, log), log)
	filter := diversity.NewFilter(diversity.FromConfig(cfg.Diversity))
	pipeline := core.NewPipeline(resolver, optimizer, filter, core.FromConfig(cfg.Pipeline), log)

	target := model.UserTarget{
		TargetCHOG:    *targetCHO,
		ToleranceG:    *tolerance,
		IsVegan:       *vegan,
		IsVegetarian:  *vegetarian,
		IsGlutenFree:  *glutenFree,
		IsLactoseFree: *lactoseFree,
	}

	result, err := pipeline.Run(context.Background(), drafts, target)
	if err != nil {
		fatalf("pipeline: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fatalf("encode result: %v", err)
		}
		return
	}

	printReport(result, target)
}

func readDrafts(path string) ([]model.DraftRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var drafts []model.DraftRecipe
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return drafts, nil
}

func printReport(result *core.Result, target model.UserTarget) {
	fmt.Printf("Target: %.1f g CHO (±%.1f g)\n\n", target.TargetCHOG, target.ToleranceG)

	fmt.Printf("Accepted (%d):\n", len(result.Accepted))
	for _, c := range result.Accepted {
		fmt.Printf("  %-40s %6.2f g CHO", c.Title, c.TotalCHO)
		if c.Optimization != nil && c.Optimization.Strategy != model.StrategyNone {
			fmt.Printf("  [%s: %.1f -> %.1f]",
				c.Optimization.Strategy, c.Optimization.DeltaBefore, c.Optimization.DeltaAfter)
		}
		fmt.Println()
	}

	if len(result.Rejected) > 0 {
		fmt.Printf("\nRejected (%d):\n", len(result.Rejected))
		for _, r := range result.Rejected {
			fmt.Printf("  %-40s %s: %s\n", r.Title, r.Reason, r.Detail)
		}
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
