// Package core wires the verification stages together: resolution,
// nutrition, dietary checks, optimization and the diversity filter.
// Per-recipe work runs on a bounded worker pool; one recipe failing never
// takes the batch down with it.
package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/diversity"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/nutrition"
	"github.com/nutrigen/carbofit/internal/core/optimize"
	"github.com/nutrigen/carbofit/internal/core/resolve"
	"github.com/nutrigen/carbofit/internal/logger"
)

type Config struct {
	Workers         int
	MaxResults      int
	MinIngredients  int
	MinInstructions int
}

func DefaultConfig() Config {
	return Config{
		Workers:         4,
		MaxResults:      5,
		MinIngredients:  3,
		MinInstructions: 2,
	}
}

// FromConfig overlays the file settings on the defaults; zero fields keep
// the default value.
func FromConfig(c config.PipelineConfig) Config {
	out := DefaultConfig()
	if c.Workers > 0 {
		out.Workers = c.Workers
	}
	if c.MaxResults > 0 {
		out.MaxResults = c.MaxResults
	}
	if c.MinIngredients > 0 {
		out.MinIngredients = c.MinIngredients
	}
	if c.MinInstructions > 0 {
		out.MinInstructions = c.MinInstructions
	}
	return out
}

type Pipeline struct {
	Resolver  *resolve.Resolver
	Optimizer *optimize.Optimizer
	Diversity *diversity.Filter

	cfg Config
	log *logger.Logger
}

func NewPipeline(resolver *resolve.Resolver, optimizer *optimize.Optimizer, filter *diversity.Filter, cfg Config, log *logger.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{
		Resolver:  resolver,
		Optimizer: optimizer,
		Diversity: filter,
		cfg:       cfg,
		log:       log,
	}
}

// Result is the batch output: the accepted candidates in their final
// order, plus one record per rejected draft for diagnostics.
type Result struct {
	Accepted []*model.RecipeCandidate `json:"accepted"`
	Rejected []model.RejectedRecipe   `json:"rejected"`
}

type job struct {
	idx   int
	draft model.DraftRecipe
}

type workResult struct {
	candidate *model.RecipeCandidate
	rejected  *model.RejectedRecipe
}

// Run processes a batch of drafts against one user target. Resolution and
// optimization fan out across the worker pool; results are collected by
// draft index so the outcome is deterministic regardless of scheduling.
// The diversity filter then runs sequentially over the survivors.
func (p *Pipeline) Run(ctx context.Context, drafts []model.DraftRecipe, target model.UserTarget) (*Result, error) {
	if target.ToleranceG <= 0 {
		return nil, fmt.Errorf("invalid target: tolerance must be positive, got %v", target.ToleranceG)
	}

	p.log.Info("pipeline run started",
		"drafts", len(drafts), "target_cho", target.TargetCHOG, "workers", p.cfg.Workers)

	results := make([]workResult, len(drafts))
	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = p.processDraft(ctx, j.draft, target)
			}
		}()
	}
	for i, d := range drafts {
		jobs <- job{idx: i, draft: d}
	}
	close(jobs)
	wg.Wait()

	res := &Result{}
	var survivors []*model.RecipeCandidate
	for _, r := range results {
		if r.rejected != nil {
			res.Rejected = append(res.Rejected, *r.rejected)
			continue
		}
		if r.candidate != nil {
			survivors = append(survivors, r.candidate)
		}
	}

	res.Accepted = p.Diversity.Apply(survivors, target.TargetCHOG, p.cfg.MaxResults)
	if dropped := len(survivors) - len(res.Accepted); dropped > 0 {
		p.log.Info("diversity filter dropped candidates", "dropped", dropped)
	}

	p.log.Info("pipeline run finished",
		"accepted", len(res.Accepted), "rejected", len(res.Rejected))
	return res, nil
}

// processDraft carries one draft through resolution, optimization and the
// dietary and composition checks. Any failure turns into a rejection
// record instead of an error.
func (p *Pipeline) processDraft(ctx context.Context, draft model.DraftRecipe, target model.UserTarget) workResult {
	cand := &model.RecipeCandidate{
		ID:           draft.ID,
		Title:        draft.Title,
		Instructions: draft.Instructions,
	}
	if cand.ID == "" {
		cand.ID = uuid.New().String()
	}

	var unresolved []string
	for _, ing := range draft.Ingredients {
		resolved := p.Resolver.Resolve(ctx, ing.RawName, ing.QuantityG)
		if resolved.Matched == nil {
			unresolved = append(unresolved, ing.RawName)
		}
		cand.Ingredients = append(cand.Ingredients, resolved)
	}
	if len(unresolved) > 0 {
		return reject(draft, model.RejectResolution,
			fmt.Sprintf("unresolved ingredients: %s", strings.Join(unresolved, ", ")))
	}

	if len(cand.Instructions) < p.cfg.MinInstructions {
		return reject(draft, model.RejectComposition,
			fmt.Sprintf("only %d instruction steps", len(cand.Instructions)))
	}

	nutrition.RecomputeTotals(cand)

	outcome := p.Optimizer.Optimize(cand, target)
	if !outcome.Succeeded {
		return reject(draft, model.RejectOptimization, outcome.Message)
	}

	cand.Flags = nutrition.EvaluateFlags(cand)
	if !nutrition.CheckCompatibility(cand.Flags, target) {
		return reject(draft, model.RejectDietary,
			"computed dietary flags do not satisfy the requested ones")
	}

	if len(cand.Ingredients) < p.cfg.MinIngredients {
		return reject(draft, model.RejectComposition,
			fmt.Sprintf("only %d ingredients", len(cand.Ingredients)))
	}

	return workResult{candidate: cand}
}

func reject(draft model.DraftRecipe, reason model.RejectReason, detail string) workResult {
	return workResult{rejected: &model.RejectedRecipe{
		Title:  draft.Title,
		Reason: reason,
		Detail: detail,
	}}
}
