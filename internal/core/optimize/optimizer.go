// Package optimize adjusts ingredient quantities to bring a recipe's total
// CHO within tolerance of the user target. Four strategies are available;
// selection is keyed on the magnitude of the gap, and every quantity
// mutation is bounded so the result stays a plausible recipe.
package optimize

import (
	"fmt"
	"math"
	"sort"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/nutrition"
	"github.com/nutrigen/carbofit/internal/logger"
)

type Config struct {
	SkipDelta     float64 // gap below which no adjustment is worth making
	SingleCutoff  float64 // |delta| band for SINGLE_INGREDIENT
	CascadeCutoff float64 // upper edge of the PROPORTIONAL band
	FineTuneDelta float64 // residual gap that triggers the hybrid pass
	ExtremeDelta  float64 // gap past which scale bounds widen

	MinScale        float64
	MaxScale        float64
	MinScaleExtreme float64
	MaxScaleExtreme float64

	MinQuantityG   float64
	MaxDominance   float64 // max share of total CHO for one ingredient
	MaxReduction   float64 // balancing: max fractional cut of the dominant
	MaxIncrease    float64 // balancing: max fractional raise of the others
	AdditionMaxG   float64
	MaxAdditions   int
	MaxIngredients int
	CascadeMaxIter int
}

func DefaultConfig() Config {
	return Config{
		SkipDelta:       3,
		SingleCutoff:    15,
		CascadeCutoff:   30,
		FineTuneDelta:   5,
		ExtremeDelta:    20,
		MinScale:        0.6,
		MaxScale:        2.0,
		MinScaleExtreme: 0.5,
		MaxScaleExtreme: 3.0,
		MinQuantityG:    10,
		MaxDominance:    0.9,
		MaxReduction:    0.4,
		MaxIncrease:     1.0,
		AdditionMaxG:    100,
		MaxAdditions:    3,
		MaxIngredients:  12,
		CascadeMaxIter:  8,
	}
}

// FromConfig overlays the file settings on the defaults; zero fields keep
// the default value.
func FromConfig(c config.OptimizerConfig) Config {
	out := DefaultConfig()
	if c.SkipDelta > 0 {
		out.SkipDelta = c.SkipDelta
	}
	if c.SingleCutoff > 0 {
		out.SingleCutoff = c.SingleCutoff
	}
	if c.CascadeCutoff > 0 {
		out.CascadeCutoff = c.CascadeCutoff
	}
	if c.FineTuneDelta > 0 {
		out.FineTuneDelta = c.FineTuneDelta
	}
	if c.ExtremeDelta > 0 {
		out.ExtremeDelta = c.ExtremeDelta
	}
	if c.MinScale > 0 {
		out.MinScale = c.MinScale
	}
	if c.MaxScale > 0 {
		out.MaxScale = c.MaxScale
	}
	if c.MinScaleExtreme > 0 {
		out.MinScaleExtreme = c.MinScaleExtreme
	}
	if c.MaxScaleExtreme > 0 {
		out.MaxScaleExtreme = c.MaxScaleExtreme
	}
	if c.MinQuantityG > 0 {
		out.MinQuantityG = c.MinQuantityG
	}
	if c.MaxDominance > 0 {
		out.MaxDominance = c.MaxDominance
	}
	if c.MaxReduction > 0 {
		out.MaxReduction = c.MaxReduction
	}
	if c.MaxIncrease > 0 {
		out.MaxIncrease = c.MaxIncrease
	}
	if c.AdditionMaxG > 0 {
		out.AdditionMaxG = c.AdditionMaxG
	}
	if c.MaxAdditions > 0 {
		out.MaxAdditions = c.MaxAdditions
	}
	if c.MaxIngredients > 0 {
		out.MaxIngredients = c.MaxIngredients
	}
	if c.CascadeMaxIter > 0 {
		out.CascadeMaxIter = c.CascadeMaxIter
	}
	return out
}

// Optimizer mutates candidates toward a CHO target. The complement list
// holds reference ingredients the fallback step may add when scaling alone
// cannot close the gap.
type Optimizer struct {
	cfg         Config
	complements []model.ReferenceIngredient
	log         *logger.Logger
}

func NewOptimizer(cfg Config, complements []model.ReferenceIngredient, log *logger.Logger) *Optimizer {
	return &Optimizer{cfg: cfg, complements: complements, log: log}
}

// Optimize adjusts c in place and returns the outcome. The outcome is
// attached to the candidate as provenance whether or not it succeeded.
func (o *Optimizer) Optimize(c *model.RecipeCandidate, target model.UserTarget) model.OptimizationOutcome {
	nutrition.RecomputeTotals(c)
	deltaBefore := target.TargetCHOG - c.TotalCHO

	outcome := model.OptimizationOutcome{
		Strategy:    model.StrategyNone,
		DeltaBefore: deltaBefore,
		DeltaAfter:  deltaBefore,
	}

	// The shortcut may not declare success outside the user's tolerance,
	// which can be tighter than SkipDelta.
	if math.Abs(deltaBefore) < o.cfg.SkipDelta && math.Abs(deltaBefore) <= target.ToleranceG {
		outcome.Succeeded = true
		outcome.Message = "already on target"
		c.Optimization = &outcome
		return outcome
	}

	// Pre-optimization quantities anchor the cumulative realism bound:
	// however many passes touch an ingredient, it never grows past
	// MaxScaleExtreme times its draft amount.
	orig := make([]float64, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		orig[i] = ing.QuantityG
	}

	o.balanceDistribution(c, orig)
	delta := target.TargetCHOG - c.TotalCHO

	strategy := o.selectStrategy(delta)
	o.apply(strategy, c, target, orig)
	outcome.Strategy = strategy

	// Hybrid pass: when the chosen strategy leaves a noticeable residual,
	// try the alternatives on copies and keep whichever lands closest.
	if gap(c, target) > o.cfg.FineTuneDelta {
		if improved := o.bestAlternative(c, target, strategy, orig); improved != nil {
			c.Ingredients = improved.Ingredients
			nutrition.RecomputeTotals(c)
			outcome.Strategy = model.StrategyHybrid
		}
	}

	if gap(c, target) > target.ToleranceG {
		o.suggestAdditions(c, target)
	}

	outcome.DeltaAfter = target.TargetCHOG - c.TotalCHO
	outcome.Succeeded = math.Abs(outcome.DeltaAfter) <= target.ToleranceG
	if outcome.Succeeded {
		outcome.Message = fmt.Sprintf("reached %.1fg CHO for target %.1fg", c.TotalCHO, target.TargetCHOG)
	} else {
		outcome.Message = fmt.Sprintf("best attempt left %.1fg gap", outcome.DeltaAfter)
		o.log.Debug("optimization failed", "title", c.Title,
			"delta_before", deltaBefore, "delta_after", outcome.DeltaAfter)
	}
	c.Optimization = &outcome
	return outcome
}

func (o *Optimizer) selectStrategy(delta float64) model.StrategyKind {
	switch abs := math.Abs(delta); {
	case abs < o.cfg.SingleCutoff:
		return model.StrategySingleIngredient
	case abs < o.cfg.CascadeCutoff:
		return model.StrategyProportional
	default:
		return model.StrategyCascade
	}
}

func (o *Optimizer) apply(strategy model.StrategyKind, c *model.RecipeCandidate, target model.UserTarget, orig []float64) {
	switch strategy {
	case model.StrategySingleIngredient:
		o.applySingle(c, target, orig)
	case model.StrategyProportional:
		o.applyProportional(c, target, orig)
	case model.StrategyCascade:
		o.applyCascade(c, target, orig)
	}
}

// applySingle rescales the largest CHO contributor. Ties go to the
// ingredient that appears first in the recipe.
func (o *Optimizer) applySingle(c *model.RecipeCandidate, target model.UserTarget, orig []float64) {
	delta := target.TargetCHOG - c.TotalCHO
	best := -1
	for i, ing := range c.Ingredients {
		if ing.Matched == nil || ing.ContribCHO <= 0 {
			continue
		}
		if best == -1 || ing.ContribCHO > c.Ingredients[best].ContribCHO {
			best = i
		}
	}
	if best == -1 {
		return
	}

	contrib := c.Ingredients[best].ContribCHO
	factor := o.clampScale((contrib+delta)/contrib, delta)
	o.scaleIngredient(&c.Ingredients[best], factor, orig[best])
	nutrition.RecomputeTotals(c)
}

// applyProportional rescales every CHO contributor by one factor so the
// recipe keeps its relative composition.
func (o *Optimizer) applyProportional(c *model.RecipeCandidate, target model.UserTarget, orig []float64) {
	delta := target.TargetCHOG - c.TotalCHO
	if c.TotalCHO <= 0 {
		return
	}
	factor := o.clampScale((c.TotalCHO+delta)/c.TotalCHO, delta)
	for i := range c.Ingredients {
		ing := &c.Ingredients[i]
		if ing.Matched == nil || ing.ContribCHO <= 0 {
			continue
		}
		o.scaleIngredient(ing, factor, orig[i])
	}
	nutrition.RecomputeTotals(c)
}

// applyCascade walks contributors largest-first, nudging one per step and
// recomputing totals before choosing the next, until the gap is inside
// tolerance or the iteration cap is hit.
func (o *Optimizer) applyCascade(c *model.RecipeCandidate, target model.UserTarget, orig []float64) {
	order := contributorOrder(c)
	if len(order) == 0 {
		return
	}
	for iter := 0; iter < o.cfg.CascadeMaxIter; iter++ {
		delta := target.TargetCHOG - c.TotalCHO
		if math.Abs(delta) <= target.ToleranceG {
			return
		}
		idx := order[iter%len(order)]
		ing := &c.Ingredients[idx]
		if ing.ContribCHO <= 0 {
			continue
		}
		factor := o.clampScale((ing.ContribCHO+delta)/ing.ContribCHO, delta)
		o.scaleIngredient(ing, factor, orig[idx])
		nutrition.RecomputeTotals(c)
	}
}

// bestAlternative runs the strategies other than tried on copies of c and
// returns the copy with the smallest gap, or nil when none improves on c.
func (o *Optimizer) bestAlternative(c *model.RecipeCandidate, target model.UserTarget, tried model.StrategyKind, orig []float64) *model.RecipeCandidate {
	var best *model.RecipeCandidate
	bestGap := gap(c, target)

	for _, s := range []model.StrategyKind{model.StrategySingleIngredient, model.StrategyProportional, model.StrategyCascade} {
		if s == tried {
			continue
		}
		clone := cloneCandidate(c)
		o.apply(s, clone, target, orig)
		if g := gap(clone, target); g < bestGap {
			best, bestGap = clone, g
		}
	}
	return best
}

// suggestAdditions closes a remaining positive gap by adding CHO-dense
// complement ingredients that respect the requested dietary flags.
func (o *Optimizer) suggestAdditions(c *model.RecipeCandidate, target model.UserTarget) {
	present := map[string]struct{}{}
	for _, ing := range c.Ingredients {
		if ing.Matched != nil {
			present[ing.Matched.Name] = struct{}{}
		}
	}

	candidates := make([]model.ReferenceIngredient, 0, len(o.complements))
	for _, ref := range o.complements {
		if _, dup := present[ref.Name]; dup {
			continue
		}
		if ref.CHOPer100g <= 0 {
			continue
		}
		if !compatibleAddition(ref, target) {
			continue
		}
		candidates = append(candidates, ref)
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].CHOPer100g > candidates[b].CHOPer100g
	})

	added := 0
	for _, ref := range candidates {
		remaining := target.TargetCHOG - c.TotalCHO
		if remaining <= target.ToleranceG {
			return
		}
		if added >= o.cfg.MaxAdditions || len(c.Ingredients) >= o.cfg.MaxIngredients {
			return
		}
		qty := remaining / ref.CHOPer100g * 100
		qty = math.Min(qty, o.cfg.AdditionMaxG)
		qty = math.Max(qty, o.cfg.MinQuantityG)

		ref := ref
		c.Ingredients = append(c.Ingredients, model.ResolvedIngredient{
			RawName:    ref.Name,
			Matched:    &ref,
			QuantityG:  round1(qty),
			Confidence: 1.0,
			Level:      model.MatchExact,
		})
		nutrition.RecomputeTotals(c)
		added++
		o.log.Debug("added complement ingredient", "title", c.Title,
			"ingredient", ref.Name, "quantity_g", qty)
	}
}

func compatibleAddition(ref model.ReferenceIngredient, target model.UserTarget) bool {
	if target.IsVegan && !ref.IsVegan {
		return false
	}
	if target.IsVegetarian && !ref.IsVegetarian {
		return false
	}
	if target.IsGlutenFree && !ref.IsGlutenFree {
		return false
	}
	if target.IsLactoseFree && !ref.IsLactoseFree {
		return false
	}
	return true
}

func (o *Optimizer) clampScale(factor, delta float64) float64 {
	lo, hi := o.cfg.MinScale, o.cfg.MaxScale
	if math.Abs(delta) > o.cfg.ExtremeDelta {
		lo, hi = o.cfg.MinScaleExtreme, o.cfg.MaxScaleExtreme
	}
	return math.Min(math.Max(factor, lo), hi)
}

// scaleIngredient applies one scaling step, then enforces the global
// bounds: never below the minimum serving, never above MaxScaleExtreme
// times the pre-optimization quantity.
func (o *Optimizer) scaleIngredient(ing *model.ResolvedIngredient, factor, origQty float64) {
	qty := ing.QuantityG * factor
	if ceiling := origQty * o.cfg.MaxScaleExtreme; qty > ceiling {
		qty = ceiling
	}
	if qty < o.cfg.MinQuantityG {
		qty = o.cfg.MinQuantityG
	}
	ing.QuantityG = round1(qty)
}

// contributorOrder returns indices of matched CHO contributors, largest
// contribution first, original order breaking ties.
func contributorOrder(c *model.RecipeCandidate) []int {
	var order []int
	for i, ing := range c.Ingredients {
		if ing.Matched != nil && ing.ContribCHO > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.Ingredients[order[a]].ContribCHO > c.Ingredients[order[b]].ContribCHO
	})
	return order
}

func gap(c *model.RecipeCandidate, target model.UserTarget) float64 {
	return math.Abs(target.TargetCHOG - c.TotalCHO)
}

func cloneCandidate(c *model.RecipeCandidate) *model.RecipeCandidate {
	clone := *c
	clone.Ingredients = make([]model.ResolvedIngredient, len(c.Ingredients))
	copy(clone.Ingredients, c.Ingredients)
	return &clone
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
