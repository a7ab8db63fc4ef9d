package optimize

import (
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/nutrition"
)

// balanceDistribution caps any single ingredient that supplies more than
// MaxDominance of the recipe's CHO. The dominant ingredient is cut by at
// most MaxReduction and the removed CHO is redistributed to the other
// contributors, each raised by at most MaxIncrease of its quantity.
func (o *Optimizer) balanceDistribution(c *model.RecipeCandidate, orig []float64) {
	if c.TotalCHO <= 0 || len(c.Ingredients) < 2 {
		return
	}

	dominant := -1
	contributors := 0
	for i, ing := range c.Ingredients {
		if ing.Matched == nil || ing.ContribCHO <= 0 {
			continue
		}
		contributors++
		if ing.ContribCHO/c.TotalCHO > o.cfg.MaxDominance {
			dominant = i
		}
	}
	// A lone contributor is trivially dominant; nothing to rebalance to.
	if dominant == -1 || contributors < 2 {
		return
	}

	dom := &c.Ingredients[dominant]
	targetContrib := c.TotalCHO * o.cfg.MaxDominance
	factor := targetContrib / dom.ContribCHO
	if factor < 1-o.cfg.MaxReduction {
		factor = 1 - o.cfg.MaxReduction
	}
	removed := dom.ContribCHO * (1 - factor)
	o.scaleIngredient(dom, factor, orig[dominant])

	// Spread the removed CHO over the remaining contributors,
	// proportionally to what they already supply.
	var othersCHO float64
	for i, ing := range c.Ingredients {
		if i != dominant && ing.Matched != nil && ing.ContribCHO > 0 {
			othersCHO += ing.ContribCHO
		}
	}
	if othersCHO > 0 {
		for i := range c.Ingredients {
			ing := &c.Ingredients[i]
			if i == dominant || ing.Matched == nil || ing.ContribCHO <= 0 {
				continue
			}
			share := removed * ing.ContribCHO / othersCHO
			raise := 1 + share/ing.ContribCHO
			if raise > 1+o.cfg.MaxIncrease {
				raise = 1 + o.cfg.MaxIncrease
			}
			o.scaleIngredient(ing, raise, orig[i])
		}
	}

	nutrition.RecomputeTotals(c)
	o.log.Debug("balanced CHO distribution", "title", c.Title,
		"ingredient", dom.RawName, "factor", factor)
}
