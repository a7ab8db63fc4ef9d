// Package nutrition derives per-ingredient nutrient contributions, recipe
// totals and dietary flags from resolved ingredients. Everything here is
// deterministic and side-effect free; the optimizer re-invokes
// RecomputeTotals after every quantity change.
package nutrition

import (
	"math"

	"github.com/nutrigen/carbofit/internal/core/model"
)

// Contribution computes the nutrient vector a single resolved ingredient
// adds to its recipe: quantity_g * per_100g / 100, rounded to 2 decimals.
// An unmatched ingredient contributes nothing.
func Contribution(ing model.ResolvedIngredient) model.NutrientVector {
	if ing.Matched == nil {
		return model.NutrientVector{}
	}
	f := ing.QuantityG / 100.0
	return model.NutrientVector{
		CHO:      round2(f * ing.Matched.CHOPer100g),
		Calories: round2(f * ing.Matched.CaloriesPer100g),
		Protein:  round2(f * ing.Matched.ProteinPer100g),
		Fat:      round2(f * ing.Matched.FatPer100g),
		Fiber:    round2(f * ing.Matched.FiberPer100g),
	}
}

// RecomputeTotals refreshes every ingredient's stored contribution and the
// candidate's totals. Must be called after any quantity mutation.
func RecomputeTotals(c *model.RecipeCandidate) {
	var total model.NutrientVector
	for i := range c.Ingredients {
		v := Contribution(c.Ingredients[i])
		c.Ingredients[i].ContribCHO = v.CHO
		c.Ingredients[i].ContribCalories = v.Calories
		c.Ingredients[i].ContribProtein = v.Protein
		c.Ingredients[i].ContribFat = v.Fat
		c.Ingredients[i].ContribFiber = v.Fiber

		total.CHO += v.CHO
		total.Calories += v.Calories
		total.Protein += v.Protein
		total.Fat += v.Fat
		total.Fiber += v.Fiber
	}
	c.TotalCHO = round2(total.CHO)
	c.TotalCalories = round2(total.Calories)
	c.TotalProtein = round2(total.Protein)
	c.TotalFat = round2(total.Fat)
	c.TotalFiber = round2(total.Fiber)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
