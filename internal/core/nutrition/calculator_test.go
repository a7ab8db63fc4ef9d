package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nutrigen/carbofit/internal/core/model"
)

var pasta = model.ReferenceIngredient{
	Name: "Pasta integrale", CHOPer100g: 62.0, CaloriesPer100g: 350,
	ProteinPer100g: 13.0, FatPer100g: 2.5, FiberPer100g: 8.0,
	IsVegan: true, IsVegetarian: true, IsLactoseFree: true,
}

var pomodoro = model.ReferenceIngredient{
	Name: "Pomodoro", CHOPer100g: 3.9, CaloriesPer100g: 18,
	ProteinPer100g: 0.9, FatPer100g: 0.2, FiberPer100g: 1.2,
	IsVegan: true, IsVegetarian: true, IsGlutenFree: true, IsLactoseFree: true,
}

func TestContribution(t *testing.T) {
	v := Contribution(model.ResolvedIngredient{Matched: &pasta, QuantityG: 80})

	assert.InDelta(t, 49.6, v.CHO, 1e-9)
	assert.InDelta(t, 280.0, v.Calories, 1e-9)
	assert.InDelta(t, 10.4, v.Protein, 1e-9)
	assert.InDelta(t, 2.0, v.Fat, 1e-9)
	assert.InDelta(t, 6.4, v.Fiber, 1e-9)
}

func TestContribution_Rounding(t *testing.T) {
	// 33g of 3.9 CHO/100g = 1.287, rounded to 1.29
	v := Contribution(model.ResolvedIngredient{Matched: &pomodoro, QuantityG: 33})
	assert.Equal(t, 1.29, v.CHO)
}

func TestContribution_Unmatched(t *testing.T) {
	v := Contribution(model.ResolvedIngredient{RawName: "unicorn dust", QuantityG: 200})
	assert.Equal(t, model.NutrientVector{}, v)
}

func TestContribution_ZeroQuantity(t *testing.T) {
	v := Contribution(model.ResolvedIngredient{Matched: &pasta, QuantityG: 0})
	assert.Equal(t, 0.0, v.CHO)
}

func TestRecomputeTotals(t *testing.T) {
	c := &model.RecipeCandidate{
		Ingredients: []model.ResolvedIngredient{
			{Matched: &pasta, QuantityG: 80},
			{Matched: &pomodoro, QuantityG: 100},
			{RawName: "unicorn dust", QuantityG: 500}, // unmatched, counts as zero
		},
	}
	RecomputeTotals(c)

	assert.InDelta(t, 53.5, c.TotalCHO, 1e-9)
	assert.InDelta(t, 49.6, c.Ingredients[0].ContribCHO, 1e-9)
	assert.InDelta(t, 3.9, c.Ingredients[1].ContribCHO, 1e-9)
	assert.Equal(t, 0.0, c.Ingredients[2].ContribCHO)
}

func TestRecomputeTotals_TracksMutations(t *testing.T) {
	c := &model.RecipeCandidate{
		Ingredients: []model.ResolvedIngredient{{Matched: &pasta, QuantityG: 100}},
	}
	RecomputeTotals(c)
	assert.InDelta(t, 62.0, c.TotalCHO, 1e-9)

	c.Ingredients[0].QuantityG = 50
	RecomputeTotals(c)
	assert.InDelta(t, 31.0, c.TotalCHO, 1e-9)
}
