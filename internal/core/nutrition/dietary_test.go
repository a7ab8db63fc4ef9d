package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nutrigen/carbofit/internal/core/model"
)

var pollo = model.ReferenceIngredient{
	Name: "Pollo", IsVegan: false, IsVegetarian: false,
	IsGlutenFree: true, IsLactoseFree: true,
}

func TestEvaluateFlags_Conjunction(t *testing.T) {
	c := &model.RecipeCandidate{
		Ingredients: []model.ResolvedIngredient{
			{Matched: &pomodoro, QuantityG: 100},
			{Matched: &pollo, QuantityG: 150},
		},
	}
	flags := EvaluateFlags(c)

	assert.False(t, flags.IsVegan)
	assert.False(t, flags.IsVegetarian)
	assert.True(t, flags.IsGlutenFree)
	assert.True(t, flags.IsLactoseFree)
}

func TestEvaluateFlags_AllVegan(t *testing.T) {
	c := &model.RecipeCandidate{
		Ingredients: []model.ResolvedIngredient{
			{Matched: &pomodoro, QuantityG: 100},
		},
	}
	flags := EvaluateFlags(c)
	assert.True(t, flags.IsVegan)
}

func TestEvaluateFlags_UnresolvedForcesFalse(t *testing.T) {
	c := &model.RecipeCandidate{
		Ingredients: []model.ResolvedIngredient{
			{Matched: &pomodoro, QuantityG: 100},
			{RawName: "unicorn dust"},
		},
	}
	assert.Equal(t, model.DietaryFlags{}, EvaluateFlags(c))
}

func TestEvaluateFlags_Empty(t *testing.T) {
	assert.Equal(t, model.DietaryFlags{}, EvaluateFlags(&model.RecipeCandidate{}))
}

func TestCheckCompatibility(t *testing.T) {
	flags := model.DietaryFlags{IsVegetarian: true, IsGlutenFree: true}

	assert.True(t, CheckCompatibility(flags, model.UserTarget{IsVegetarian: true}))
	assert.True(t, CheckCompatibility(flags, model.UserTarget{IsVegetarian: true, IsGlutenFree: true}))
	assert.False(t, CheckCompatibility(flags, model.UserTarget{IsVegan: true}))
	// Unrequested flags are ignored even when false.
	assert.True(t, CheckCompatibility(flags, model.UserTarget{}))
}
