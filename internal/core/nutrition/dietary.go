package nutrition

import "github.com/nutrigen/carbofit/internal/core/model"

// EvaluateFlags derives a recipe's dietary flags from its matched
// ingredients: each flag is the AND over all matches. Whatever the draft
// claimed is discarded. An unresolved ingredient cannot be certified, so
// its presence forces every flag to false; so does an empty recipe.
func EvaluateFlags(c *model.RecipeCandidate) model.DietaryFlags {
	if len(c.Ingredients) == 0 {
		return model.DietaryFlags{}
	}
	flags := model.DietaryFlags{
		IsVegan:       true,
		IsVegetarian:  true,
		IsGlutenFree:  true,
		IsLactoseFree: true,
	}
	for _, ing := range c.Ingredients {
		if ing.Matched == nil {
			return model.DietaryFlags{}
		}
		flags.IsVegan = flags.IsVegan && ing.Matched.IsVegan
		flags.IsVegetarian = flags.IsVegetarian && ing.Matched.IsVegetarian
		flags.IsGlutenFree = flags.IsGlutenFree && ing.Matched.IsGlutenFree
		flags.IsLactoseFree = flags.IsLactoseFree && ing.Matched.IsLactoseFree
	}
	return flags
}

// CheckCompatibility verifies the computed flags against the ones the user
// asked for. Flags the user did not request are ignored.
func CheckCompatibility(flags model.DietaryFlags, target model.UserTarget) bool {
	if target.IsVegan && !flags.IsVegan {
		return false
	}
	if target.IsVegetarian && !flags.IsVegetarian {
		return false
	}
	if target.IsGlutenFree && !flags.IsGlutenFree {
		return false
	}
	if target.IsLactoseFree && !flags.IsLactoseFree {
		return false
	}
	return true
}
