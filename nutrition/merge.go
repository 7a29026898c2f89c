// Package nutrition combines recipe-sourced and externally-sourced facts
// into the final per-item nutrition record with a provenance tag.
package nutrition

import "github.com/dfac-tools/menubuilder/models"

// Merge applies field-level precedence: a recipe value always wins its
// field; external values only fill fields the recipe left absent. The tag
// reflects where the populated fields actually came from — Recipe, USDA,
// Mixed, or empty when neither source produced anything. An all-absent
// result is still a valid record; gaps stay visible downstream.
func Merge(recipe, external *models.NutritionFacts) (models.NutritionFacts, models.NutritionSource) {
	var merged models.NutritionFacts
	fromRecipe, fromExternal := 0, 0

	slots := merged.Fields()
	var recipeSlots, externalSlots []**float64
	if recipe != nil {
		recipeSlots = recipe.Fields()
	}
	if external != nil {
		externalSlots = external.Fields()
	}
	for i := range slots {
		if recipeSlots != nil && *recipeSlots[i] != nil {
			*slots[i] = *recipeSlots[i]
			fromRecipe++
			continue
		}
		if externalSlots != nil && *externalSlots[i] != nil {
			*slots[i] = *externalSlots[i]
			fromExternal++
		}
	}

	switch {
	case fromRecipe > 0 && fromExternal > 0:
		return merged, models.SourceMixed
	case fromRecipe > 0:
		return merged, models.SourceRecipe
	case fromExternal > 0:
		return merged, models.SourceUSDA
	default:
		return merged, models.SourceNone
	}
}
