package model

// ReferenceIngredient is one row of the reference nutrition table.
// Loaded once at startup and never mutated afterwards.
type ReferenceIngredient struct {
	Name            string  `json:"name"`
	CHOPer100g      float64 `json:"cho_per_100g"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	FiberPer100g    float64 `json:"fiber_per_100g"`
	IsVegan         bool    `json:"is_vegan"`
	IsVegetarian    bool    `json:"is_vegetarian"`
	IsGlutenFree    bool    `json:"is_gluten_free"`
	IsLactoseFree   bool    `json:"is_lactose_free"`
}

type MatchLevel string

const (
	MatchExact         MatchLevel = "exact"
	MatchSynonym       MatchLevel = "synonym"
	MatchSemantic      MatchLevel = "semantic"
	MatchMorphological MatchLevel = "morphological"
	MatchOverride      MatchLevel = "override"
	MatchUnresolved    MatchLevel = "unresolved"
)

type DraftIngredient struct {
	RawName   string  `json:"name"`
	QuantityG float64 `json:"quantity_g"`
}

// ResolvedIngredient is a draft ingredient after resolution against the
// reference table. Matched is nil when every fallback level failed.
type ResolvedIngredient struct {
	RawName    string               `json:"raw_name"`
	Matched    *ReferenceIngredient `json:"matched,omitempty"`
	QuantityG  float64              `json:"quantity_g"`
	Confidence float64              `json:"confidence"`
	Level      MatchLevel           `json:"level"`

	// Per-nutrient contributions, filled by the nutrition calculator.
	ContribCHO      float64 `json:"contrib_cho"`
	ContribCalories float64 `json:"contrib_calories"`
	ContribProtein  float64 `json:"contrib_protein"`
	ContribFat      float64 `json:"contrib_fat"`
	ContribFiber    float64 `json:"contrib_fiber"`
}

type NutrientVector struct {
	CHO      float64 `json:"cho"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}
