package model

type DraftRecipe struct {
	ID           string            `json:"id,omitempty"`
	Title        string            `json:"title"`
	Ingredients  []DraftIngredient `json:"ingredients"`
	Instructions []string          `json:"instructions"`
}

type DietaryFlags struct {
	IsVegan       bool `json:"is_vegan"`
	IsVegetarian  bool `json:"is_vegetarian"`
	IsGlutenFree  bool `json:"is_gluten_free"`
	IsLactoseFree bool `json:"is_lactose_free"`
}

type StrategyKind string

const (
	StrategySingleIngredient StrategyKind = "SINGLE_INGREDIENT"
	StrategyProportional     StrategyKind = "PROPORTIONAL"
	StrategyCascade          StrategyKind = "CASCADE"
	StrategyHybrid           StrategyKind = "HYBRID"
	StrategyNone             StrategyKind = "NONE"
)

// OptimizationOutcome records what the optimizer did to a candidate.
// Kept even when the attempt failed.
type OptimizationOutcome struct {
	Strategy    StrategyKind `json:"strategy"`
	Succeeded   bool         `json:"succeeded"`
	DeltaBefore float64      `json:"cho_delta_before"`
	DeltaAfter  float64      `json:"cho_delta_after"`
	Message     string       `json:"message,omitempty"`
}

// RecipeCandidate is a draft recipe flowing through the pipeline.
// Mutated in place up to optimization, then treated as immutable.
type RecipeCandidate struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Ingredients   []ResolvedIngredient `json:"ingredients"`
	Instructions  []string             `json:"instructions"`
	TotalCHO      float64              `json:"total_cho"`
	TotalCalories float64              `json:"total_calories"`
	TotalProtein  float64              `json:"total_protein"`
	TotalFat      float64              `json:"total_fat"`
	TotalFiber    float64              `json:"total_fiber"`
	Flags         DietaryFlags         `json:"dietary_flags"`
	Optimization  *OptimizationOutcome `json:"optimization,omitempty"`
}

// UserTarget carries the CHO goal and the dietary flags the user asked for.
// ToleranceG must be positive.
type UserTarget struct {
	TargetCHOG    float64 `json:"target_cho_g"`
	ToleranceG    float64 `json:"tolerance_g"`
	IsVegan       bool    `json:"is_vegan"`
	IsVegetarian  bool    `json:"is_vegetarian"`
	IsGlutenFree  bool    `json:"is_gluten_free"`
	IsLactoseFree bool    `json:"is_lactose_free"`
}

type RejectReason string

const (
	RejectResolution   RejectReason = "resolution_failure"
	RejectOptimization RejectReason = "optimization_failure"
	RejectDietary      RejectReason = "dietary_violation"
	RejectComposition  RejectReason = "insufficient_composition"
)

// RejectedRecipe pairs a discarded candidate with the reason it was dropped.
type RejectedRecipe struct {
	Title  string       `json:"title"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail"`
}
