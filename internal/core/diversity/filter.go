// Package diversity implements the greedy similarity filter applied to
// optimized candidates. Candidates closest to the CHO target get first
// claim on an acceptance slot; later ones are dropped when they look too
// much like something already accepted.
package diversity

import (
	"math"
	"sort"
	"strings"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/normalize"
)

type Config struct {
	Threshold            float64
	WeightTitle          float64
	WeightMainIngredient float64
	WeightDishType       float64
	WeightFlags          float64
	MainIngredientCount  int
}

func DefaultConfig() Config {
	return Config{
		Threshold:            0.72,
		WeightTitle:          0.20,
		WeightMainIngredient: 0.40,
		WeightDishType:       0.25,
		WeightFlags:          0.15,
		MainIngredientCount:  3,
	}
}

// FromConfig overlays the file settings on the defaults; zero fields keep
// the default value.
func FromConfig(c config.DiversityConfig) Config {
	out := DefaultConfig()
	if c.Threshold > 0 {
		out.Threshold = c.Threshold
	}
	if c.WeightTitle > 0 {
		out.WeightTitle = c.WeightTitle
	}
	if c.WeightMainIngredient > 0 {
		out.WeightMainIngredient = c.WeightMainIngredient
	}
	if c.WeightDishType > 0 {
		out.WeightDishType = c.WeightDishType
	}
	if c.WeightFlags > 0 {
		out.WeightFlags = c.WeightFlags
	}
	return out
}

// Dish-type keywords looked for in titles. Two recipes sharing one of
// these are very likely the same kind of dish.
var dishTypeKeywords = []string{
	"pasta", "spaghetti", "penne", "fusilli", "tagliatelle", "linguine",
	"risotto", "riso", "zuppa", "minestrone", "vellutata", "insalata",
	"couscous", "cous", "bowl", "frittata", "torta", "crostata", "dolce",
	"polpette", "burger", "wrap", "piadina", "panino", "orzotto", "farro",
}

type Filter struct {
	cfg Config
}

func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Apply sorts candidates by closeness to the CHO target (ties keep their
// original order) and greedily accepts every candidate whose similarity to
// all previously accepted ones stays below the threshold, until limit
// acceptances or the list runs out.
func (f *Filter) Apply(cands []*model.RecipeCandidate, targetCHO float64, limit int) []*model.RecipeCandidate {
	if limit <= 0 || len(cands) == 0 {
		return nil
	}

	ordered := make([]*model.RecipeCandidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(a, b int) bool {
		return math.Abs(ordered[a].TotalCHO-targetCHO) < math.Abs(ordered[b].TotalCHO-targetCHO)
	})

	var accepted []*model.RecipeCandidate
	for _, cand := range ordered {
		tooClose := false
		for _, prev := range accepted {
			if f.Similarity(cand, prev) >= f.cfg.Threshold {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		accepted = append(accepted, cand)
		if len(accepted) == limit {
			break
		}
	}
	return accepted
}

// Similarity scores two candidates in [0,1] as a weighted mix of title
// overlap, shared main ingredients, dish-type keywords and dietary flags.
func (f *Filter) Similarity(a, b *model.RecipeCandidate) float64 {
	return f.cfg.WeightTitle*titleSimilarity(a.Title, b.Title) +
		f.cfg.WeightMainIngredient*f.mainIngredientOverlap(a, b) +
		f.cfg.WeightDishType*dishTypeOverlap(a.Title, b.Title) +
		f.cfg.WeightFlags*flagOverlap(a.Flags, b.Flags)
}

func titleSimilarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for w := range ta {
		if _, ok := tb[w]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// mainIngredientOverlap compares the top CHO contributors of each recipe:
// the fraction of the smaller set that also appears in the other.
func (f *Filter) mainIngredientOverlap(a, b *model.RecipeCandidate) float64 {
	ma := f.mainIngredients(a)
	mb := f.mainIngredients(b)
	if len(ma) == 0 || len(mb) == 0 {
		return 0
	}
	inter := 0
	for name := range ma {
		if _, ok := mb[name]; ok {
			inter++
		}
	}
	smaller := len(ma)
	if len(mb) < smaller {
		smaller = len(mb)
	}
	return float64(inter) / float64(smaller)
}

func (f *Filter) mainIngredients(c *model.RecipeCandidate) map[string]struct{} {
	type contrib struct {
		name string
		cho  float64
	}
	var list []contrib
	for _, ing := range c.Ingredients {
		if ing.Matched != nil && ing.ContribCHO > 0 {
			list = append(list, contrib{name: ing.Matched.Name, cho: ing.ContribCHO})
		}
	}
	sort.SliceStable(list, func(a, b int) bool { return list[a].cho > list[b].cho })

	n := f.cfg.MainIngredientCount
	if n > len(list) {
		n = len(list)
	}
	out := make(map[string]struct{}, n)
	for _, e := range list[:n] {
		out[e.name] = struct{}{}
	}
	return out
}

func dishTypeOverlap(titleA, titleB string) float64 {
	ka := dishKeywords(titleA)
	kb := dishKeywords(titleB)
	if len(ka) == 0 || len(kb) == 0 {
		return 0
	}
	inter := 0
	for w := range ka {
		if _, ok := kb[w]; ok {
			inter++
		}
	}
	union := len(ka) + len(kb) - inter
	return float64(inter) / float64(union)
}

func dishKeywords(title string) map[string]struct{} {
	tokens := tokenSet(title)
	out := map[string]struct{}{}
	for _, kw := range dishTypeKeywords {
		if _, ok := tokens[kw]; ok {
			out[kw] = struct{}{}
		}
	}
	return out
}

func flagOverlap(a, b model.DietaryFlags) float64 {
	same := 0
	if a.IsVegan == b.IsVegan {
		same++
	}
	if a.IsVegetarian == b.IsVegetarian {
		same++
	}
	if a.IsGlutenFree == b.IsGlutenFree {
		same++
	}
	if a.IsLactoseFree == b.IsLactoseFree {
		same++
	}
	return float64(same) / 4.0
}

func tokenSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(normalize.Normalize(s)) {
		out[w] = struct{}{}
	}
	return out
}
