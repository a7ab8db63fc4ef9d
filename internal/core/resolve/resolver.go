package resolve

import (
	"context"
	"strings"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/normalize"
	"github.com/nutrigen/carbofit/internal/index"
	"github.com/nutrigen/carbofit/internal/llm"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

type Config struct {
	BaseThreshold      float64
	RelaxedThreshold   float64
	TopK               int
	SynonymConfidence  float64
	OverrideConfidence float64
}

func DefaultConfig() Config {
	return Config{
		BaseThreshold:      0.60,
		RelaxedThreshold:   0.55,
		TopK:               5,
		SynonymConfidence:  0.95,
		OverrideConfidence: 0.50,
	}
}

// FromConfig overlays the file settings on the defaults; zero fields keep
// the default value.
func FromConfig(c config.ResolverConfig) Config {
	out := DefaultConfig()
	if c.BaseThreshold > 0 {
		out.BaseThreshold = c.BaseThreshold
	}
	if c.RelaxedThreshold > 0 {
		out.RelaxedThreshold = c.RelaxedThreshold
	}
	if c.TopK > 0 {
		out.TopK = c.TopK
	}
	if c.SynonymConfidence > 0 {
		out.SynonymConfidence = c.SynonymConfidence
	}
	if c.OverrideConfidence > 0 {
		out.OverrideConfidence = c.OverrideConfidence
	}
	return out
}

// Resolver maps free-text ingredient names to reference records through a
// layered fallback chain: exact, synonym, semantic, morphological, override.
// All shared resources are read-only, so one Resolver is safe for
// concurrent use.
type Resolver struct {
	table    *store.ReferenceTable
	index    *index.Index
	embedder llm.EmbedderClient
	cfg      Config
	log      *logger.Logger
}

func NewResolver(table *store.ReferenceTable, ix *index.Index, embedder llm.EmbedderClient, cfg Config, log *logger.Logger) *Resolver {
	return &Resolver{
		table:    table,
		index:    ix,
		embedder: embedder,
		cfg:      cfg,
		log:      log,
	}
}

// Resolve runs the fallback chain for one draft ingredient. An unmatched
// name is not an error: the result comes back with Level unresolved and a
// nil Matched, and the caller decides what to do with the recipe.
func (r *Resolver) Resolve(ctx context.Context, rawName string, quantityG float64) model.ResolvedIngredient {
	out := model.ResolvedIngredient{
		RawName:   rawName,
		QuantityG: quantityG,
		Level:     model.MatchUnresolved,
	}

	norm := normalize.Normalize(rawName)
	if norm == "" {
		return out
	}

	if ing, conf, level, ok := r.resolveDirect(ctx, norm); ok {
		out.Matched, out.Confidence, out.Level = ing, conf, level
		return out
	}

	for _, variant := range Variants(norm) {
		if ing, conf, _, ok := r.resolveDirect(ctx, variant); ok {
			out.Matched, out.Confidence = ing, conf
			out.Level = model.MatchMorphological
			r.log.Debug("resolved via morphological variant",
				"raw", rawName, "variant", variant, "matched", ing.Name)
			return out
		}
	}

	if canonical, ok := overrideTable[norm]; ok {
		if ing, found := r.table.Lookup(canonical); found {
			out.Matched = ing
			out.Confidence = r.cfg.OverrideConfidence
			out.Level = model.MatchOverride
			return out
		}
	}

	r.log.Debug("ingredient unresolved", "raw", rawName, "normalized", norm)
	return out
}

// resolveDirect applies levels 1-3 (exact, synonym, semantic) to one
// normalized name.
func (r *Resolver) resolveDirect(ctx context.Context, norm string) (*model.ReferenceIngredient, float64, model.MatchLevel, bool) {
	if ing, ok := r.table.LookupNormalized(norm); ok {
		return ing, 1.0, model.MatchExact, true
	}

	if canonical, ok := synonymTable[norm]; ok {
		if ing, found := r.table.Lookup(canonical); found {
			return ing, r.cfg.SynonymConfidence, model.MatchSynonym, true
		}
	}

	if ing, score, ok := r.resolveSemantic(ctx, norm); ok {
		return ing, score, model.MatchSemantic, true
	}

	return nil, 0, model.MatchUnresolved, false
}

func (r *Resolver) resolveSemantic(ctx context.Context, norm string) (*model.ReferenceIngredient, float64, bool) {
	if r.embedder == nil || r.index == nil {
		return nil, 0, false
	}

	vec, err := r.embedder.Embed(ctx, norm)
	if err != nil {
		r.log.Warn("embedding failed, skipping semantic level", "name", norm, "error", err)
		return nil, 0, false
	}

	hits, err := r.index.Search(vec, r.cfg.TopK)
	if err != nil {
		r.log.Warn("index query failed, skipping semantic level", "name", norm, "error", err)
		return nil, 0, false
	}

	// Compound names embed noisier than single words, so the acceptance
	// bar is relaxed for them.
	threshold := r.cfg.BaseThreshold
	if len(strings.Fields(norm)) >= 2 {
		threshold = r.cfg.RelaxedThreshold
	}

	for _, hit := range hits {
		if float64(hit.Score) < threshold {
			break
		}
		if ing, ok := r.table.LookupNormalized(hit.Name); ok {
			return ing, float64(hit.Score), true
		}
	}
	return nil, 0, false
}
