package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/normalize"
	"github.com/nutrigen/carbofit/internal/logger"
)

// ReferenceTable holds the reference ingredient records plus the
// bidirectional mapping between normalized and canonical names.
// Built once at load time, read-only afterwards.
type ReferenceTable struct {
	byCanonical  map[string]*model.ReferenceIngredient
	byNormalized map[string]string // normalized -> canonical
	toNormalized map[string]string // canonical -> normalized
}

// LoadCSV reads the reference ingredient table. Required columns:
// name, cho_per_100g, is_vegan, is_vegetarian, is_gluten_free,
// is_lactose_free. The remaining nutrient columns are optional and
// default to zero when absent.
func LoadCSV(path string) (*ReferenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ingredient table '%s': %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredient table '%s': %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ingredient table '%s' has no data rows", path)
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, required := range []string{"name", "cho_per_100g", "is_vegan", "is_vegetarian", "is_gluten_free", "is_lactose_free"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("ingredient table '%s' missing column %q", path, required)
		}
	}

	t := &ReferenceTable{
		byCanonical:  make(map[string]*model.ReferenceIngredient, len(rows)-1),
		byNormalized: make(map[string]string, len(rows)-1),
		toNormalized: make(map[string]string, len(rows)-1),
	}

	for i, row := range rows[1:] {
		name := strings.TrimSpace(row[col["name"]])
		if name == "" {
			continue
		}
		cho, err := strconv.ParseFloat(strings.TrimSpace(row[col["cho_per_100g"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): bad cho_per_100g: %w", i+2, name, err)
		}
		ing := &model.ReferenceIngredient{
			Name:            name,
			CHOPer100g:      cho,
			CaloriesPer100g: optionalFloat(row, col, "calories_per_100g"),
			ProteinPer100g:  optionalFloat(row, col, "protein_per_100g"),
			FatPer100g:      optionalFloat(row, col, "fat_per_100g"),
			FiberPer100g:    optionalFloat(row, col, "fiber_per_100g"),
			IsVegan:         parseBool(row[col["is_vegan"]]),
			IsVegetarian:    parseBool(row[col["is_vegetarian"]]),
			IsGlutenFree:    parseBool(row[col["is_gluten_free"]]),
			IsLactoseFree:   parseBool(row[col["is_lactose_free"]]),
		}
		norm := normalize.Normalize(name)
		t.byCanonical[name] = ing
		t.byNormalized[norm] = name
		t.toNormalized[name] = norm
	}

	if len(t.byCanonical) == 0 {
		return nil, fmt.Errorf("ingredient table '%s' yielded no usable rows", path)
	}
	return t, nil
}

// Lookup returns the record for an exact canonical name.
func (t *ReferenceTable) Lookup(canonical string) (*model.ReferenceIngredient, bool) {
	ing, ok := t.byCanonical[canonical]
	return ing, ok
}

// LookupNormalized resolves a normalized name back to its record.
func (t *ReferenceTable) LookupNormalized(norm string) (*model.ReferenceIngredient, bool) {
	canonical, ok := t.byNormalized[norm]
	if !ok {
		return nil, false
	}
	return t.Lookup(canonical)
}

// NormalizedFor returns the normalized form of a canonical name.
func (t *ReferenceTable) NormalizedFor(canonical string) (string, bool) {
	norm, ok := t.toNormalized[canonical]
	return norm, ok
}

func (t *ReferenceTable) Len() int {
	return len(t.byCanonical)
}

// Complements resolves the configured fallback-addition names against the
// table. Unknown names are logged and skipped; the addition step is an
// enhancement, not a shared resource.
func (t *ReferenceTable) Complements(names []string, log *logger.Logger) []model.ReferenceIngredient {
	var out []model.ReferenceIngredient
	for _, name := range names {
		ing, ok := t.Lookup(name)
		if !ok {
			log.Warn("complement ingredient not in reference table", "name", name)
			continue
		}
		out = append(out, *ing)
	}
	return out
}

func optionalFloat(row []string, col map[string]int, name string) float64 {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0
	}
	return v
}

// The source table mixes boolean spellings, including Italian ones.
func parseBool(v string) bool {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "true", "1", "yes", "sì", "si", "vero":
		return true
	default:
		return false
	}
}
