package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/index"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

type mockEmbedder struct {
	vectors map[string][]float32
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	// Unknown names embed far away from everything in the test index.
	return []float32{0, 0, 1}, nil
}

func testTable(t *testing.T) *store.ReferenceTable {
	t.Helper()
	csv := `name,cho_per_100g,is_vegan,is_vegetarian,is_gluten_free,is_lactose_free
Pomodoro,3.9,true,true,true,true
Zucchine,2.0,true,true,true,true
Limone,9.0,true,true,true,true
Pasta integrale,62.0,true,true,false,true
Spaghetti,72.0,true,true,false,true
Pepe nero,64.0,true,true,true,true
Mela,14.0,true,true,true,true
`
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	table, err := store.LoadCSV(path)
	require.NoError(t, err)
	return table
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	ix, err := index.New(3,
		[]string{"pasta integrale", "pomodoro"},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	)
	require.NoError(t, err)

	emb := &mockEmbedder{vectors: map[string][]float32{
		"spaghetti integrali": {0.9, 0.1, 0},
	}}

	return NewResolver(testTable(t), ix, emb, DefaultConfig(), logger.Nop())
}

func TestResolve_Exact(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "Pomodoro", 150)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Pomodoro", got.Matched.Name)
	assert.Equal(t, model.MatchExact, got.Level)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, 150.0, got.QuantityG)
}

func TestResolve_ExactIgnoresColorWords(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "Pomodoro Rosso", 50)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Pomodoro", got.Matched.Name)
	assert.Equal(t, model.MatchExact, got.Level)
}

func TestResolve_Synonym(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "lime", 30)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Limone", got.Matched.Name)
	assert.Equal(t, model.MatchSynonym, got.Level)
	assert.Equal(t, 0.95, got.Confidence)
}

func TestResolve_Semantic(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "spaghetti integrali", 80)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Pasta integrale", got.Matched.Name)
	assert.Equal(t, model.MatchSemantic, got.Level)
	assert.GreaterOrEqual(t, got.Confidence, 0.55)
}

func TestResolve_Morphological(t *testing.T) {
	r := testResolver(t)
	// "mele" is not a table name; the singular "mela" is.
	got := r.Resolve(context.Background(), "mele", 120)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Mela", got.Matched.Name)
	assert.Equal(t, model.MatchMorphological, got.Level)
}

func TestResolve_Override(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "pepe", 5)

	require.NotNil(t, got.Matched)
	assert.Equal(t, "Pepe nero", got.Matched.Name)
	assert.Equal(t, model.MatchOverride, got.Level)
	assert.Equal(t, 0.50, got.Confidence)
}

func TestResolve_Unresolved(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "unicorn dust", 10)

	assert.Nil(t, got.Matched)
	assert.Equal(t, model.MatchUnresolved, got.Level)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Equal(t, "unicorn dust", got.RawName)
}

func TestResolve_EmptyName(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve(context.Background(), "   ", 10)
	assert.Equal(t, model.MatchUnresolved, got.Level)
}

func TestResolve_NoEmbedderStillWorks(t *testing.T) {
	r := NewResolver(testTable(t), nil, nil, DefaultConfig(), logger.Nop())

	got := r.Resolve(context.Background(), "Zucchine", 100)
	require.NotNil(t, got.Matched)
	assert.Equal(t, model.MatchExact, got.Level)

	got = r.Resolve(context.Background(), "spaghetti integrali", 80)
	assert.Equal(t, model.MatchUnresolved, got.Level)
}

func TestFromConfig_ZeroFieldsKeepDefaults(t *testing.T) {
	got := FromConfig(config.ResolverConfig{BaseThreshold: 0.7, TopK: 3})

	assert.Equal(t, 0.7, got.BaseThreshold)
	assert.Equal(t, 3, got.TopK)
	assert.Equal(t, DefaultConfig().RelaxedThreshold, got.RelaxedThreshold)
	assert.Equal(t, DefaultConfig().SynonymConfidence, got.SynonymConfidence)
	assert.Equal(t, DefaultConfig().OverrideConfidence, got.OverrideConfidence)
}
