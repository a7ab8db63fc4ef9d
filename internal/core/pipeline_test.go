package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core/diversity"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/optimize"
	"github.com/nutrigen/carbofit/internal/core/resolve"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

func testTable(t *testing.T) *store.ReferenceTable {
	t.Helper()
	csv := `name,cho_per_100g,is_vegan,is_vegetarian,is_gluten_free,is_lactose_free
Pasta integrale,62,true,true,false,true
Pomodoro,3.9,true,true,true,true
Olio di oliva,0,true,true,true,true
Zucchine,2,true,true,true,true
Riso basmati,80,true,true,true,true
Pollo,0,false,false,true,true
Ceci,47,true,true,true,true
`
	path := filepath.Join(t.TempDir(), "ingredients.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	table, err := store.LoadCSV(path)
	require.NoError(t, err)
	return table
}

func testPipeline(t *testing.T, complements ...model.ReferenceIngredient) *Pipeline {
	t.Helper()
	log := logger.Nop()
	resolver := resolve.NewResolver(testTable(t), nil, nil, resolve.DefaultConfig(), log)
	optimizer := optimize.NewOptimizer(optimize.DefaultConfig(), complements, log)
	filter := diversity.NewFilter(diversity.DefaultConfig())
	return NewPipeline(resolver, optimizer, filter, DefaultConfig(), log)
}

func pastaDraft(title string) model.DraftRecipe {
	return model.DraftRecipe{
		Title: title,
		Ingredients: []model.DraftIngredient{
			{RawName: "Pasta integrale", QuantityG: 80},
			{RawName: "Pomodoro", QuantityG: 150},
			{RawName: "Olio di oliva", QuantityG: 10},
		},
		Instructions: []string{"Cuocere la pasta", "Condire con il pomodoro"},
	}
}

func TestRun_AcceptsValidDraft(t *testing.T) {
	p := testPipeline(t)
	target := model.UserTarget{TargetCHOG: 60, ToleranceG: 10}

	res, err := p.Run(context.Background(), []model.DraftRecipe{pastaDraft("Pasta al pomodoro")}, target)
	require.NoError(t, err)

	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Rejected)

	got := res.Accepted[0]
	assert.NotEmpty(t, got.ID)
	assert.InDelta(t, 60, got.TotalCHO, 10)
	require.NotNil(t, got.Optimization)
	assert.True(t, got.Optimization.Succeeded)
	assert.True(t, got.Flags.IsVegan)
	assert.False(t, got.Flags.IsGlutenFree)
}

func TestRun_IsolatesUnresolvedRecipe(t *testing.T) {
	p := testPipeline(t)
	bad := model.DraftRecipe{
		Title: "Ricetta misteriosa",
		Ingredients: []model.DraftIngredient{
			{RawName: "unicorn dust", QuantityG: 50},
			{RawName: "Pomodoro", QuantityG: 100},
			{RawName: "Zucchine", QuantityG: 100},
		},
		Instructions: []string{"Mescolare", "Servire"},
	}

	res, err := p.Run(context.Background(),
		[]model.DraftRecipe{bad, pastaDraft("Pasta al pomodoro")},
		model.UserTarget{TargetCHOG: 60, ToleranceG: 10})
	require.NoError(t, err)

	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "Pasta al pomodoro", res.Accepted[0].Title)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.RejectResolution, res.Rejected[0].Reason)
	assert.Contains(t, res.Rejected[0].Detail, "unicorn dust")
}

func TestRun_RejectsDietaryViolation(t *testing.T) {
	p := testPipeline(t)
	draft := model.DraftRecipe{
		Title: "Pollo con riso",
		Ingredients: []model.DraftIngredient{
			{RawName: "Pollo", QuantityG: 150},
			{RawName: "Riso basmati", QuantityG: 100},
			{RawName: "Zucchine", QuantityG: 100},
		},
		Instructions: []string{"Cuocere il riso", "Saltare il pollo"},
	}

	res, err := p.Run(context.Background(), []model.DraftRecipe{draft},
		model.UserTarget{TargetCHOG: 85, ToleranceG: 10, IsVegan: true})
	require.NoError(t, err)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.RejectDietary, res.Rejected[0].Reason)
}

func TestRun_RejectsThinComposition(t *testing.T) {
	p := testPipeline(t)
	tooFewIngredients := model.DraftRecipe{
		Title: "Riso in bianco",
		Ingredients: []model.DraftIngredient{
			{RawName: "Riso basmati", QuantityG: 100},
			{RawName: "Zucchine", QuantityG: 100},
		},
		Instructions: []string{"Cuocere", "Servire"},
	}
	tooFewSteps := pastaDraft("Pasta sbrigativa")
	tooFewSteps.Instructions = []string{"Fare tutto"}

	res, err := p.Run(context.Background(),
		[]model.DraftRecipe{tooFewIngredients, tooFewSteps},
		model.UserTarget{TargetCHOG: 85, ToleranceG: 10})
	require.NoError(t, err)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, model.RejectComposition, res.Rejected[0].Reason)
	assert.Equal(t, model.RejectComposition, res.Rejected[1].Reason)
}

func TestRun_RejectsFailedOptimization(t *testing.T) {
	p := testPipeline(t) // no complements, so nothing can close the gap
	draft := model.DraftRecipe{
		Title: "Insalata di pollo",
		Ingredients: []model.DraftIngredient{
			{RawName: "Pollo", QuantityG: 200},
			{RawName: "Zucchine", QuantityG: 100},
			{RawName: "Olio di oliva", QuantityG: 10},
		},
		Instructions: []string{"Grigliare il pollo", "Comporre l'insalata"},
	}

	res, err := p.Run(context.Background(), []model.DraftRecipe{draft},
		model.UserTarget{TargetCHOG: 80, ToleranceG: 5})
	require.NoError(t, err)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.RejectOptimization, res.Rejected[0].Reason)
	assert.NotEmpty(t, res.Rejected[0].Detail)
}

func TestRun_DiversityDropsDuplicates(t *testing.T) {
	p := testPipeline(t)
	res, err := p.Run(context.Background(),
		[]model.DraftRecipe{pastaDraft("Pasta al pomodoro"), pastaDraft("Pasta al pomodoro")},
		model.UserTarget{TargetCHOG: 60, ToleranceG: 10})
	require.NoError(t, err)

	// The duplicate survives verification but not the diversity filter,
	// and a diversity drop is not an error record.
	assert.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Rejected)
}

func TestRun_Deterministic(t *testing.T) {
	p := testPipeline(t)
	drafts := []model.DraftRecipe{
		pastaDraft("Pasta al pomodoro"),
		{
			Title: "Riso con zucchine",
			Ingredients: []model.DraftIngredient{
				{RawName: "Riso basmati", QuantityG: 70},
				{RawName: "Zucchine", QuantityG: 150},
				{RawName: "Olio di oliva", QuantityG: 10},
			},
			Instructions: []string{"Cuocere il riso", "Aggiungere le zucchine"},
		},
		{
			Title: "Insalata di ceci",
			Ingredients: []model.DraftIngredient{
				{RawName: "Ceci", QuantityG: 120},
				{RawName: "Pomodoro", QuantityG: 100},
				{RawName: "Olio di oliva", QuantityG: 10},
			},
			Instructions: []string{"Scolare i ceci", "Condire"},
		},
	}
	target := model.UserTarget{TargetCHOG: 60, ToleranceG: 10}

	first, err := p.Run(context.Background(), drafts, target)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), drafts, target)
	require.NoError(t, err)

	require.Equal(t, len(first.Accepted), len(second.Accepted))
	for i := range first.Accepted {
		assert.Equal(t, first.Accepted[i].Title, second.Accepted[i].Title)
		assert.Equal(t, first.Accepted[i].TotalCHO, second.Accepted[i].TotalCHO)
	}
}

func TestRun_InvalidTolerance(t *testing.T) {
	p := testPipeline(t)
	_, err := p.Run(context.Background(), nil, model.UserTarget{TargetCHOG: 60})
	assert.Error(t, err)
}

func TestFromConfig_ZeroFieldsKeepDefaults(t *testing.T) {
	got := FromConfig(config.PipelineConfig{Workers: 2})

	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, DefaultConfig().MaxResults, got.MaxResults)
	assert.Equal(t, DefaultConfig().MinIngredients, got.MinIngredients)
}
