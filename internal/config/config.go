package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	Mode string `toml:"mode"` // "development" or "production", drives logging
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTLHours int    `toml:"ttl_hours"`
}

type DataConfig struct {
	IngredientsCSV string   `toml:"ingredients_csv"`
	IndexPath      string   `toml:"index_path"`
	Complements    []string `toml:"complements"`
}

type ResolverConfig struct {
	BaseThreshold      float64 `toml:"base_threshold"`
	RelaxedThreshold   float64 `toml:"relaxed_threshold"`
	TopK               int     `toml:"top_k"`
	SynonymConfidence  float64 `toml:"synonym_confidence"`
	OverrideConfidence float64 `toml:"override_confidence"`
}

type OptimizerConfig struct {
	SkipDelta       float64 `toml:"skip_delta"`
	SingleCutoff    float64 `toml:"single_cutoff"`
	CascadeCutoff   float64 `toml:"cascade_cutoff"`
	FineTuneDelta   float64 `toml:"fine_tune_delta"`
	ExtremeDelta    float64 `toml:"extreme_delta"`
	MinScale        float64 `toml:"min_scale"`
	MaxScale        float64 `toml:"max_scale"`
	MinScaleExtreme float64 `toml:"min_scale_extreme"`
	MaxScaleExtreme float64 `toml:"max_scale_extreme"`
	MinQuantityG    float64 `toml:"min_quantity_g"`
	MaxDominance    float64 `toml:"max_dominance"`
	MaxReduction    float64 `toml:"max_reduction"`
	MaxIncrease     float64 `toml:"max_increase"`
	AdditionMaxG    float64 `toml:"addition_max_g"`
	MaxAdditions    int     `toml:"max_additions"`
	MaxIngredients  int     `toml:"max_ingredients"`
	CascadeMaxIter  int     `toml:"cascade_max_iter"`
}

type DiversityConfig struct {
	Threshold            float64 `toml:"threshold"`
	WeightTitle          float64 `toml:"weight_title"`
	WeightMainIngredient float64 `toml:"weight_main_ingredient"`
	WeightDishType       float64 `toml:"weight_dish_type"`
	WeightFlags          float64 `toml:"weight_flags"`
}

type PipelineConfig struct {
	Workers         int `toml:"workers"`
	MaxResults      int `toml:"max_results"`
	MinIngredients  int `toml:"min_ingredients"`
	MinInstructions int `toml:"min_instructions"`
}

type GeneratorConfig struct {
	MaxRetries int `toml:"max_retries"`
	BatchSize  int `toml:"batch_size"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	LLM       LLMConfig       `toml:"llm"`
	Redis     RedisConfig     `toml:"redis"`
	Data      DataConfig      `toml:"data"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Diversity DiversityConfig `toml:"diversity"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Generator GeneratorConfig `toml:"generator"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
