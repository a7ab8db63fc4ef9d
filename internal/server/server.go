package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrigen/carbofit/internal/cache"
	"github.com/nutrigen/carbofit/internal/config"
	"github.com/nutrigen/carbofit/internal/core"
	"github.com/nutrigen/carbofit/internal/core/diversity"
	"github.com/nutrigen/carbofit/internal/core/model"
	"github.com/nutrigen/carbofit/internal/core/optimize"
	"github.com/nutrigen/carbofit/internal/core/resolve"
	"github.com/nutrigen/carbofit/internal/generator"
	"github.com/nutrigen/carbofit/internal/index"
	"github.com/nutrigen/carbofit/internal/llm"
	"github.com/nutrigen/carbofit/internal/logger"
	"github.com/nutrigen/carbofit/internal/store"
)

type Server struct {
	Pipeline  *core.Pipeline
	Generator *generator.Generator
	Resolver  *resolve.Resolver

	batchSize int
	port      string
	log       *logger.Logger
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	// Shared resources: missing or broken ones are fatal for every batch,
	// so the process refuses to start without them.
	table, err := store.LoadCSV(cfg.Data.IngredientsCSV)
	if err != nil {
		log.Fatal("ingredient table unavailable", "error", fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err))
	}
	ix, err := index.Load(cfg.Data.IndexPath)
	if err != nil {
		log.Fatal("embedding index unavailable", "error", fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err))
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatal("failed to initialize LLM client", "error", err)
	}
	if embedderClient == nil {
		log.Warn("provider has no embedding support, semantic resolution disabled",
			"provider", cfg.LLM.Provider)
	}

	var draftCache *cache.Cache
	if cfg.Redis.Enabled {
		ttl := time.Duration(cfg.Redis.TTLHours) * time.Hour
		if ttl <= 0 {
			ttl = 6 * time.Hour
		}
		draftCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
	}

	resolver := resolve.NewResolver(table, ix, embedderClient, resolve.FromConfig(cfg.Resolver), log)
	optimizer := optimize.NewOptimizer(optimize.FromConfig(cfg.Optimizer), table.Complements(cfg.Data.Complements, log), log)
	filter := diversity.NewFilter(diversity.FromConfig(cfg.Diversity))
	pipeline := core.NewPipeline(resolver, optimizer, filter, core.FromConfig(cfg.Pipeline), log)

	gen := generator.NewGenerator(llmClient, draftCache, generator.FromConfig(cfg.Generator), log)

	batchSize := cfg.Generator.BatchSize
	if batchSize <= 0 {
		batchSize = 6
	}

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	return &Server{
		Pipeline:  pipeline,
		Generator: gen,
		Resolver:  resolver,
		batchSize: batchSize,
		port:      port,
		log:       log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)

	v1 := r.Group("/api/v1")
	v1.POST("/recipes/generate", s.GenerateRecipes)
	v1.POST("/recipes/verify", s.VerifyRecipes)
	v1.POST("/ingredients/resolve", s.ResolveIngredient)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type TargetRequest struct {
	TargetCHOG    float64 `json:"target_cho_g" binding:"required"`
	ToleranceG    float64 `json:"tolerance_g"`
	IsVegan       bool    `json:"is_vegan"`
	IsVegetarian  bool    `json:"is_vegetarian"`
	IsGlutenFree  bool    `json:"is_gluten_free"`
	IsLactoseFree bool    `json:"is_lactose_free"`
}

func (t TargetRequest) toModel() model.UserTarget {
	tol := t.ToleranceG
	if tol <= 0 {
		tol = 10
	}
	return model.UserTarget{
		TargetCHOG:    t.TargetCHOG,
		ToleranceG:    tol,
		IsVegan:       t.IsVegan,
		IsVegetarian:  t.IsVegetarian,
		IsGlutenFree:  t.IsGlutenFree,
		IsLactoseFree: t.IsLactoseFree,
	}
}

type GenerateRequest struct {
	Target TargetRequest `json:"target" binding:"required"`
	Count  int           `json:"count"`
}

func (s *Server) GenerateRecipes(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	count := req.Count
	if count <= 0 {
		count = s.batchSize
	}
	target := req.Target.toModel()

	drafts, err := s.Generator.Drafts(c.Request.Context(), target, count)
	if err != nil {
		s.log.Error("draft generation failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate drafts"})
		return
	}

	result, err := s.Pipeline.Run(c.Request.Context(), drafts, target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type VerifyRequest struct {
	Target TargetRequest       `json:"target" binding:"required"`
	Drafts []model.DraftRecipe `json:"drafts" binding:"required"`
}

func (s *Server) VerifyRecipes(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.Pipeline.Run(c.Request.Context(), req.Drafts, req.Target.toModel())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type ResolveRequest struct {
	Name      string  `json:"name" binding:"required"`
	QuantityG float64 `json:"quantity_g"`
}

func (s *Server) ResolveIngredient(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, s.Resolver.Resolve(c.Request.Context(), req.Name, req.QuantityG))
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
}

func (s *Server) Port() string {
	return s.port
}
