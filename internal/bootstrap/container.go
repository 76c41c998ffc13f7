package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/katnyeung/beans-finder-sub000/internal/config"
	"github.com/katnyeung/beans-finder-sub000/internal/controller"
	"github.com/katnyeung/beans-finder-sub000/internal/pkg/logger"
	"github.com/katnyeung/beans-finder-sub000/internal/service"
	"github.com/katnyeung/beans-finder-sub000/pkg/embedding"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm/factory"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/budget"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/semcache"
)

type Container struct {
	// Controllers
	RecommendController controller.IRecommendController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = embedding.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Redis (shared daily budget counter)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Pipeline Components
	executor := graph.NewGormExecutor(db)
	cache := semcache.NewCache(
		embeddingProvider,
		cfg.Pipeline.CacheThreshold,
		cfg.Pipeline.CacheTTL,
		cfg.Pipeline.CacheEnabled,
		log.Default(),
	)
	governor := budget.NewGovernor(
		rdb,
		cfg.Pipeline.DailyCostCeiling,
		cfg.Pipeline.EstimatedCallCost,
		log.Default(),
	)

	publisherService := service.NewPublisherService(cfg.Pipeline.UsageTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Pipeline.UsageTopic)

	recommendService := service.NewRecommendService(
		cfg,
		executor,
		executor, // GormExecutor also answers graph stats
		llmProvider,
		cache,
		governor,
		publisherService,
		sysLogger,
	)

	return &Container{
		RecommendController: controller.NewRecommendController(recommendService),

		ConsumerService: consumerService,
	}
}
