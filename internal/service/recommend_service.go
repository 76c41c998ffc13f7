package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/katnyeung/beans-finder-sub000/internal/config"
	"github.com/katnyeung/beans-finder-sub000/internal/dto"
	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/internal/pkg/logger"
	"github.com/katnyeung/beans-finder-sub000/pkg/events"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/budget"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/classifier"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/ranking"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/retrieval"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/semcache"
)

// ErrProductNotFound is returned by product lookups for unknown ids.
var ErrProductNotFound = errors.New("product not found")

// IRecommendService defines the recommendation pipeline surface
type IRecommendService interface {
	Recommend(ctx context.Context, request *dto.RecommendRequest) (*dto.RecommendResponse, error)
	ShowProduct(ctx context.Context, id uuid.UUID) (*dto.ShowProductResponse, error)
	BudgetStats(ctx context.Context) (*dto.BudgetStatsResponse, error)
}

// recommendService runs the full pipeline: semantic cache, budget gate,
// intent classification, tiered retrieval, ranking, cache store, usage
// event. Domain refusals (budget, unusable classification, no matches)
// come back as outcomes, not errors; errors are infrastructure failures.
type recommendService struct {
	executor         graph.Executor
	classifier       *classifier.Classifier
	engine           *retrieval.Engine
	ranker           *ranking.Ranker
	cache            *semcache.Cache
	governor         *budget.Governor
	publisherService IPublisherService
	logger           logger.ILogger
	pipelineLogger   *log.Logger
}

func NewRecommendService(
	cfg *config.Config,
	executor graph.Executor,
	statsSource graph.StatsSource,
	llmProvider llm.LLMProvider,
	cache *semcache.Cache,
	governor *budget.Governor,
	publisherService IPublisherService,
	appLogger logger.ILogger,
) IRecommendService {
	pipelineLogger := initPipelineLogger()
	return &recommendService{
		executor:         executor,
		classifier:       classifier.NewClassifier(llmProvider, statsSource, pipelineLogger),
		engine:           retrieval.NewEngine(executor, cfg.Pipeline.MaxCandidates, pipelineLogger),
		ranker:           ranking.NewRanker(llmProvider, pipelineLogger),
		cache:            cache,
		governor:         governor,
		publisherService: publisherService,
		logger:           appLogger,
		pipelineLogger:   pipelineLogger,
	}
}

// initPipelineLogger writes the verbose per-request pipeline trace to its
// own file, keeping the structured app log readable.
func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "recommend_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (s *recommendService) Recommend(ctx context.Context, request *dto.RecommendRequest) (*dto.RecommendResponse, error) {
	ref, err := s.resolveReference(ctx, request)
	if err != nil {
		return nil, err
	}
	contextKey := buildContextKey(ref, request.ShownProductIds)

	// 1. Semantic cache: a hit replays the stored response byte-identically
	// and spends nothing.
	cached, queryVector, err := s.cache.Lookup(ctx, request.Query, contextKey)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		var response dto.RecommendResponse
		if err := json.Unmarshal(cached, &response); err != nil {
			return nil, fmt.Errorf("corrupt cache entry: %w", err)
		}
		s.publishServed(ctx, request.Query, response.Outcome, len(response.Products), true)
		return &response, nil
	}

	// 2. Budget gate. Refusal happens before any reasoning spend; the
	// counter is untouched.
	if err := s.governor.Check(ctx); err != nil {
		if errors.Is(err, budget.ErrBudgetExceeded) {
			s.publishServed(ctx, request.Query, dto.OutcomeBudgetExceeded, 0, false)
			return &dto.RecommendResponse{
				Outcome:  dto.OutcomeBudgetExceeded,
				Response: "The recommendation service has reached today's usage limit. Please try again tomorrow.",
				Products: []dto.RecommendedProduct{},
			}, nil
		}
		return nil, err
	}

	// 3. Charge the run up front, immediately before the first reasoning
	// call. A failed pipeline still spent its classification tokens.
	if _, err := s.governor.RecordRun(ctx); err != nil {
		return nil, err
	}

	// 4. Intent classification. No keyword fallback: an unusable answer
	// aborts the request.
	history := historyMessages(request.History)
	plan, err := s.classifier.Classify(ctx, request.Query, ref, history)
	if err != nil {
		if errors.Is(err, classifier.ErrMalformedPlan) || errors.Is(err, llm.ErrTransport) {
			s.logger.Error("RecommendService", "intent classification failed", map[string]interface{}{"error": err.Error()})
			s.publishServed(ctx, request.Query, dto.OutcomeClassificationFailed, 0, false)
			return &dto.RecommendResponse{
				Outcome:  dto.OutcomeClassificationFailed,
				Response: "I could not work out what to look for. Could you rephrase that?",
				Products: []dto.RecommendedProduct{},
			}, nil
		}
		return nil, err
	}

	// 5. Deterministic tiered retrieval.
	result, err := s.engine.Retrieve(ctx, plan, ref, request.ShownProductIds)
	if err != nil {
		return nil, err
	}
	if len(result.Candidates) == 0 {
		outcome := dto.OutcomeNoMatches
		if result.AllSeen {
			outcome = dto.OutcomeAllSeen
		}
		response := &dto.RecommendResponse{
			Outcome:          outcome,
			Response:         plan.Response,
			QueryType:        string(plan.QueryType),
			Products:         []dto.RecommendedProduct{},
			SuggestedActions: mapSuggestedActions(plan.SuggestedActions),
		}
		s.storeAndPublish(ctx, request.Query, contextKey, queryVector, response, false)
		return response, nil
	}

	// 6. Ranking. A failure here degrades to the unranked shaped list
	// instead of discarding a retrieval that already succeeded.
	products, degraded := s.rankOrDegrade(ctx, request.Query, ref, history, result.Candidates)

	response := &dto.RecommendResponse{
		Outcome:          dto.OutcomeOK,
		Response:         plan.Response,
		QueryType:        string(plan.QueryType),
		Products:         products,
		SuggestedActions: mapSuggestedActions(plan.SuggestedActions),
	}
	if degraded {
		// A run that skipped ranking is incomplete: the next identical query
		// should get a ranked answer, not a replay of this one.
		s.publishServed(ctx, request.Query, response.Outcome, len(response.Products), false)
		return response, nil
	}
	s.storeAndPublish(ctx, request.Query, contextKey, queryVector, response, false)
	return response, nil
}

func (s *recommendService) rankOrDegrade(ctx context.Context, query string, ref *model.Product, history []llm.Message, candidates []model.Product) ([]dto.RecommendedProduct, bool) {
	ranked, err := s.ranker.Rank(ctx, query, ref, history, candidates)
	if err != nil {
		s.logger.Warn("RecommendService", "ranking degraded to unranked candidates", map[string]interface{}{"error": err.Error()})
		products := make([]dto.RecommendedProduct, 0, len(candidates))
		for _, p := range candidates {
			products = append(products, mapProduct(p, ""))
		}
		return products, true
	}
	products := make([]dto.RecommendedProduct, 0, len(ranked))
	for _, r := range ranked {
		products = append(products, mapProduct(r.Product, r.Reason))
	}
	return products, false
}

func (s *recommendService) ShowProduct(ctx context.Context, id uuid.UUID) (*dto.ShowProductResponse, error) {
	product, err := s.executor.Product(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return &dto.ShowProductResponse{
		Id:           product.Id,
		Name:         product.Name,
		Brand:        product.Brand,
		Origins:      product.Origins,
		RoastLevel:   product.RoastLevel,
		Processes:    product.Processes,
		Price:        product.Price,
		Currency:     product.Currency,
		TastingNotes: product.NoteNames(),
		SellerUrl:    product.SellerURL,
	}, nil
}

func (s *recommendService) BudgetStats(ctx context.Context) (*dto.BudgetStatsResponse, error) {
	stats, err := s.governor.TodayStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BudgetStatsResponse{
		Date:          stats.Date,
		Spent:         stats.Spent,
		Ceiling:       stats.Ceiling,
		Remaining:     stats.Remaining,
		Runs:          stats.Runs,
		RemainingRuns: stats.RemainingRuns,
	}, nil
}

func (s *recommendService) resolveReference(ctx context.Context, request *dto.RecommendRequest) (*model.Product, error) {
	if request.ReferenceProductId == nil {
		return nil, nil
	}
	ref, err := s.executor.Product(ctx, request.ReferenceProductId.String())
	if err != nil {
		return nil, err
	}
	if ref == nil {
		// A stale reference downgrades the request to reference-free
		s.pipelineLogger.Printf("[PIPELINE] reference product %s not found, continuing without it", request.ReferenceProductId)
	}
	return ref, nil
}

func (s *recommendService) storeAndPublish(ctx context.Context, query, contextKey string, vector []float32, response *dto.RecommendResponse, cached bool) {
	payload, err := json.Marshal(response)
	if err == nil {
		s.cache.Store(query, contextKey, vector, payload)
	}
	s.publishServed(ctx, query, response.Outcome, len(response.Products), cached)
}

func (s *recommendService) publishServed(ctx context.Context, query, outcome string, candidates int, cached bool) {
	evt := events.RecommendationServed(query, outcome, candidates, cached)
	payload, err := json.Marshal(map[string]interface{}{
		"type":        evt.EventType(),
		"payload":     evt.Payload(),
		"occurred_at": evt.Timestamp(),
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("RecommendService", "usage event publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// buildContextKey scopes cache entries to the conversational situation:
// the same question with a different reference or seen-list must never
// replay another context's answer.
func buildContextKey(ref *model.Product, shownIDs []string) string {
	refID := ""
	if ref != nil {
		refID = ref.Id.String()
	}
	shown := append([]string(nil), shownIDs...)
	sort.Strings(shown)
	return refID + "|" + strings.Join(shown, ",")
}

// historyMessages converts replayed turns for prompting. Product payloads
// the frontend embeds are dropped here.
func historyMessages(history []dto.ChatTurn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return messages
}

func mapProduct(p model.Product, reason string) dto.RecommendedProduct {
	return dto.RecommendedProduct{
		Id:           p.Id,
		Name:         p.Name,
		Brand:        p.Brand,
		Origins:      p.Origins,
		RoastLevel:   p.RoastLevel,
		Processes:    p.Processes,
		Price:        p.Price,
		Currency:     p.Currency,
		TastingNotes: p.NoteNames(),
		SellerUrl:    p.SellerURL,
		Reason:       reason,
	}
}

func mapSuggestedActions(actions []retrieval.SuggestedAction) []dto.SuggestedAction {
	mapped := make([]dto.SuggestedAction, 0, len(actions))
	for _, a := range actions {
		mapped = append(mapped, dto.SuggestedAction{
			Label:  a.Label,
			Intent: a.Intent,
			Icon:   a.Icon,
		})
	}
	return mapped
}
