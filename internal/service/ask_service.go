package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/intent"
	"github.com/xxxsen/askfolio/internal/model"
	appErr "github.com/xxxsen/askfolio/internal/pkg/errors"
	"github.com/xxxsen/askfolio/internal/quota"
	"github.com/xxxsen/askfolio/internal/rag"
	"github.com/xxxsen/askfolio/internal/respcache"
)

const defaultMaxQueryChars = 500

type Searcher interface {
	Search(ctx context.Context, query string) (*rag.Result, error)
	Classify(query string) intent.Intent
}

type AskInput struct {
	Query   string
	Context string
}

type AskResult struct {
	Data         *model.Answer
	Cached       bool
	RAG          *model.RAGInfo
	QuotaReached bool
}

type AskStatus struct {
	QuotaUsed    int64 `json:"quotaUsed"`
	QuotaLimit   int64 `json:"quotaLimit"`
	QuotaReached bool  `json:"quotaReached"`
	CacheEntries int   `json:"cacheEntries"`
	Chunks       int   `json:"chunks"`
}

type AskConfig struct {
	MaxQueryChars int
	// MaxRetries bounds the extra generator calls one request may make, whether
	// the first call failed in transport or returned an invalid answer.
	MaxRetries int
}

type AskDeps struct {
	Profile   *model.Profile
	Corpus    *corpus.Corpus
	Searcher  Searcher
	Generator ai.IGenerator
	Cache     *respcache.Cache
	Quota     *quota.Guard
}

type AskService struct {
	deps        AskDeps
	cfg         AskConfig
	instruction string
}

func NewAskService(deps AskDeps, cfg AskConfig) *AskService {
	if cfg.MaxQueryChars <= 0 {
		cfg.MaxQueryChars = defaultMaxQueryChars
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &AskService{
		deps:        deps,
		cfg:         cfg,
		instruction: fmt.Sprintf(systemInstruction, deps.Profile.Identity.Name),
	}
}

// Ask only returns an error for invalid input. Dependency failures are
// answered with a canned panel.
func (s *AskService) Ask(ctx context.Context, in AskInput) (*AskResult, error) {
	query := strings.TrimSpace(in.Query)
	followUp := strings.TrimSpace(in.Context)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", appErr.ErrInvalid)
	}
	if utf8.RuneCountInString(query) > s.cfg.MaxQueryChars {
		return nil, fmt.Errorf("query exceeds %d characters: %w", s.cfg.MaxQueryChars, appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("query", query))

	key := respcache.Key(query, followUp)
	if entry, ok := s.deps.Cache.Get(key); ok {
		logger.Debug("ask served from cache")
		return &AskResult{Data: entry.Answer, Cached: true, RAG: entry.RAG, QuotaReached: entry.QuotaReached}, nil
	}

	result, err := s.deps.Searcher.Search(ctx, query)
	if err == nil && len(result.Matches) == 0 {
		err = errors.New("search returned no chunks")
	}
	if err != nil {
		classified := s.deps.Searcher.Classify(query)
		logger.Warn("retrieval failed, serving canned answer", zap.String("intent", string(classified)), zap.Error(err))
		return &AskResult{Data: cannedAnswer(classified, s.deps.Profile)}, nil
	}
	ragInfo := &model.RAGInfo{
		Intent:          string(result.Intent),
		ChunksRetrieved: len(result.Matches),
		FallbackUsed:    result.FallbackUsed,
	}

	if s.deps.Quota.IsExceeded() {
		logger.Warn("daily quota reached, answering from retrieved chunk",
			zap.Int64("used", s.deps.Quota.Used()), zap.Int64("limit", s.deps.Quota.Limit()))
		answer := degradedAnswer(result, s.deps.Corpus, s.deps.Profile.Identity.Name)
		s.deps.Cache.Set(key, respcache.Entry{Answer: answer, RAG: ragInfo, QuotaReached: true})
		return &AskResult{Data: answer, RAG: ragInfo, QuotaReached: true}, nil
	}

	answer, err := s.generate(ctx, query, followUp, result)
	if err != nil {
		logger.Warn("generation failed, serving canned answer", zap.String("intent", string(result.Intent)), zap.Error(err))
		return &AskResult{Data: cannedAnswer(result.Intent, s.deps.Profile), RAG: ragInfo}, nil
	}
	s.deps.Cache.Set(key, respcache.Entry{Answer: answer, RAG: ragInfo})
	logger.Info("ask answered",
		zap.String("intent", ragInfo.Intent),
		zap.Int("chunks", ragInfo.ChunksRetrieved),
		zap.Bool("fallback", ragInfo.FallbackUsed),
		zap.String("type", string(answer.Type)))
	return &AskResult{Data: answer, RAG: ragInfo}, nil
}

func (s *AskService) generate(ctx context.Context, query, followUp string, result *rag.Result) (*model.Answer, error) {
	if s.deps.Generator == nil {
		return nil, ai.ErrUnavailable
	}
	req := ai.GenerateRequest{
		SystemInstruction: s.instruction,
		Schema:            answerSchema,
		Prompt:            buildPrompt(query, followUp, rag.FormatContext(result)),
	}
	// One budget covers transport retries, failover and re-generation.
	ctx = ai.WithRetryBudget(ctx, s.cfg.MaxRetries)
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 && (s.deps.Quota.IsExceeded() || !ai.TakeRetry(ctx)) {
			break
		}
		output, err := s.deps.Generator.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		s.deps.Quota.Increment()
		answer, err := parseAnswer(output, s.deps.Corpus)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("generated answer rejected", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, lastErr
}

func (s *AskService) Status() AskStatus {
	return AskStatus{
		QuotaUsed:    s.deps.Quota.Used(),
		QuotaLimit:   s.deps.Quota.Limit(),
		QuotaReached: s.deps.Quota.IsExceeded(),
		CacheEntries: s.deps.Cache.Len(),
		Chunks:       s.deps.Corpus.Len(),
	}
}
