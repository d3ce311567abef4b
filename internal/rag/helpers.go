package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/metrics"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

// executeQueryProcessingStep turns the raw question into a retrieval-ready
// semantic query. The completion gateway infers filters, but a caller-supplied
// domain always wins over the inferred one.
func (s *service) executeQueryProcessingStep(ctx context.Context, log *logger_i.Logger, rawQuery string, domainOverride ragModel.KnowledgeDomain) (ragModel.SemanticQuery, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_processing", time.Since(start)) }()

	domains, err := s.vectorDB.ListNamespaces(ctx)
	if err != nil || len(domains) == 0 {
		for _, d := range ragModel.AllDomains() {
			domains = append(domains, string(d))
		}
	}

	processed, err := s.llmProvider.ProcessQuery(ctx, rawQuery, domains)
	if err != nil {
		return ragModel.SemanticQuery{}, err
	}
	log.Debug("query processed", "semanticQuery", processed.SemanticQuery, "inferenceConfidence", processed.Confidence)

	semantic := ragModel.SemanticQuery{
		Query:    processed.SemanticQuery,
		Filters:  processed.Filters,
		TopK:     s.topK,
		MinScore: s.minScore,
	}
	if semantic.Query == "" {
		semantic.Query = rawQuery
	}
	if domainOverride != "" {
		semantic.Filters.Domain = domainOverride
	}
	return semantic, nil
}

// executeRetrievalStep embeds the semantic query and searches the namespace
// that the query's domain selects. The min-score cut is applied again on the
// client side in case the store ignored the threshold.
func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, semantic ragModel.SemanticQuery) ([]ragModel.VectorMatch, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	vector, tokens, err := s.embedder.GetEmbedding(ctx, semantic.Query, semantic.Filters.Domain)
	if err != nil {
		return nil, err
	}
	log.Debug("query embedded", "tokens", tokens)

	namespace := string(semantic.Filters.Domain)
	if namespace == "" {
		namespace = config.DefaultNamespace
	}

	matches, err := s.vectorDB.Query(ctx, vector, semantic.TopK, namespace, semantic.Filters, semantic.MinScore)
	if err != nil {
		return nil, err
	}

	filtered := matches[:0]
	for _, m := range matches {
		if m.Score >= semantic.MinScore {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Score > filtered[j].Score })

	log.Info("retrieval done", "namespace", namespace, "matches", len(filtered))
	return filtered, nil
}

// executeGenerationStep produces the final answer. With no matches the answer
// is a fixed template and the completion gateway is never called, which keeps
// the empty-result path deterministic and free.
func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, rawQuery string, semantic ragModel.SemanticQuery, matches []ragModel.VectorMatch) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generation", time.Since(start)) }()

	if len(matches) == 0 {
		log.Info("no matches, returning templated answer")
		return noResultsAnswer(rawQuery, semantic.Filters.Domain), nil
	}

	contexts := prepareContext(matches)
	return s.llmProvider.GenerateAnswer(ctx, rawQuery, semantic, contexts)
}

func noResultsAnswer(rawQuery string, domain ragModel.KnowledgeDomain) string {
	scope := "the knowledge base"
	if domain != "" {
		scope = fmt.Sprintf("the %s knowledge base", domain)
	}
	return fmt.Sprintf(
		"I couldn't find any relevant information for %q in %s. "+
			"Try rephrasing the question or adding documents that cover this topic.",
		rawQuery, scope)
}

// prepareContext divides the total context budget evenly over the matches and
// truncates each one at a natural boundary where possible.
func prepareContext(matches []ragModel.VectorMatch) []string {
	budget := config.MaxContextChars / len(matches)
	if budget < 1 {
		budget = 1
	}

	contexts := make([]string, len(matches))
	for i, m := range matches {
		contexts[i] = truncateAtBoundary(m.Content, budget)
	}
	return contexts
}

// truncateAtBoundary cuts content down to at most limit characters. It prefers
// a sentence end in the last 30% of the window, then a word break in the last
// 20%, and hard-cuts otherwise.
func truncateAtBoundary(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	window := content[:limit]

	if end := strings.LastIndexAny(window, ".!?"); end >= (limit*7)/10 {
		return window[:end+1]
	}
	if sp := strings.LastIndexByte(window, ' '); sp >= (limit*8)/10 {
		return window[:sp] + "..."
	}
	return window + "..."
}
