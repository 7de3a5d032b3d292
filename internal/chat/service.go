package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/cache/redis"
	"github.com/ops-agent/backend/internal/execute"
	"github.com/ops-agent/backend/internal/history"
	"github.com/ops-agent/backend/internal/llm"
	"github.com/ops-agent/backend/internal/metrics"
	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/internal/storage/models"
	"github.com/ops-agent/backend/internal/storage/sqlite"
	"github.com/ops-agent/backend/internal/zabbix"
	"github.com/ops-agent/backend/pkg/logger"
	"github.com/ops-agent/backend/pkg/utils"
)

// Service wires the query engine to its collaborators. All
// collaborators except the engine and the history store are optional;
// a nil field disables that capability and the response degrades to
// the artifact plus narrative.
type Service struct {
	engine   *nlq.Engine
	db       *sqlite.Client
	cache    *redis.Client
	executor *execute.Executor
	charts   *history.Fetcher
	zabbix   *zabbix.Executor
	llm      *llm.Client
}

type Request struct {
	Message  string
	UserID   string
	Approved bool
}

type Response struct {
	ID        string                   `json:"id"`
	Message   string                   `json:"message"`
	Intent    string                   `json:"intent"`
	Params    nlq.ExtractedParams      `json:"params"`
	Kind      string                   `json:"kind"`
	Artifact  interface{}              `json:"artifact"`
	Narrative string                   `json:"narrative"`
	Rows      []map[string]interface{} `json:"rows,omitempty"`
	Execution *zabbix.ExecutionResult  `json:"execution,omitempty"`
	Cached    bool                     `json:"cached"`
	LatencyMS int                      `json:"latency_ms"`
}

type Option func(*Service)

func WithCache(c *redis.Client) Option {
	return func(s *Service) { s.cache = c }
}

func WithExecutor(e *execute.Executor) Option {
	return func(s *Service) {
		s.executor = e
		s.charts = history.NewFetcher(e.DB())
	}
}

func WithZabbix(z *zabbix.Executor) Option {
	return func(s *Service) { s.zabbix = z }
}

func WithLLM(c *llm.Client) Option {
	return func(s *Service) { s.llm = c }
}

func NewService(engine *nlq.Engine, db *sqlite.Client, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		db:     db,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()
	queryID := uuid.New().String()

	logger.Info("Processing query",
		zap.String("query_id", queryID),
		zap.String("user_id", req.UserID),
		zap.String("message", req.Message),
	)

	queryHash := utils.HashString(nlq.Normalize(req.Message))

	if cached := s.lookupCache(ctx, queryHash); cached != nil {
		cached.ID = queryID
		cached.Cached = true
		cached.LatencyMS = int(time.Since(startTime).Milliseconds())
		return cached, nil
	}

	result := s.engine.Process(req.Message)
	intent := result.Intent.String()
	kind := result.Artifact.Kind()

	metrics.ArtifactTotal.WithLabelValues(kind).Inc()

	resp := &Response{
		ID:        queryID,
		Message:   req.Message,
		Intent:    intent,
		Params:    result.Params,
		Kind:      kind,
		Artifact:  result.Artifact,
		Narrative: result.Narrative,
	}

	executed := s.handleArtifact(ctx, resp, result, req)

	if result.Intent == nlq.IntentGeneralQuery && s.llm != nil {
		s.answerWithLLM(ctx, resp, req.Message)
	}

	resp.LatencyMS = int(time.Since(startTime).Milliseconds())

	s.recordQuery(resp, req.UserID, executed)

	if kind != "rpc" && kind != "unsupported" {
		s.storeCache(ctx, queryHash, resp)
	}

	metrics.QueryTotal.WithLabelValues(intent, "success").Inc()
	metrics.QueryDuration.WithLabelValues(intent).Observe(time.Since(startTime).Seconds())

	logger.Info("Query processed",
		zap.String("query_id", queryID),
		zap.String("intent", intent),
		zap.String("kind", kind),
		zap.Int("latency_ms", resp.LatencyMS),
	)

	return resp, nil
}

// handleArtifact runs the artifact against the matching backend and
// reports whether anything was actually executed.
func (s *Service) handleArtifact(ctx context.Context, resp *Response, result nlq.QueryResult, req Request) bool {
	switch artifact := result.Artifact.(type) {
	case nlq.SQLArtifact:
		if s.executor == nil {
			return false
		}
		execStart := time.Now()
		rows, err := s.executor.Run(ctx, artifact)
		if err != nil {
			logger.Warn("SQL execution failed",
				zap.String("query_id", resp.ID),
				zap.Error(err),
			)
			resp.Narrative = resp.Narrative + " (não foi possível consultar o banco de dados)"
			return false
		}
		metrics.SQLExecutionDuration.Observe(time.Since(execStart).Seconds())
		metrics.SQLRowsReturned.Observe(float64(len(rows)))
		resp.Rows = rows
		return true

	case nlq.ChartArtifact:
		if s.charts == nil {
			return false
		}
		chart := artifact
		err := s.charts.Populate(ctx, &chart, result.Params.Host, result.Params.Window)
		if err != nil {
			logger.Warn("Chart population failed",
				zap.String("query_id", resp.ID),
				zap.Error(err),
			)
			return false
		}
		resp.Artifact = chart
		return true

	case nlq.RPCArtifact:
		if s.zabbix == nil {
			return false
		}
		execResult, err := s.zabbix.Execute(ctx, artifact, result.Params.Host, req.Approved)
		if err != nil {
			logger.Warn("RPC execution failed",
				zap.String("query_id", resp.ID),
				zap.String("method", artifact.Method),
				zap.Error(err),
			)
			resp.Narrative = fmt.Sprintf("Não foi possível executar a operação: %v", err)
			return false
		}
		resp.Execution = execResult
		return !execResult.DryRun

	default:
		return false
	}
}

func (s *Service) answerWithLLM(ctx context.Context, resp *Response, message string) {
	answer, err := s.llm.AnswerGeneral(ctx, message)
	if err != nil {
		logger.Warn("LLM fallback failed",
			zap.String("query_id", resp.ID),
			zap.Error(err),
		)
		return
	}
	resp.Narrative = answer
}

func (s *Service) lookupCache(ctx context.Context, hash string) *Response {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.GetResult(ctx, hash)
	if err != nil {
		logger.Warn("Cache lookup failed", zap.Error(err))
		return nil
	}
	if data == nil {
		metrics.CacheMisses.Inc()
		return nil
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("Cached response corrupted", zap.Error(err))
		return nil
	}

	metrics.CacheHits.Inc()
	return &resp
}

func (s *Service) storeCache(ctx context.Context, hash string, resp *Response) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetResult(ctx, hash, resp); err != nil {
		logger.Warn("Cache store failed", zap.Error(err))
	}
}

func (s *Service) recordQuery(resp *Response, userID string, executed bool) {
	record := &models.QueryRecord{
		ID:           resp.ID,
		UserID:       userID,
		QueryText:    resp.Message,
		Intent:       resp.Intent,
		Narrative:    resp.Narrative,
		ArtifactKind: resp.Kind,
		Executed:     executed,
		LatencyMS:    resp.LatencyMS,
		CreatedAt:    time.Now(),
	}

	if err := s.db.InsertQueryRecord(record); err != nil {
		logger.Error("Failed to record query", zap.Error(err))
		return
	}

	payload, err := json.Marshal(resp.Artifact)
	if err != nil {
		logger.Error("Failed to marshal artifact", zap.Error(err))
		return
	}

	artifact := &models.QueryArtifact{
		QueryID: resp.ID,
		Kind:    resp.Kind,
		Payload: string(payload),
	}

	if err := s.db.InsertArtifact(artifact); err != nil {
		logger.Error("Failed to record artifact", zap.Error(err))
	}
}

func (s *Service) History(userID string, limit int) ([]models.QueryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.db.GetQueryHistory(userID, limit)
}

// IntentCounts aggregates processed queries per intent over the given
// lookback period.
func (s *Service) IntentCounts(lookback time.Duration) (map[string]int, error) {
	return s.db.IntentCounts(time.Now().Add(-lookback).Unix())
}

func (s *Service) StoreFeedback(queryID string, helpful bool, issueCategory, comment string) error {
	feedback := &models.Feedback{
		QueryID:       queryID,
		Helpful:       helpful,
		IssueCategory: issueCategory,
		Comment:       comment,
	}

	if err := s.db.StoreFeedback(feedback); err != nil {
		return err
	}

	helpfulLabel := "false"
	if helpful {
		helpfulLabel = "true"
	}
	metrics.UserSatisfaction.WithLabelValues(helpfulLabel).Inc()

	return nil
}
