package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"declarant/internal/domain"
	"declarant/internal/parser"
	"declarant/internal/port"
)

// ExtractionService turns the text of the four trade documents into a
// CustomsRecord with a single oracle call.
type ExtractionService interface {
	Analyze(ctx context.Context, req domain.ExtractionRequest) (*domain.CustomsRecord, error)
}

// ExtractionConfig holds prompt assembly settings.
type ExtractionConfig struct {
	MaxInputChars int
}

type extractionService struct {
	oracle   port.ExtractionOracle
	contract parser.Contract
	cfg      ExtractionConfig
	logger   *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(oracle port.ExtractionOracle, cfg ExtractionConfig, logger *zap.Logger) ExtractionService {
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = parser.DefaultMaxInputChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &extractionService{
		oracle:   oracle,
		contract: parser.CustomsRecordContract(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Analyze is all-or-nothing: it returns either a complete record or an
// error, never a partial record.
func (s *extractionService) Analyze(ctx context.Context, req domain.ExtractionRequest) (*domain.CustomsRecord, error) {
	if missing := req.MissingRoles(); len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}

	oracleReq := port.OracleRequest{
		SystemInstruction: parser.SystemInstruction,
		UserPrompt:        parser.BuildUserPrompt(req, s.contract, s.cfg.MaxInputChars),
		Contract:          s.contract,
	}

	start := time.Now()
	resp, err := s.oracle.Generate(ctx, oracleReq)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Warn("extraction: oracle call failed",
			zap.Duration("elapsed", elapsed),
			zap.Bool("rate_limited", parser.IsRateLimited(err)),
			zap.Error(err),
		)
		return nil, classifyOracleError(err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, domain.NewOracleResponse("empty response", nil)
	}

	record, err := parser.DecodeRecord(resp.Text)
	if err != nil {
		s.logger.Warn("extraction: response rejected",
			zap.String("model", resp.ModelUsed),
			zap.String("contract", s.contract.Version()),
			zap.Error(err),
		)
		return nil, domain.NewOracleResponse("response does not match "+s.contract.Version(), err)
	}

	s.logger.Info("extraction: record produced",
		zap.String("model", resp.ModelUsed),
		zap.Duration("elapsed", elapsed),
		zap.Int("goods", len(record.GoodsList)),
	)
	return record, nil
}

// classifyOracleError makes sure every oracle failure reaches the caller as
// one of the two oracle error kinds.
func classifyOracleError(err error) error {
	var (
		unavailable *domain.OracleUnavailableError
		bad         *domain.OracleResponseError
	)
	switch {
	case errors.As(err, &unavailable), errors.As(err, &bad):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.NewOracleUnavailable("request timed out or was canceled", err)
	}
	return domain.NewOracleUnavailable("request failed", fmt.Errorf("oracle: %w", err))
}
