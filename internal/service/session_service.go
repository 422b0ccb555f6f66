package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"declarant/internal/domain"
	"declarant/internal/ingest"
	"declarant/internal/port"
	"declarant/internal/projector"
	"declarant/internal/validator"
	"declarant/internal/xlsxexport"
)

// SessionService drives one drafting session end to end: four document
// slots, one analysis at a time, and the projected workbook.
type SessionService interface {
	Create(ctx context.Context) (*domain.SessionView, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SessionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SelectFile(ctx context.Context, id uuid.UUID, role domain.DocumentRole, file domain.UploadedFile) (*domain.DocumentSlot, error)
	Slot(ctx context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error)
	AwaitSlot(ctx context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error)
	Analyze(ctx context.Context, id uuid.UUID) (*domain.CustomsRecord, error)
	Result(ctx context.Context, id uuid.UUID) (*domain.CustomsRecord, error)
	Sheets(ctx context.Context, id uuid.UUID, today time.Time) (*domain.SheetSet, error)
	Workbook(ctx context.Context, id uuid.UUID, today time.Time) (*domain.Workbook, error)
	Checks(ctx context.Context, id uuid.UUID) (*validator.Report, error)
}

// SessionConfig holds session lifetime settings.
type SessionConfig struct {
	IdleTTL        time.Duration
	SweepInterval  time.Duration
	AnalyzeTimeout time.Duration
	ExtractTimeout time.Duration
}

type session struct {
	id        uuid.UUID
	board     *ingest.Board
	createdAt time.Time

	mu         sync.Mutex
	updatedAt  time.Time
	processing bool
	lastError  string
	result     *domain.CustomsRecord
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	if now.After(s.updatedAt) {
		s.updatedAt = now
	}
	s.mu.Unlock()
}

// activity returns the latest session or slot update and whether the session
// still has work in flight.
func (s *session) activity() (time.Time, bool) {
	busy := s.board.Busy()
	slots := s.board.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	last := s.updatedAt
	for _, sl := range slots {
		if sl.UpdatedAt.After(last) {
			last = sl.UpdatedAt
		}
	}
	return last, busy || s.processing
}

// SessionManager is the in-memory SessionService. Besides the service
// methods it owns the janitor and shutdown hooks used by main.
type SessionManager struct {
	extractor  port.TextExtractionService
	extraction ExtractionService
	emitter    *xlsxexport.Emitter
	checker    *validator.Engine
	cfg        SessionConfig
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

var _ SessionService = (*SessionManager)(nil)

// NewSessionManager creates a new in-memory SessionManager.
func NewSessionManager(
	extractor port.TextExtractionService,
	extraction ExtractionService,
	emitter *xlsxexport.Emitter,
	cfg SessionConfig,
	logger *zap.Logger,
) *SessionManager {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if emitter == nil {
		emitter = xlsxexport.NewEmitter(nil)
	}
	return &SessionManager{
		extractor:  extractor,
		extraction: extraction,
		emitter:    emitter,
		checker:    validator.NewEngine(nil),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		sessions:   map[uuid.UUID]*session{},
	}
}

// lookup finds a session and marks it as used.
func (s *SessionManager) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *SessionManager) view(sess *session) *domain.SessionView {
	slots := sess.board.Snapshot()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	updated := sess.updatedAt
	for _, sl := range slots {
		if sl.UpdatedAt.After(updated) {
			updated = sl.UpdatedAt
		}
	}
	return &domain.SessionView{
		ID:         sess.id.String(),
		Slots:      slots,
		Processing: sess.processing,
		LastError:  sess.lastError,
		HasResult:  sess.result != nil,
		CreatedAt:  sess.createdAt,
		UpdatedAt:  updated,
	}
}

func (s *SessionManager) Create(_ context.Context) (*domain.SessionView, error) {
	now := s.now()
	sess := &session{
		id:        uuid.New(),
		board:     ingest.NewBoard(s.extractor, ingest.Config{
			ExtractTimeout: s.cfg.ExtractTimeout,
			Clock:          func() time.Time { return s.now() },
		}, s.logger),
		createdAt: now,
		updatedAt: now,
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session: created", zap.String("session_id", sess.id.String()))
	return s.view(sess), nil
}

func (s *SessionManager) Get(_ context.Context, id uuid.UUID) (*domain.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *SessionManager) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.logger.Info("session: deleted", zap.String("session_id", id.String()))
	return nil
}

// SelectFile is allowed while an analysis runs; the in-flight request
// already holds its own copy of the texts.
func (s *SessionManager) SelectFile(_ context.Context, id uuid.UUID, role domain.DocumentRole, file domain.UploadedFile) (*domain.DocumentSlot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	slot, err := sess.board.Select(role, file)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SessionManager) Slot(_ context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	slot, err := sess.board.Slot(role)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SessionManager) AwaitSlot(ctx context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	slot, err := sess.board.Await(ctx, role)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Analyze runs the single extraction pipeline of the session. Every failure
// leaves the session resubmittable: the processing flag is cleared, one
// user-facing message is stored and the ready slots are kept. A previous
// result survives a failed attempt.
func (s *SessionManager) Analyze(ctx context.Context, id uuid.UUID) (*domain.CustomsRecord, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.processing {
		sess.mu.Unlock()
		return nil, domain.ErrAnalysisInProgress
	}
	req, err := sess.board.Request()
	if err != nil {
		sess.lastError = domain.UserMessage(err)
		sess.updatedAt = s.now()
		sess.mu.Unlock()
		return nil, err
	}
	sess.processing = true
	sess.lastError = ""
	sess.updatedAt = s.now()
	sess.mu.Unlock()

	if s.cfg.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalyzeTimeout)
		defer cancel()
	}

	log := s.logger.With(zap.String("session_id", id.String()))
	log.Info("session: analysis started")
	record, err := s.extraction.Analyze(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.processing = false
	sess.updatedAt = s.now()
	if err != nil {
		sess.lastError = domain.UserMessage(err)
		log.Warn("session: analysis failed", zap.Error(err))
		return nil, err
	}
	sess.result = record
	sess.lastError = ""
	log.Info("session: analysis finished", zap.Int("goods", len(record.GoodsList)))
	return record, nil
}

func (s *SessionManager) Result(_ context.Context, id uuid.UUID) (*domain.CustomsRecord, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.result == nil {
		return nil, domain.ErrNoResult
	}
	return sess.result, nil
}

func (s *SessionManager) Sheets(ctx context.Context, id uuid.UUID, today time.Time) (*domain.SheetSet, error) {
	record, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	set := projector.Project(record, today)
	return &set, nil
}

func (s *SessionManager) Workbook(ctx context.Context, id uuid.UUID, today time.Time) (*domain.Workbook, error) {
	record, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	wb, err := s.emitter.Emit(record, projector.Project(record, today).Ordered())
	if err != nil {
		return nil, err
	}
	s.logger.Info("session: workbook emitted",
		zap.String("session_id", id.String()),
		zap.String("file", wb.FileName),
		zap.Int("bytes", len(wb.Data)),
	)
	return wb, nil
}

// Checks runs the advisory consistency checks over the current result.
func (s *SessionManager) Checks(ctx context.Context, id uuid.UUID) (*validator.Report, error) {
	record, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checker.Check(ctx, record), nil
}

// Len returns the number of live sessions.
func (s *SessionManager) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the configured TTL and returns
// how many were removed. Any request on a session, a finished document read
// or an analysis counts as activity. Sessions with a read or an analysis in
// flight are kept.
func (s *SessionManager) Sweep() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	var swept []*ingest.Board
	for id, sess := range s.sessions {
		last, busy := sess.activity()
		if !busy && last.Before(cutoff) {
			delete(s.sessions, id)
			swept = append(swept, sess.board)
		}
	}
	s.mu.Unlock()

	// Superseded reads may still be returning.
	for _, b := range swept {
		b.Wait()
	}
	return len(swept)
}

// RunJanitor sweeps idle sessions on every tick until ctx is canceled.
func (s *SessionManager) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("sessionJanitor: started",
		zap.Duration("interval", s.cfg.SweepInterval),
		zap.Duration("idle_ttl", s.cfg.IdleTTL),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sessionJanitor: shutdown complete")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("sessionJanitor: removed idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Close waits for background document reads of every live session.
func (s *SessionManager) Close() {
	s.mu.RLock()
	boards := make([]*ingest.Board, 0, len(s.sessions))
	for _, sess := range s.sessions {
		boards = append(boards, sess.board)
	}
	s.mu.RUnlock()
	for _, b := range boards {
		b.Wait()
	}
}
