// Package ingest tracks the four document slots of a session. Each slot moves
// Empty -> Reading -> Ready|Error, and a newer selection always supersedes an
// older one still being read.
package ingest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"declarant/internal/domain"
	"declarant/internal/port"
)

const defaultExtractTimeout = 60 * time.Second

// Config holds settings for a Board.
type Config struct {
	ExtractTimeout time.Duration
	// Clock stamps slot updates. Defaults to time.Now.
	Clock func() time.Time
}

type slot struct {
	state domain.DocumentSlot
	// settled is closed when the current generation leaves Reading.
	settled chan struct{}
}

// Board holds the four slots of one session.
type Board struct {
	extractor port.TextExtractionService
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	slots map[domain.DocumentRole]*slot
	wg    sync.WaitGroup
}

// NewBoard creates a Board with all four slots Empty.
func NewBoard(extractor port.TextExtractionService, cfg Config, logger *zap.Logger) *Board {
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = defaultExtractTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	b := &Board{
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
		now:       cfg.Clock,
		slots:     make(map[domain.DocumentRole]*slot, len(domain.AllRoles)),
	}
	for _, role := range domain.AllRoles {
		b.slots[role] = newEmptySlot(role, b.now())
	}
	return b
}

func newEmptySlot(role domain.DocumentRole, at time.Time) *slot {
	settled := make(chan struct{})
	close(settled)
	return &slot{
		state:   domain.DocumentSlot{Role: role, Status: domain.SlotStatusEmpty, UpdatedAt: at},
		settled: settled,
	}
}

// Select records file for role and starts reading it in the background. The
// slot is Reading when Select returns. Any earlier read of the same slot that
// has not finished yet is discarded when it completes.
func (b *Board) Select(role domain.DocumentRole, file domain.UploadedFile) (domain.DocumentSlot, error) {
	if !role.Valid() {
		return domain.DocumentSlot{}, domain.ErrUnknownRole
	}

	b.mu.Lock()
	s := b.slots[role]
	prev := s.settled
	s.state.Generation++
	s.state.Status = domain.SlotStatusReading
	s.state.FileName = file.Name
	s.state.Text = ""
	s.state.TextLength = 0
	s.state.Error = ""
	s.state.UpdatedAt = b.now()
	s.settled = make(chan struct{})
	gen := s.state.Generation
	snapshot := s.state
	b.mu.Unlock()

	// Waiters on the superseded attempt move on to the new one.
	closeOnce(prev)

	b.wg.Add(1)
	go b.read(role, gen, file)

	return snapshot, nil
}

func (b *Board) read(role domain.DocumentRole, gen uint64, file domain.UploadedFile) {
	defer b.wg.Done()

	// Detached from the request: an upload returns before its read finishes.
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.ExtractTimeout)
	defer cancel()

	text, err := b.extractor.Extract(ctx, file)
	b.complete(role, gen, text, err)
}

func (b *Board) complete(role domain.DocumentRole, gen uint64, text string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slots[role]
	if s.state.Generation != gen {
		b.logger.Debug("ingest: discarding superseded read",
			zap.String("role", string(role)),
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.state.Generation),
		)
		return
	}

	s.state.UpdatedAt = b.now()
	if err != nil {
		readErr := &domain.ReadError{Role: role, Err: err}
		b.logger.Warn("ingest: document read failed",
			zap.String("role", string(role)),
			zap.String("file", s.state.FileName),
			zap.Error(err),
		)
		s.state.Status = domain.SlotStatusError
		s.state.FileName = ""
		s.state.Text = ""
		s.state.TextLength = 0
		s.state.Error = readErr.UserMessage()
	} else {
		s.state.Status = domain.SlotStatusReady
		s.state.Text = text
		s.state.TextLength = len([]rune(text))
		s.state.Error = ""
	}
	closeOnce(s.settled)
}

// Slot returns the current state of role.
func (b *Board) Slot(role domain.DocumentRole) (domain.DocumentSlot, error) {
	if !role.Valid() {
		return domain.DocumentSlot{}, domain.ErrUnknownRole
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slots[role].state, nil
}

// Snapshot returns all four slots in fixed order.
func (b *Board) Snapshot() []domain.DocumentSlot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.DocumentSlot, 0, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		out = append(out, b.slots[role].state)
	}
	return out
}

// Busy reports whether any slot is still Reading.
func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.slots {
		if s.state.Status == domain.SlotStatusReading {
			return true
		}
	}
	return false
}

// Await blocks until role is no longer Reading, or ctx ends. If the slot is
// re-selected while waiting, Await follows the newer attempt.
func (b *Board) Await(ctx context.Context, role domain.DocumentRole) (domain.DocumentSlot, error) {
	if !role.Valid() {
		return domain.DocumentSlot{}, domain.ErrUnknownRole
	}
	for {
		b.mu.Lock()
		s := b.slots[role]
		if s.state.Status != domain.SlotStatusReading {
			state := s.state
			b.mu.Unlock()
			return state, nil
		}
		settled := s.settled
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return domain.DocumentSlot{}, ctx.Err()
		case <-settled:
		}
	}
}

// Request builds the extraction request from the Ready slots, or returns a
// ValidationError listing every slot that is not Ready.
func (b *Board) Request() (domain.ExtractionRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var missing []domain.DocumentRole
	for _, role := range domain.AllRoles {
		if b.slots[role].state.Status != domain.SlotStatusReady {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return domain.ExtractionRequest{}, &domain.ValidationError{Missing: missing}
	}

	return domain.NewExtractionRequest(
		b.slots[domain.RoleContract].state.Text,
		b.slots[domain.RoleInvoice].state.Text,
		b.slots[domain.RoleDescription].state.Text,
		b.slots[domain.RolePacking].state.Text,
	)
}

// Reset returns role to Empty. A read still in flight for it is discarded.
func (b *Board) Reset(role domain.DocumentRole) error {
	if !role.Valid() {
		return domain.ErrUnknownRole
	}
	b.mu.Lock()
	s := b.slots[role]
	gen := s.state.Generation + 1
	prev := s.settled
	fresh := newEmptySlot(role, b.now())
	fresh.state.Generation = gen
	b.slots[role] = fresh
	b.mu.Unlock()

	closeOnce(prev)
	return nil
}

// Wait blocks until every background read has returned. Used on shutdown.
func (b *Board) Wait() {
	b.wg.Wait()
}

func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
