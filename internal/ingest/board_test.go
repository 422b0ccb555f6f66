package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declarant/internal/domain"
	"declarant/internal/ingest"
)

// gatedExtractor returns the text registered for a file name once the file's
// gate is released.
type gatedExtractor struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	texts map[string]string
	errs  map[string]error
}

func newGatedExtractor() *gatedExtractor {
	return &gatedExtractor{
		gates: map[string]chan struct{}{},
		texts: map[string]string{},
		errs:  map[string]error{},
	}
}

func (g *gatedExtractor) add(name, text string, err error, gated bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.texts[name] = text
	g.errs[name] = err
	if gated {
		g.gates[name] = make(chan struct{})
	}
}

func (g *gatedExtractor) release(name string) {
	g.mu.Lock()
	gate := g.gates[name]
	g.mu.Unlock()
	close(gate)
}

func (g *gatedExtractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	g.mu.Lock()
	gate := g.gates[file.Name]
	text, err := g.texts[file.Name], g.errs[file.Name]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

func await(t *testing.T, b *ingest.Board, role domain.DocumentRole) domain.DocumentSlot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := b.Await(ctx, role)
	require.NoError(t, err)
	return s
}

func TestNewBoard_AllEmpty(t *testing.T) {
	b := ingest.NewBoard(newGatedExtractor(), ingest.Config{}, nil)

	slots := b.Snapshot()
	require.Len(t, slots, 4)
	for i, role := range domain.AllRoles {
		assert.Equal(t, role, slots[i].Role)
		assert.Equal(t, domain.SlotStatusEmpty, slots[i].Status)
		assert.False(t, slots[i].HasFile())
	}
}

func TestSelect_ReadingThenReady(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("contract.docx", "SALES CONTRACT", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	s, err := b.Select(domain.RoleContract, domain.UploadedFile{Name: "contract.docx"})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusReading, s.Status)
	assert.Equal(t, "contract.docx", s.FileName)

	ext.release("contract.docx")
	s = await(t, b, domain.RoleContract)
	assert.Equal(t, domain.SlotStatusReady, s.Status)
	assert.Equal(t, "SALES CONTRACT", s.Text)
	assert.Equal(t, 14, s.TextLength)
	b.Wait()
}

func TestBusy_TracksReadsAndClock(t *testing.T) {
	stamp := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	ext := newGatedExtractor()
	ext.add("invoice.txt", "COMMERCIAL INVOICE", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{Clock: func() time.Time { return stamp }}, nil)
	assert.False(t, b.Busy())

	s, err := b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "invoice.txt"})
	require.NoError(t, err)
	assert.Equal(t, stamp, s.UpdatedAt)
	assert.True(t, b.Busy())

	ext.release("invoice.txt")
	await(t, b, domain.RoleInvoice)
	assert.False(t, b.Busy())
	b.Wait()
}

func TestSelect_ReadFailureClearsFile(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("broken.docx", "", errors.New("zip: not a valid zip file"), false)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	_, err := b.Select(domain.RolePacking, domain.UploadedFile{Name: "broken.docx"})
	require.NoError(t, err)

	s := await(t, b, domain.RolePacking)
	assert.Equal(t, domain.SlotStatusError, s.Status)
	assert.Empty(t, s.FileName)
	assert.Empty(t, s.Text)
	assert.Equal(t, "Error reading packing list file. Please ensure it is a valid .docx or .txt file.", s.Error)
	b.Wait()
}

func TestSelect_LaterSelectionWins(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("a.txt", "text A", nil, true)
	ext.add("b.txt", "text B", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	_, err := b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "a.txt"})
	require.NoError(t, err)
	_, err = b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "b.txt"})
	require.NoError(t, err)

	// B finishes first, then the stale read of A completes.
	ext.release("b.txt")
	s := await(t, b, domain.RoleInvoice)
	assert.Equal(t, "text B", s.Text)

	ext.release("a.txt")
	b.Wait()

	s, err = b.Slot(domain.RoleInvoice)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusReady, s.Status)
	assert.Equal(t, "b.txt", s.FileName)
	assert.Equal(t, "text B", s.Text)
	assert.Equal(t, uint64(2), s.Generation)
}

func TestSelect_StaleCompletionBeforeCurrent(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("a.txt", "text A", nil, true)
	ext.add("b.txt", "text B", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	_, _ = b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "a.txt"})
	_, _ = b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "b.txt"})

	ext.release("a.txt")
	time.Sleep(20 * time.Millisecond)

	s, err := b.Slot(domain.RoleInvoice)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusReading, s.Status)
	assert.Empty(t, s.Text)

	ext.release("b.txt")
	s = await(t, b, domain.RoleInvoice)
	assert.Equal(t, "text B", s.Text)
	b.Wait()
}

func TestSelect_TouchesOnlyOneSlot(t *testing.T) {
	ext := newGatedExtractor()
	for _, name := range []string{"c.txt", "i.txt", "d.txt", "p.txt"} {
		ext.add(name, "content of "+name, nil, false)
	}
	ext.add("i2.txt", "new invoice", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	files := map[domain.DocumentRole]string{
		domain.RoleContract:    "c.txt",
		domain.RoleInvoice:     "i.txt",
		domain.RoleDescription: "d.txt",
		domain.RolePacking:     "p.txt",
	}
	for role, name := range files {
		_, err := b.Select(role, domain.UploadedFile{Name: name})
		require.NoError(t, err)
	}
	for _, role := range domain.AllRoles {
		await(t, b, role)
	}
	before := b.Snapshot()

	_, err := b.Select(domain.RoleInvoice, domain.UploadedFile{Name: "i2.txt"})
	require.NoError(t, err)

	after := b.Snapshot()
	for i, role := range domain.AllRoles {
		if role == domain.RoleInvoice {
			assert.Equal(t, domain.SlotStatusReading, after[i].Status)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}

	_, err = b.Request()
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []domain.DocumentRole{domain.RoleInvoice}, valErr.Missing)

	ext.release("i2.txt")
	await(t, b, domain.RoleInvoice)

	req, err := b.Request()
	require.NoError(t, err)
	assert.Equal(t, "new invoice", req.Invoice)
	assert.Equal(t, "content of c.txt", req.Contract)
	b.Wait()
}

func TestRequest_EmptyBoard(t *testing.T) {
	b := ingest.NewBoard(newGatedExtractor(), ingest.Config{}, nil)

	_, err := b.Request()
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, domain.AllRoles, valErr.Missing)
}

func TestReset_DiscardsInFlightRead(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("a.txt", "text A", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)

	_, _ = b.Select(domain.RoleDescription, domain.UploadedFile{Name: "a.txt"})
	require.NoError(t, b.Reset(domain.RoleDescription))

	ext.release("a.txt")
	b.Wait()

	s, err := b.Slot(domain.RoleDescription)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusEmpty, s.Status)
	assert.Empty(t, s.Text)
}

func TestAwait_ContextCanceled(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("a.txt", "text A", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{}, nil)
	_, _ = b.Select(domain.RoleContract, domain.UploadedFile{Name: "a.txt"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := b.Await(ctx, domain.RoleContract)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ext.release("a.txt")
	b.Wait()
}

func TestExtractTimeout(t *testing.T) {
	ext := newGatedExtractor()
	ext.add("slow.txt", "never", nil, true)
	b := ingest.NewBoard(ext, ingest.Config{ExtractTimeout: 10 * time.Millisecond}, nil)

	_, _ = b.Select(domain.RoleContract, domain.UploadedFile{Name: "slow.txt"})
	s := await(t, b, domain.RoleContract)
	assert.Equal(t, domain.SlotStatusError, s.Status)
	b.Wait()
}

func TestUnknownRole(t *testing.T) {
	b := ingest.NewBoard(newGatedExtractor(), ingest.Config{}, nil)

	_, err := b.Select("bill_of_lading", domain.UploadedFile{Name: "x.txt"})
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	_, err = b.Slot("bill_of_lading")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	assert.ErrorIs(t, b.Reset("bill_of_lading"), domain.ErrUnknownRole)
}
