package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"declarant/internal/domain"
	"declarant/internal/projector"
	"declarant/internal/service"
	"declarant/internal/validator"
	"declarant/internal/xlsxexport"
	"declarant/mocks"
)

var today = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

type sessionFixture struct {
	svc        *service.SessionManager
	extractor  *mocks.MockTextExtractor
	extraction *mocks.MockExtractionService
	id         uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	extractor := new(mocks.MockTextExtractor)
	extraction := new(mocks.MockExtractionService)
	svc := service.NewSessionManager(extractor, extraction, xlsxexport.NewEmitter(nil), service.SessionConfig{}, nil)

	view, err := svc.Create(context.Background())
	require.NoError(t, err)
	id, err := uuid.Parse(view.ID)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return &sessionFixture{svc: svc, extractor: extractor, extraction: extraction, id: id}
}

func (f *sessionFixture) selectReady(t *testing.T, role domain.DocumentRole, text string) {
	t.Helper()
	file := domain.UploadedFile{Name: string(role) + ".txt", Data: []byte(text)}
	f.extractor.On("Extract", mock.Anything, file).Return(text, nil)

	_, err := f.svc.SelectFile(context.Background(), f.id, role, file)
	require.NoError(t, err)
	slot, err := f.svc.AwaitSlot(context.Background(), f.id, role)
	require.NoError(t, err)
	require.Equal(t, domain.SlotStatusReady, slot.Status)
}

func (f *sessionFixture) selectAll(t *testing.T) {
	t.Helper()
	for _, role := range domain.AllRoles {
		f.selectReady(t, role, string(role)+" text")
	}
}

func sampleRecord() *domain.CustomsRecord {
	return &domain.CustomsRecord{
		InvoiceInfo: domain.InvoiceInfo{InvoiceNumber: "INV-9", Currency: "USD", TotalAmount: 1250},
		GoodsList: []domain.GoodsItem{{
			HSCode: "3901100000", NameChinese: "聚乙烯树脂", Quantity: 500, Unit: "千克",
			UnitPrice: 2.5, TotalPrice: 1250, OriginCountry: "韩国",
		}},
	}
}

func TestSessionService_CreateAndGet(t *testing.T) {
	f := newSessionFixture(t)

	view, err := f.svc.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Len(t, view.Slots, 4)
	assert.False(t, view.Processing)
	assert.False(t, view.HasResult)
	assert.Equal(t, 0, view.ReadyCount())
	assert.Equal(t, 1, f.svc.Len())
}

func TestSessionService_UnknownSession(t *testing.T) {
	f := newSessionFixture(t)
	other := uuid.New()

	_, err := f.svc.Get(context.Background(), other)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.svc.Analyze(context.Background(), other)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), other), domain.ErrSessionNotFound)
}

func TestSessionService_AnalyzeRejectsIncompleteSession(t *testing.T) {
	f := newSessionFixture(t)
	f.selectReady(t, domain.RoleContract, "contract text")

	_, err := f.svc.Analyze(context.Background(), f.id)

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	f.extraction.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)

	view, err := f.svc.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, "Please upload all 4 required documents before processing.", view.LastError)
	assert.False(t, view.Processing)
	assert.Equal(t, 1, view.ReadyCount())
}

func TestSessionService_AnalyzeSuccess(t *testing.T) {
	f := newSessionFixture(t)
	f.selectAll(t)

	expected := domain.ExtractionRequest{
		Contract:    "contract text",
		Invoice:     "invoice text",
		Description: "description text",
		Packing:     "packing text",
	}
	f.extraction.On("Analyze", mock.Anything, expected).Return(sampleRecord(), nil).Once()

	rec, err := f.svc.Analyze(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, "INV-9", rec.InvoiceInfo.InvoiceNumber)
	f.extraction.AssertNumberOfCalls(t, "Analyze", 1)

	view, err := f.svc.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.True(t, view.HasResult)
	assert.Empty(t, view.LastError)

	sheets, err := f.svc.Sheets(context.Background(), f.id, today)
	require.NoError(t, err)
	assert.Equal(t, projector.SheetDeclaration, sheets.Declaration.Name)

	wb, err := f.svc.Workbook(context.Background(), f.id, today)
	require.NoError(t, err)
	assert.Equal(t, "Customs_Declaration_INV-9.xlsx", wb.FileName)
	assert.NotEmpty(t, wb.Data)
}

func TestSessionService_AnalyzeFailureKeepsSlots(t *testing.T) {
	f := newSessionFixture(t)
	f.selectAll(t)

	f.extraction.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.NewOracleUnavailable("request failed", errors.New("dial tcp"))).Once()

	_, analyzeErr := f.svc.Analyze(context.Background(), f.id)
	var unavailable *domain.OracleUnavailableError
	require.ErrorAs(t, analyzeErr, &unavailable)

	view, err := f.svc.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.False(t, view.Processing)
	assert.Equal(t, 4, view.ReadyCount())
	assert.NotEmpty(t, view.LastError)
	assert.Equal(t, domain.UserMessage(analyzeErr), view.LastError)
	assert.NotContains(t, view.LastError, "dial tcp")

	_, err = f.svc.Result(context.Background(), f.id)
	assert.ErrorIs(t, err, domain.ErrNoResult)

	// resubmittable
	f.extraction.On("Analyze", mock.Anything, mock.Anything).Return(sampleRecord(), nil).Once()
	_, err = f.svc.Analyze(context.Background(), f.id)
	require.NoError(t, err)
}

func TestSessionService_PreviousResultSurvivesFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.selectAll(t)

	f.extraction.On("Analyze", mock.Anything, mock.Anything).Return(sampleRecord(), nil).Once()
	_, err := f.svc.Analyze(context.Background(), f.id)
	require.NoError(t, err)

	f.extraction.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.NewOracleResponse("empty response", nil)).Once()
	_, err = f.svc.Analyze(context.Background(), f.id)
	require.Error(t, err)

	rec, err := f.svc.Result(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, "INV-9", rec.InvoiceInfo.InvoiceNumber)
}

func TestSessionService_SingleActiveAnalysis(t *testing.T) {
	f := newSessionFixture(t)
	f.selectAll(t)

	started := make(chan struct{})
	release := make(chan struct{})
	f.extraction.On("Analyze", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(sampleRecord(), nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Analyze(context.Background(), f.id)
		done <- err
	}()
	<-started

	view, err := f.svc.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.True(t, view.Processing)

	_, err = f.svc.Analyze(context.Background(), f.id)
	assert.ErrorIs(t, err, domain.ErrAnalysisInProgress)

	// selecting a file while processing is allowed
	f.selectReady(t, domain.RoleInvoice, "invoice v2")

	close(release)
	require.NoError(t, <-done)
	f.extraction.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestSessionService_SlotReadFailure(t *testing.T) {
	f := newSessionFixture(t)
	file := domain.UploadedFile{Name: "scan.pdf", Data: []byte("%PDF")}
	f.extractor.On("Extract", mock.Anything, file).Return("", &domain.UnsupportedFormatError{Extension: "pdf"})

	slot, err := f.svc.SelectFile(context.Background(), f.id, domain.RolePacking, file)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusReading, slot.Status)

	slot, err = f.svc.AwaitSlot(context.Background(), f.id, domain.RolePacking)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusError, slot.Status)
	assert.Empty(t, slot.FileName)
	assert.Contains(t, slot.Error, "packing list")
}

func TestSessionService_UnknownRole(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.SelectFile(context.Background(), f.id, "manifest", domain.UploadedFile{Name: "m.txt"})
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	_, err = f.svc.Slot(context.Background(), f.id, "manifest")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestSessionService_NoResultYet(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Sheets(context.Background(), f.id, today)
	assert.ErrorIs(t, err, domain.ErrNoResult)
	_, err = f.svc.Workbook(context.Background(), f.id, today)
	assert.ErrorIs(t, err, domain.ErrNoResult)
}

func TestSessionService_Delete(t *testing.T) {
	f := newSessionFixture(t)

	require.NoError(t, f.svc.Delete(context.Background(), f.id))
	_, err := f.svc.Get(context.Background(), f.id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, f.svc.Len())
}

func TestSessionService_Checks(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Checks(context.Background(), f.id)
	assert.ErrorIs(t, err, domain.ErrNoResult)

	f.selectAll(t)
	f.extraction.On("Analyze", mock.Anything, mock.Anything).Return(sampleRecord(), nil).Once()
	_, err = f.svc.Analyze(context.Background(), f.id)
	require.NoError(t, err)

	report, err := f.svc.Checks(context.Background(), f.id)
	require.NoError(t, err)
	assert.Positive(t, report.Checked)
	assert.Equal(t, validator.FieldStatusValid, report.Fields["invoiceInfo.totalAmount"])
	// sampleRecord carries no contract parties
	assert.Equal(t, validator.FieldStatusInvalid, report.Fields["contractInfo.buyer"])
}
