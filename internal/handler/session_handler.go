package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"declarant/internal/csvexport"
	"declarant/internal/domain"
	"declarant/internal/middleware"
	"declarant/internal/service"
)

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// maxSlotWait bounds GET .../documents/:role?wait=true.
const maxSlotWait = 30 * time.Second

// SessionHandler handles drafting session endpoints.
type SessionHandler struct {
	sessions       service.SessionService
	maxUploadBytes int64
	now            func() time.Time
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{sessions: sessions, maxUploadBytes: maxUploadBytes, now: time.Now}
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseRole(c *gin.Context) (domain.DocumentRole, bool) {
	role, err := domain.ParseDocumentRole(c.Param("role"))
	if err != nil {
		HandleError(c, err)
		return "", false
	}
	return role, true
}

// Create handles POST /api/v1/sessions
// @Summary Create a drafting session
// @Description Create a session with four empty document slots
// @Tags sessions
// @Produce json
// @Success 201 {object} Response{data=domain.SessionView} "Session created"
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	view, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, view)
}

// Get handles GET /api/v1/sessions/:id
// @Summary Get a drafting session
// @Description Slots, processing flag and the last user-facing error
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.SessionView} "Session"
// @Failure 400 {object} ErrorResponseBody "Invalid session ID"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/sessions/:id
// @Summary Delete a drafting session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=MessageResponse} "Session deleted"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "session deleted"})
}

// UploadDocument handles PUT /api/v1/sessions/:id/documents/:role
// @Summary Select a document for a slot
// @Description Upload a .docx or .txt file into one of the four slots. Text extraction runs in the background; poll the slot or pass wait=true when reading it.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param role path string true "Slot role" Enums(contract, invoice, description, packing)
// @Param file formData file true "Document (.docx or .txt)"
// @Success 202 {object} Response{data=domain.DocumentSlot} "Slot is reading"
// @Failure 400 {object} ErrorResponseBody "Missing file or unknown role"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /sessions/{id}/documents/{role} [put]
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	role, ok := parseRole(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		middleware.LoggerFrom(c).Warn("sessionHandler.UploadDocument: reading upload", zap.Error(err))
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file could not be read")
		return
	}

	slot, err := h.sessions.SelectFile(c.Request.Context(), id, role, domain.UploadedFile{
		Name: header.Filename,
		Data: data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, slot)
}

// GetDocument handles GET /api/v1/sessions/:id/documents/:role
// @Summary Get a document slot
// @Description With wait=true the call blocks until the slot leaves the reading state (at most 30s).
// @Tags documents
// @Produce json
// @Param id path string true "Session ID"
// @Param role path string true "Slot role" Enums(contract, invoice, description, packing)
// @Param wait query bool false "Wait for the read to settle"
// @Success 200 {object} Response{data=domain.DocumentSlot} "Slot"
// @Failure 400 {object} ErrorResponseBody "Unknown role"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id}/documents/{role} [get]
func (h *SessionHandler) GetDocument(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	role, ok := parseRole(c)
	if !ok {
		return
	}

	var (
		slot *domain.DocumentSlot
		err  error
	)
	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), maxSlotWait)
		defer cancel()
		slot, err = h.sessions.AwaitSlot(ctx, id, role)
		if errors.Is(err, context.DeadlineExceeded) {
			slot, err = h.sessions.Slot(c.Request.Context(), id, role)
		}
	} else {
		slot, err = h.sessions.Slot(c.Request.Context(), id, role)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, slot)
}

// Analyze handles POST /api/v1/sessions/:id/analyze
// @Summary Analyze the four documents
// @Description Sends the text of all four ready documents to the extraction service and stores the customs record.
// @Tags analysis
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.CustomsRecord} "Customs record"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "Analysis already in progress"
// @Failure 422 {object} ErrorResponseBody "Documents not ready"
// @Failure 502 {object} ErrorResponseBody "Unusable extraction response"
// @Failure 503 {object} ErrorResponseBody "Extraction service unavailable"
// @Router /sessions/{id}/analyze [post]
func (h *SessionHandler) Analyze(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	record, err := h.sessions.Analyze(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Result handles GET /api/v1/sessions/:id/result
// @Summary Get the last customs record
// @Tags analysis
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.CustomsRecord} "Customs record"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "No result yet"
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) Result(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	record, err := h.sessions.Result(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Checks handles GET /api/v1/sessions/:id/checks
// @Summary Consistency checks for the last result
// @Description Advisory checks over the extracted record: missing fields, totals that do not add up, malformed HS codes. Never blocks export.
// @Tags analysis
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=validator.Report} "Check report"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "No result yet"
// @Router /sessions/{id}/checks [get]
func (h *SessionHandler) Checks(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	report, err := h.sessions.Checks(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Sheets handles GET /api/v1/sessions/:id/sheets
// @Summary Preview the projected sheets
// @Description The four cell matrices that make up the workbook, dated today.
// @Tags export
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.SheetSet} "Projected sheets"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "No result yet"
// @Router /sessions/{id}/sheets [get]
func (h *SessionHandler) Sheets(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sheets, err := h.sessions.Sheets(c.Request.Context(), id, h.now())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sheets)
}

// Workbook handles GET /api/v1/sessions/:id/workbook
// @Summary Download the declaration workbook
// @Description Four-sheet .xlsx named Customs_Declaration_<invoice number>.xlsx
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file "Workbook"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "No result yet"
// @Router /sessions/{id}/workbook [get]
func (h *SessionHandler) Workbook(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	wb, err := h.sessions.Workbook(c.Request.Context(), id, h.now())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(wb.FileName))
	c.Data(http.StatusOK, wb.ContentType, wb.Data)
}

// GoodsCSV handles GET /api/v1/sessions/:id/goods.csv
// @Summary Download the goods list as CSV
// @Description UTF-8 CSV with BOM, one row per goods item
// @Tags export
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "No result yet"
// @Router /sessions/{id}/goods.csv [get]
func (h *SessionHandler) GoodsCSV(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	record, err := h.sessions.Result(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := csvexport.Write(&buf, record); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(csvexport.BuildFilename(record.InvoiceInfo.InvoiceNumber)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// attachment renders a Content-Disposition value; non-ASCII names are
// encoded as an RFC 5987 filename* parameter.
func attachment(filename string) string {
	v := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if v == "" {
		return "attachment"
	}
	return v
}
