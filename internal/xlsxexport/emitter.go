package xlsxexport

import (
	"fmt"
	"regexp"
	"strings"

	"declarant/internal/domain"
	"declarant/internal/port"
)

// DraftName stands in for the invoice number when there is none.
const DraftName = "Draft"

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	multiUnderscore     = regexp.MustCompile(`_+`)
)

// Emitter turns projected sheets into a named, downloadable workbook.
type Emitter struct {
	builder port.WorkbookBuilder
}

// NewEmitter creates an Emitter. A nil builder uses the excelize Builder.
func NewEmitter(builder port.WorkbookBuilder) *Emitter {
	if builder == nil {
		builder = NewBuilder()
	}
	return &Emitter{builder: builder}
}

// Emit builds the workbook for record from sheets, in order.
func (e *Emitter) Emit(record *domain.CustomsRecord, sheets []domain.Sheet) (*domain.Workbook, error) {
	data, err := e.builder.Build(sheets)
	if err != nil {
		return nil, fmt.Errorf("building workbook: %w", err)
	}
	invoiceNumber := ""
	if record != nil {
		invoiceNumber = record.InvoiceInfo.InvoiceNumber
	}
	return &domain.Workbook{
		FileName:    BuildFilename(invoiceNumber),
		ContentType: domain.WorkbookContentType,
		Data:        data,
	}, nil
}

// SanitizeFilename replaces runs of characters other than letters, digits,
// '-' and '_' with a single '_', trims underscores and truncates to 100
// characters.
func SanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if runes := []rune(s); len(runes) > 100 {
		s = string(runes[:100])
	}
	return s
}

// BuildFilename returns Customs_Declaration_<invoice>.xlsx, using "Draft"
// when the invoice number is empty or sanitizes to nothing.
func BuildFilename(invoiceNumber string) string {
	name := SanitizeFilename(invoiceNumber)
	if name == "" {
		name = DraftName
	}
	return fmt.Sprintf("Customs_Declaration_%s.xlsx", name)
}
