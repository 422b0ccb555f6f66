package port

import "declarant/internal/domain"

// WorkbookBuilder serializes ordered sheets into one spreadsheet file.
type WorkbookBuilder interface {
	Build(sheets []domain.Sheet) ([]byte, error)
}
