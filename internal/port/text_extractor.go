package port

import (
	"context"

	"declarant/internal/domain"
)

// TextExtractionService converts an uploaded file into plain text.
type TextExtractionService interface {
	Extract(ctx context.Context, file domain.UploadedFile) (string, error)
}
