package usecase

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// MailSource is the mail provider the scan driver reads from
type MailSource interface {
	// ListCandidateMessages returns up to limit message IDs matching query
	ListCandidateMessages(ctx context.Context, query string, limit int) ([]string, error)

	// GetMessage fetches one message with its full MIME tree
	GetMessage(ctx context.Context, id string) (*entity.RawEmail, error)

	// GetAttachment fetches the decoded bytes of an attachment
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// PDFTextExtractor turns PDF bytes into plain text. Failures yield "".
type PDFTextExtractor interface {
	ExtractText(data []byte) string
}

// CompletionClient sends a single prompt to a language model
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}
