package usecase

import (
	"context"
	"strings"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/flightparser"
	"flightlog-service/pkg/logger"
)

// Normalizer flattens a RawEmail into the single text the extractors read
type Normalizer struct {
	mailSource        MailSource
	pdfExtractor      PDFTextExtractor
	attachmentTimeout time.Duration
	logger            logger.Logger
}

// NewNormalizer creates a new normalizer. mailSource may be nil when every
// PDF part carries its bytes inline. A non-positive attachmentTimeout adds no
// deadline beyond ctx.
func NewNormalizer(mailSource MailSource, pdfExtractor PDFTextExtractor, attachmentTimeout time.Duration, logger logger.Logger) *Normalizer {
	return &Normalizer{
		mailSource:        mailSource,
		pdfExtractor:      pdfExtractor,
		attachmentTimeout: attachmentTimeout,
		logger:            logger,
	}
}

// Normalize returns subject + "\n" + body, followed by the text of every PDF part
func (n *Normalizer) Normalize(ctx context.Context, email *entity.RawEmail) string {
	body := n.extractBody(email.Payload)

	var sb strings.Builder
	sb.WriteString(email.Subject)
	sb.WriteString("\n")
	sb.WriteString(body)

	for _, part := range collectPDFParts(email.Payload, nil) {
		text := n.pdfText(ctx, email.ID, part)
		if text == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(text)
	}

	return sb.String()
}

func (n *Normalizer) extractBody(payload *entity.MessagePart) string {
	if payload == nil {
		return ""
	}
	if !payload.IsMultipart() {
		if strings.EqualFold(payload.MimeType, entity.MimePDF) {
			return ""
		}
		return string(payload.Data)
	}

	if part := findFirstPart(payload, entity.MimeTextPlain); part != nil {
		return string(part.Data)
	}
	if part := findFirstPart(payload, entity.MimeTextHTML); part != nil {
		return flightparser.CleanHTMLText(string(part.Data))
	}
	return ""
}

func (n *Normalizer) pdfText(ctx context.Context, messageID string, part *entity.MessagePart) string {
	data := part.Data

	if len(data) == 0 {
		if part.AttachmentID == "" || n.mailSource == nil {
			return ""
		}

		fetchCtx := ctx
		if n.attachmentTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, n.attachmentTimeout)
			defer cancel()
		}

		fetched, err := n.mailSource.GetAttachment(fetchCtx, messageID, part.AttachmentID)
		if err != nil {
			n.logger.Warn("Failed to fetch PDF attachment",
				"messageID", messageID,
				"filename", part.Filename,
				"error", err)
			return ""
		}
		data = fetched
	}

	text := n.pdfExtractor.ExtractText(data)
	if text == "" {
		n.logger.Debug("PDF attachment yielded no text", "messageID", messageID, "filename", part.Filename)
	}
	return text
}

// findFirstPart walks the tree depth-first and returns the first part of mimeType
func findFirstPart(part *entity.MessagePart, mimeType string) *entity.MessagePart {
	if part == nil {
		return nil
	}
	if !part.IsMultipart() && strings.EqualFold(part.MimeType, mimeType) {
		return part
	}
	for _, child := range part.Parts {
		if found := findFirstPart(child, mimeType); found != nil {
			return found
		}
	}
	return nil
}

func collectPDFParts(part *entity.MessagePart, acc []*entity.MessagePart) []*entity.MessagePart {
	if part == nil {
		return acc
	}
	if strings.EqualFold(part.MimeType, entity.MimePDF) && (len(part.Data) > 0 || part.AttachmentID != "") {
		acc = append(acc, part)
	}
	for _, child := range part.Parts {
		acc = collectPDFParts(child, acc)
	}
	return acc
}
