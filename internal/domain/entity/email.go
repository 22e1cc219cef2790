package entity

import (
	"time"
)

// MIME types the pipeline cares about
const (
	MimeTextPlain = "text/plain"
	MimeTextHTML  = "text/html"
	MimePDF       = "application/pdf"
)

// RawEmail represents a message as delivered by a mail source
type RawEmail struct {
	ID         string
	ThreadID   string
	Subject    string
	From       string
	Date       string
	ReceivedAt time.Time
	Payload    *MessagePart
}

// MessagePart is one node of the MIME tree. Data holds decoded inline content;
// AttachmentID is set when the content has to be fetched separately.
type MessagePart struct {
	MimeType     string
	Filename     string
	Data         []byte
	AttachmentID string
	Parts        []*MessagePart
}

// IsMultipart reports whether the part has children
func (p *MessagePart) IsMultipart() bool {
	return p != nil && len(p.Parts) > 0
}
