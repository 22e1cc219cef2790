// Package eml reads RFC 822 message files into domain emails, for running
// the pipeline over saved mail without a mail provider.
package eml

import (
	"fmt"
	"io"
	"strings"

	"flightlog-service/internal/domain/entity"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// Parse reads one message. Leaf parts are kept in document order under a
// single multipart root; attachment bytes are carried inline.
func Parse(r io.Reader) (*entity.RawEmail, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	defer mr.Close()

	header := mr.Header
	email := &entity.RawEmail{
		ID:   strings.Trim(header.Get("Message-Id"), "<>"),
		From: header.Get("From"),
		Date: header.Get("Date"),
	}
	if email.ID == "" {
		email.ID = uuid.NewString()
	}

	subject, err := header.Subject()
	if err != nil {
		subject = header.Get("Subject")
	}
	email.Subject = subject

	if date, err := header.Date(); err == nil {
		email.ReceivedAt = date
	}

	root := &entity.MessagePart{MimeType: "multipart/mixed"}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		part := &entity.MessagePart{}
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			part.MimeType = contentType
		case *mail.AttachmentHeader:
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			filename, _ := h.Filename()
			part.MimeType = contentType
			part.Filename = filename
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		part.Data = body
		root.Parts = append(root.Parts, part)
	}

	email.Payload = root
	return email, nil
}
