package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmail caps a single list page at 500 IDs
const maxPageSize = 500

// GmailService reads a mailbox through the Gmail API
type GmailService struct {
	gmailService *gmail.Service
	userID       string
	logger       logger.Logger
}

// NewGmailService creates a new Gmail service for the authorized user ("me")
func NewGmailService(ctx context.Context, tokenSource oauth2.TokenSource, logger logger.Logger) (*GmailService, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailService{
		gmailService: service,
		userID:       "me",
		logger:       logger,
	}, nil
}

// ListCandidateMessages pages through the search results until limit IDs are collected
func (s *GmailService) ListCandidateMessages(ctx context.Context, query string, limit int) ([]string, error) {
	s.logger.Info("Querying Gmail", "query", query, "limit", limit)

	var ids []string
	pageToken := ""

	for len(ids) < limit {
		pageSize := limit - len(ids)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		req := s.gmailService.Users.Messages.List(s.userID).Q(query).MaxResults(int64(pageSize)).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		resp, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, msg := range resp.Messages {
			ids = append(ids, msg.Id)
		}

		if resp.NextPageToken == "" || len(resp.Messages) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}

	s.logger.Info("Gmail query completed", "messages", len(ids))
	return ids, nil
}

// GetMessage fetches a message in full format and converts it
func (s *GmailService) GetMessage(ctx context.Context, id string) (*entity.RawEmail, error) {
	msg, err := s.gmailService.Users.Messages.Get(s.userID, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return ConvertMessage(msg), nil
}

// GetAttachment downloads and decodes an attachment body
func (s *GmailService) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	body, err := s.gmailService.Users.Messages.Attachments.Get(s.userID, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	data, err := decodeBase64URL(body.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment: %w", err)
	}
	return data, nil
}

// ConvertMessage maps a Gmail message onto the domain email
func ConvertMessage(msg *gmail.Message) *entity.RawEmail {
	email := &entity.RawEmail{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		ReceivedAt: time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload == nil {
		return email
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "from":
			email.From = header.Value
		case "subject":
			email.Subject = header.Value
		case "date":
			email.Date = header.Value
		}
	}

	email.Payload = convertPart(msg.Payload)
	return email
}

func convertPart(part *gmail.MessagePart) *entity.MessagePart {
	out := &entity.MessagePart{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}

	if part.Body != nil {
		out.AttachmentID = part.Body.AttachmentId
		if part.Body.Data != "" {
			// Undecodable bodies are left empty
			if data, err := decodeBase64URL(part.Body.Data); err == nil {
				out.Data = data
			}
		}
	}

	for _, child := range part.Parts {
		out.Parts = append(out.Parts, convertPart(child))
	}
	return out
}

// decodeBase64URL accepts padded and unpadded URL-safe base64
func decodeBase64URL(s string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
