package eml

import (
	"strings"
	"testing"

	"flightlog-service/internal/domain/entity"
)

const multipartMessage = "From: Airline <noreply@airline.example>\r\n" +
	"To: jane@example.com\r\n" +
	"Subject: =?UTF-8?Q?Your_booking_confirmation_=E2=80=93_BA456?=\r\n" +
	"Date: Sat, 15 Jun 2024 08:00:00 +0000\r\n" +
	"Message-Id: <abc@airline.example>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=outer\r\n" +
	"\r\n" +
	"--outer\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Booking Reference: ABC123\r\n" +
	"--outer\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"ticket.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"TEhSIEpGSw==\r\n" +
	"--outer--\r\n"

func TestParse(t *testing.T) {
	email, err := Parse(strings.NewReader(multipartMessage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if email.Subject != "Your booking confirmation – BA456" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if email.ID != "abc@airline.example" {
		t.Errorf("ID = %q", email.ID)
	}
	if email.ReceivedAt.IsZero() {
		t.Error("Expected ReceivedAt to be parsed")
	}
	if len(email.Payload.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(email.Payload.Parts))
	}

	text, pdf := email.Payload.Parts[0], email.Payload.Parts[1]
	if text.MimeType != entity.MimeTextPlain || !strings.Contains(string(text.Data), "ABC123") {
		t.Errorf("Text part = %s %q", text.MimeType, text.Data)
	}
	if pdf.MimeType != entity.MimePDF || pdf.Filename != "ticket.pdf" || string(pdf.Data) != "LHR JFK" {
		t.Errorf("PDF part = %s %s %q", pdf.MimeType, pdf.Filename, pdf.Data)
	}
}

func TestParse_SinglePart(t *testing.T) {
	msg := "Subject: Itinerary\r\nContent-Type: text/plain\r\n\r\nLHR to JFK\r\n"

	email, err := Parse(strings.NewReader(msg))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if email.ID == "" {
		t.Error("Expected a generated ID")
	}
	if len(email.Payload.Parts) != 1 || !strings.HasPrefix(string(email.Payload.Parts[0].Data), "LHR to JFK") {
		t.Errorf("Unexpected payload %+v", email.Payload.Parts)
	}
}
