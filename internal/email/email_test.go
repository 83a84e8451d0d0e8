package email

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
)

func TestBuildMessageParsesAsMail(t *testing.T) {
	sent := time.Date(2024, 5, 4, 12, 30, 0, 0, time.UTC)
	raw, err := BuildMessage(ComposeInput{
		From: "user@example.com",
		To:   "a@b.com",
		Body: "hi",
		Date: sent,
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	header := reader.Header
	if subject, _ := header.Subject(); subject != TestSubject {
		t.Fatalf("expected subject %q, got %q", TestSubject, subject)
	}
	from, err := header.AddressList("From")
	if err != nil || len(from) != 1 || from[0].Address != "user@example.com" {
		t.Fatalf("unexpected From: %v (%v)", from, err)
	}
	to, err := header.AddressList("To")
	if err != nil || len(to) != 1 || to[0].Address != "a@b.com" {
		t.Fatalf("unexpected To: %v (%v)", to, err)
	}
	date, err := header.Date()
	if err != nil {
		t.Fatalf("date header: %v", err)
	}
	if !date.Equal(sent) {
		t.Fatalf("expected date %v, got %v", sent, date)
	}

	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("next part: %v", err)
	}
	body, err := io.ReadAll(part.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "hi" {
		t.Fatalf("expected body %q, got %q", "hi", body)
	}
}

func TestBuildMessageRequiresAddresses(t *testing.T) {
	if _, err := BuildMessage(ComposeInput{To: "a@b.com"}); err == nil {
		t.Fatal("expected error for missing From")
	}
	if _, err := BuildMessage(ComposeInput{From: "user@example.com"}); err == nil {
		t.Fatal("expected error for missing To")
	}
}

func TestBuildMessageDefaultsDateToNow(t *testing.T) {
	raw, err := BuildMessage(ComposeInput{
		From: "user@example.com",
		To:   "a@b.com",
		Body: "hi",
	})
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	date, err := reader.Header.Date()
	if err != nil {
		t.Fatalf("date header: %v", err)
	}
	if time.Since(date) > time.Minute {
		t.Fatalf("expected a fresh Date header, got %v", date)
	}
}
