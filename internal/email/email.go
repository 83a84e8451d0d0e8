package email

import (
	"bytes"
	"fmt"
	"mime/quotedprintable"
	"time"
)

// TestSubject is the fixed subject of messages produced by send-message.
const TestSubject = "Test message"

type ComposeInput struct {
	From    string
	To      string
	Subject string
	Body    string
	Date    time.Time
}

// BuildMessage renders a single-part text/plain message. Subject defaults to
// TestSubject and Date to the current time when unset.
func BuildMessage(in ComposeInput) ([]byte, error) {
	if in.From == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if in.To == "" {
		return nil, fmt.Errorf("to address is required")
	}

	subject := in.Subject
	if subject == "" {
		subject = TestSubject
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", in.From)
	writeHeader(&buf, "To", in.To)
	writeHeader(&buf, "Subject", subject)
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", "text/plain; charset=\"utf-8\"")
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(in.Body)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	if value == "" {
		return
	}
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
