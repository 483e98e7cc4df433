package inbound

import (
	"fmt"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// ParseMIME reads an RFC 5322 message and extracts the headers and the first
// text/plain and text/html parts.
func ParseMIME(r io.Reader) (Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return Email{}, fmt.Errorf("create mail reader: %w", err)
	}

	header := mr.Header
	e := Email{
		From:       header.Get("From"),
		Recipient:  header.Get("To"),
		MessageID:  header.Get("Message-Id"),
		InReplyTo:  header.Get("In-Reply-To"),
		References: header.Get("References"),
	}

	if subject, err := header.Subject(); err == nil {
		e.Subject = subject
	} else {
		e.Subject = header.Get("Subject")
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return e, fmt.Errorf("read mime part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := h.ContentType()
		if err != nil {
			continue
		}

		switch strings.ToLower(contentType) {
		case "text/plain":
			if e.BodyPlain != "" {
				continue
			}
			body, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			e.BodyPlain = string(body)
		case "text/html":
			if e.BodyHTML != "" {
				continue
			}
			body, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			e.BodyHTML = string(body)
		}
	}

	return e, nil
}
