package inbound

import (
	"strings"

	"procurement-backend/mailer"
)

// Email is an inbound vendor message, independent of how it arrived
// (Mailgun webhook form fields, raw MIME, or an IMAP mailbox).
type Email struct {
	From       string
	Recipient  string
	Subject    string
	BodyPlain  string
	BodyHTML   string
	MessageID  string
	InReplyTo  string
	References string
}

// Mailgun inbound route field names.
const (
	FieldSender     = "sender"
	FieldFrom       = "from"
	FieldRecipient  = "recipient"
	FieldSubject    = "subject"
	FieldBodyPlain  = "body-plain"
	FieldBodyHTML   = "body-html"
	FieldBodyMIME   = "body-mime"
	FieldMessageID  = "Message-Id"
	FieldInReplyTo  = "In-Reply-To"
	FieldReferences = "References"
	FieldTimestamp  = "timestamp"
	FieldToken      = "token"
	FieldSignature  = "signature"
)

// FromForm builds an Email from Mailgun's inbound webhook fields. get returns
// "" for absent fields. When the route forwards raw MIME (body-mime) it is
// parsed and used to fill anything the parsed fields left empty.
func FromForm(get func(key string) string) (Email, error) {
	e := Email{
		From:       firstNonBlank(get(FieldFrom), get(FieldSender)),
		Recipient:  get(FieldRecipient),
		Subject:    get(FieldSubject),
		BodyPlain:  get(FieldBodyPlain),
		BodyHTML:   get(FieldBodyHTML),
		MessageID:  get(FieldMessageID),
		InReplyTo:  get(FieldInReplyTo),
		References: get(FieldReferences),
	}

	raw := get(FieldBodyMIME)
	if strings.TrimSpace(raw) == "" {
		return e, nil
	}
	parsed, err := ParseMIME(strings.NewReader(raw))
	if err != nil {
		return e, err
	}
	e.fillFrom(parsed)
	return e, nil
}

func (e *Email) fillFrom(o Email) {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&e.From, o.From)
	fill(&e.Recipient, o.Recipient)
	fill(&e.Subject, o.Subject)
	fill(&e.BodyPlain, o.BodyPlain)
	fill(&e.BodyHTML, o.BodyHTML)
	fill(&e.MessageID, o.MessageID)
	fill(&e.InReplyTo, o.InReplyTo)
	fill(&e.References, o.References)
}

// Identifier is the correlation key: In-Reply-To, falling back to Message-Id.
func (e Email) Identifier() string {
	if id := mailer.NormalizeMessageID(e.InReplyTo); id != "" {
		return id
	}
	return mailer.NormalizeMessageID(e.MessageID)
}

// Text is the body handed to the model: the plain part if it has content,
// otherwise the HTML part stripped of markup.
func (e Email) Text() string {
	if strings.TrimSpace(e.BodyPlain) != "" {
		return e.BodyPlain
	}
	if e.BodyHTML == "" {
		return ""
	}
	return StripHTML(e.BodyHTML)
}

// RawBody is what gets stored: the plain part if present, otherwise the HTML as received.
func (e Email) RawBody() string {
	if strings.TrimSpace(e.BodyPlain) != "" {
		return e.BodyPlain
	}
	return e.BodyHTML
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
