// Package parse normalizes raw provider payloads into model entities.
// Parsing is total: missing or malformed fields degrade to empty/absent
// values, never to errors.
package parse

import (
	"encoding/base64"
	"net/mail"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/model"
)

// Parse converts a full Gmail API message into a model.Message.
func Parse(msg *gmail.Message) *model.Message {
	m := &model.Message{
		Headers: map[string]string{},
		Raw:     msg,
	}
	if msg == nil {
		return m
	}

	m.ID = msg.Id
	m.ThreadID = msg.ThreadId
	m.Snippet = msg.Snippet
	m.ReceivedAt = parseInternalDate(msg.InternalDate)

	if msg.Payload == nil {
		return m
	}

	for _, h := range msg.Payload.Headers {
		if h == nil {
			continue
		}
		// Last occurrence wins on duplicate header names.
		m.Headers[h.Name] = h.Value
	}

	m.Subject = m.Headers["Subject"]
	m.FromRaw = m.Headers["From"]
	m.From = ParseAddress(m.FromRaw)
	m.To = ParseAddressList(m.Headers["To"])
	m.Cc = ParseAddressList(m.Headers["Cc"])
	m.Bcc = ParseAddressList(m.Headers["Bcc"])
	m.ReplyTo = m.Headers["Reply-To"]
	m.ProviderMessageID = m.Headers["Message-ID"]
	m.HeaderDate = m.Headers["Date"]
	m.SentAt = parseDate(m.HeaderDate)

	plain, html := extractBodies(msg.Payload)
	m.PlainBody = strings.TrimSpace(plain)
	m.HTMLBody = strings.TrimSpace(html)

	return m
}

// ParseAddress splits a From-style header value into display name and bare
// address. The angle-bracket form only matches when the brackets close the
// value and enclose an address containing "@"; otherwise the whole trimmed
// value is treated as the address and the name stays empty, so a bare
// address parses to itself.
func ParseAddress(raw string) model.EmailAddress {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.EmailAddress{}
	}

	if !strings.HasSuffix(raw, ">") {
		return model.EmailAddress{Address: raw}
	}
	open := strings.Index(raw, "<")
	if open == -1 {
		return model.EmailAddress{Address: raw}
	}
	addr := strings.TrimSpace(raw[open+1 : len(raw)-1])
	if !strings.Contains(addr, "@") {
		return model.EmailAddress{Address: raw}
	}

	name := strings.TrimSpace(raw[:open])
	name = strings.Trim(name, `"`)

	return model.EmailAddress{Name: name, Address: addr}
}

// ParseAddressList splits a comma-separated recipient header into its
// entries, trimmed and in order. Display names are preserved and duplicates
// are not removed at this stage.
func ParseAddressList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

func parseInternalDate(millis int64) *time.Time {
	if millis <= 0 {
		return nil
	}
	t := time.UnixMilli(millis)
	return &t
}

// extractBodies walks the part tree depth-first, appending decoded text/plain
// and text/html content in traversal order. Only multipart/* containers
// recurse; other composite types such as message/rfc822 are skipped along
// with their children, and undecodable parts contribute nothing.
func extractBodies(part *gmail.MessagePart) (plain, html string) {
	if part == nil {
		return "", ""
	}

	switch {
	case part.MimeType == "text/plain":
		plain += decodeBase64URL(partData(part))
	case part.MimeType == "text/html":
		html += decodeBase64URL(partData(part))
	case strings.HasPrefix(part.MimeType, "multipart/"):
		for _, sub := range part.Parts {
			p, h := extractBodies(sub)
			plain += p
			html += h
		}
	}

	return plain, html
}

func partData(part *gmail.MessagePart) string {
	if part.Body == nil {
		return ""
	}
	return part.Body.Data
}

func decodeBase64URL(data string) string {
	if data == "" {
		return ""
	}
	if pad := len(data) % 4; pad != 0 {
		data += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}
