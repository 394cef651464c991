package llm

import (
	"fmt"
	"strings"
)

const draftSystemPrompt = `You are an assistant whose sole responsibility is to compose friendly, professional and grammatically flawless email reply drafts that read as though written by a thoughtful human colleague. You will be given one email at a time that was sent to the user; respond as if you are the user.

Every draft must:
1. Match the recipient and context: gauge formality, address the recipient by name or title, adapt length to the subject matter.
2. Follow a clear structure: greeting, brief context, the main message in concise paragraphs, next steps, and a polite sign-off.
3. Use polished language: varied sentence structure, collegial wording, no slang or opaque jargon.
4. Be grammatically precise and easy to read.

Return only the reply body, greeting through sign-off, with no commentary. Keep the tone and signature consistent with any drafts you have already produced in this conversation.`

const classifyPromptHeader = `Analyze the following emails and return the message IDs of the ones that require a human reply, as a JSON array of strings and nothing else. For example:
["1978f372d56e4c6b", "1978f372d56e4c6d"]

Include an email only when:
- the sender differs from the receiver (exclude anything the user sent to themselves),
- the sender appears to be a real person rather than a no-reply, support or other automated address,
- the content contains an explicit or implicit request, question, task or invitation that genuinely invites a reply.

Exclude newsletters, marketing blasts, receipts, password resets, automated alerts, and calendar notifications that only need a click.

Emails:
`

func classifyPrompt(summaries []Summary) string {
	var sb strings.Builder
	sb.WriteString(classifyPromptHeader)
	for _, s := range summaries {
		sb.WriteString(s.block())
		sb.WriteString("\n")
	}
	return sb.String()
}

func generatePrompt(s Summary) string {
	return "Compose a reply to this email:\n\n" + s.block()
}

// Summary is the compact per-message view handed to the language model.
type Summary struct {
	ID          string
	Subject     string
	FromName    string
	FromAddress string
	To          []string
	Cc          []string
	Date        string
	Snippet     string
	Body        string
}

func (s Summary) block() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- message %s ---\n", s.ID)
	fmt.Fprintf(&sb, "From: %s <%s>\n", s.FromName, s.FromAddress)
	if len(s.To) > 0 {
		fmt.Fprintf(&sb, "To: %s\n", strings.Join(s.To, ", "))
	}
	if len(s.Cc) > 0 {
		fmt.Fprintf(&sb, "Cc: %s\n", strings.Join(s.Cc, ", "))
	}
	if s.Date != "" {
		fmt.Fprintf(&sb, "Date: %s\n", s.Date)
	}
	fmt.Fprintf(&sb, "Subject: %s\n", s.Subject)
	if s.Body != "" {
		fmt.Fprintf(&sb, "Body:\n%s\n", s.Body)
	} else if s.Snippet != "" {
		fmt.Fprintf(&sb, "Snippet: %s\n", s.Snippet)
	}
	return sb.String()
}
