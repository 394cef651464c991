// Package reply computes reply-all recipient sets from parsed messages.
package reply

import (
	"github.com/hal9000y/inbox-agent/internal/model"
	"github.com/hal9000y/inbox-agent/internal/parse"
)

// Recipients holds the resolved reply-all sets as bare addresses.
type Recipients struct {
	To  []string
	Cc  []string
	Bcc []string
}

// ResolveReplyAll builds the recipient sets for a reply-all to msg. Display
// names are stripped, the original sender is appended to To, and userAddr is
// excluded from every set so the user never addresses their own reply.
// Order is preserved and duplicates from the source data pass through; an
// empty To set means the reply cannot be addressed and the caller must not
// send it.
func ResolveReplyAll(msg *model.Message, userAddr string) Recipients {
	to := bareAddresses(msg.To)
	to = append(to, msg.From.Address)

	return Recipients{
		To:  exclude(to, userAddr),
		Cc:  exclude(bareAddresses(msg.Cc), userAddr),
		Bcc: exclude(bareAddresses(msg.Bcc), userAddr),
	}
}

func bareAddresses(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, parse.ParseAddress(e).Address)
	}
	return out
}

func exclude(addrs []string, userAddr string) []string {
	out := addrs[:0:0]
	for _, a := range addrs {
		if a != "" && a != userAddr {
			out = append(out, a)
		}
	}
	return out
}
