package orchestrators

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
)

// DigestSender delivers the rollover digest. Implemented by the email
// adapter; nil in deployments without a mail provider.
type DigestSender interface {
	SendDigest(ctx context.Context, subject, html string) error
}

// WeekDigest summarizes a completed weekly cycle for the officer mail.
type WeekDigest struct {
	CurrentLabel  string
	NextLabel     string
	ClosedChoices int64
	ClosedKills   int64
	Created       bool
}

// digestMarkdown renders the digest as markdown. Kept as markdown source so
// the same text could feed other channels later.
func digestMarkdown(d WeekDigest) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Week rollover: %s\n\n", d.CurrentLabel)
	fmt.Fprintf(&b, "The cycle **%s** has been closed out.\n\n", d.CurrentLabel)
	fmt.Fprintf(&b, "- Soft reserves on record: **%d**\n", d.ClosedChoices)
	fmt.Fprintf(&b, "- Bosses killed: **%d**\n", d.ClosedKills)
	if d.Created {
		fmt.Fprintf(&b, "- Next cycle created: **%s**\n", d.NextLabel)
	} else {
		fmt.Fprintf(&b, "- Next cycle already existed: **%s**\n", d.NextLabel)
	}
	b.WriteString("\nReserves for the new week are open.\n")
	return b.String()
}

// renderDigestHTML converts the digest markdown to the HTML mail body.
func renderDigestHTML(d WeekDigest) (string, error) {
	var out bytes.Buffer
	if err := goldmark.Convert([]byte(digestMarkdown(d)), &out); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return out.String(), nil
}

// sendWeekDigest renders and sends the rollover digest.
func sendWeekDigest(ctx context.Context, sender DigestSender, d WeekDigest) error {
	html, err := renderDigestHTML(d)
	if err != nil {
		return err
	}
	subject := "Week rollover: " + d.NextLabel + " is open"
	return sender.SendDigest(ctx, subject, html)
}
