package draft

import (
	"fmt"
	"strings"
)

const (
	// DefaultTone is used when no tone is configured.
	DefaultTone = "professional, concise, engaging"

	// DefaultMaxChars bounds the draft length requested from the model.
	DefaultMaxChars = 700

	notAvailable = "N/A"
)

// PromptInput holds the values embedded in the drafting prompt.
type PromptInput struct {
	Subject      string
	CompanyName  string
	Link         string
	Tone         string
	MaxChars     int
	WithHashtags bool
}

// BuildPrompt renders the LinkedIn drafting prompt.
func BuildPrompt(in PromptInput) string {
	tone := in.Tone
	if tone == "" {
		tone = DefaultTone
	}
	maxChars := in.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	hashtags := "Do not add hashtags."
	if in.WithHashtags {
		hashtags = "Include 3–6 relevant hashtags."
	}

	var b strings.Builder
	b.WriteString("You are drafting a LinkedIn post.\n\n")
	fmt.Fprintf(&b, "Subject/topic: %s\n", in.Subject)
	fmt.Fprintf(&b, "Company/person mentioned: %s\n", orNA(in.CompanyName))
	fmt.Fprintf(&b, "Reference link: %s\n", orNA(in.Link))
	fmt.Fprintf(&b, "Tone: %s\n\n", tone)
	b.WriteString("Write 1 LinkedIn post draft in plain text.\n")
	fmt.Fprintf(&b, "- Keep it under %d characters.\n", maxChars)
	b.WriteString("- Short paragraphs with line breaks.\n")
	b.WriteString("- Strong hook first line, light CTA at end.\n")
	fmt.Fprintf(&b, "- %s\n", hashtags)
	b.WriteString("- No markdown or code fences.\n")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
