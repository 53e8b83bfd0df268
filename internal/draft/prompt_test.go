package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(PromptInput{
		Subject:      "Our new analytics product",
		CompanyName:  "Acme Inc",
		Link:         "https://acme.com/launch",
		WithHashtags: true,
	})

	want := "You are drafting a LinkedIn post.\n\n" +
		"Subject/topic: Our new analytics product\n" +
		"Company/person mentioned: Acme Inc\n" +
		"Reference link: https://acme.com/launch\n" +
		"Tone: professional, concise, engaging\n\n" +
		"Write 1 LinkedIn post draft in plain text.\n" +
		"- Keep it under 700 characters.\n" +
		"- Short paragraphs with line breaks.\n" +
		"- Strong hook first line, light CTA at end.\n" +
		"- Include 3–6 relevant hashtags.\n" +
		"- No markdown or code fences.\n"
	assert.Equal(t, want, got)
}

func TestBuildPrompt_Defaults(t *testing.T) {
	got := BuildPrompt(PromptInput{Subject: "Hiring", Tone: "playful", MaxChars: 300})

	assert.Contains(t, got, "Company/person mentioned: N/A\n")
	assert.Contains(t, got, "Reference link: N/A\n")
	assert.Contains(t, got, "Tone: playful\n")
	assert.Contains(t, got, "- Keep it under 300 characters.\n")
	assert.Contains(t, got, "- Do not add hashtags.\n")
}
