package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/draft"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
)

type stubProvider struct {
	text    string
	err     error
	prompts []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(_ context.Context, _, prompt string) (*draft.Generation, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &draft.Generation{Text: s.text, Candidates: 1}, nil
}

func (s *stubProvider) IsResourceExhausted(error) bool { return false }

type stubPoster struct {
	posted     []string
	visibility string
}

func (s *stubPoster) ResolveMember(context.Context) (*linkedin.Member, error) {
	return &linkedin.Member{URN: "urn:li:person:abc"}, nil
}

func (s *stubPoster) CreateTextPost(_ context.Context, text, visibility string) (map[string]any, error) {
	s.posted = append(s.posted, text)
	s.visibility = visibility
	return map[string]any{"id": "urn:li:share:1"}, nil
}

func testPostConfig() *config.Config {
	return &config.Config{
		Draft:    config.DraftConfig{Provider: "gemini", Tone: "friendly", MaxChars: 300},
		LinkedIn: config.LinkedInConfig{Visibility: "PUBLIC"},
	}
}

func TestRunPost_Confirmed(t *testing.T) {
	prov := &stubProvider{text: "```Hello LinkedIn```"}
	p := &stubPoster{}
	var out bytes.Buffer

	err := runPost(context.Background(), testPostConfig(), draft.NewDrafter(prov, "m1", "m2"), p,
		postOptions{Subject: "Launch", Name: "Acme"}, strings.NewReader(" Y \n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello LinkedIn"}, p.posted)
	assert.Equal(t, "PUBLIC", p.visibility)
	assert.Contains(t, out.String(), "--- Draft Post ---\nHello LinkedIn\n")
	assert.Contains(t, out.String(), "Post this? (y/n): ")
	assert.Contains(t, out.String(), "Author URN: urn:li:person:abc")
	assert.Contains(t, out.String(), "Posted successfully.\nResponse: {\n  \"id\": \"urn:li:share:1\"\n}")

	require.Len(t, prov.prompts, 1)
	assert.Contains(t, prov.prompts[0], "Launch")
	assert.Contains(t, prov.prompts[0], "Acme")
	assert.Contains(t, prov.prompts[0], "friendly")
}

func TestRunPost_Declined(t *testing.T) {
	p := &stubPoster{}
	var out bytes.Buffer

	err := runPost(context.Background(), testPostConfig(), draft.NewDrafter(&stubProvider{text: "Hi"}, "m1", "m2"), p,
		postOptions{Subject: "Launch"}, strings.NewReader("yes\n"), &out)
	require.NoError(t, err)

	assert.Empty(t, p.posted)
	assert.Contains(t, out.String(), "Cancelled.")
	assert.NotContains(t, out.String(), "Author URN")
}

func TestRunPost_AutoSkipsPrompt(t *testing.T) {
	p := &stubPoster{}
	var out bytes.Buffer

	err := runPost(context.Background(), testPostConfig(), draft.NewDrafter(&stubProvider{text: "Hi"}, "m1", "m2"), p,
		postOptions{Subject: "Launch", Auto: true}, strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hi"}, p.posted)
	assert.NotContains(t, out.String(), "Post this?")
}

func TestRunPost_DraftFailure(t *testing.T) {
	p := &stubPoster{}
	err := runPost(context.Background(), testPostConfig(),
		draft.NewDrafter(&stubProvider{err: errors.New("boom")}, "m1", "m2"), p,
		postOptions{Subject: "Launch", Auto: true}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, p.posted)
}

func TestRunPost_LinkedInClient(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			_, _ = w.Write([]byte(`{"id":"xyz"}`))
		case "/ugcPosts":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"urn:li:share:9"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testPostConfig()
	c.LinkedIn.BaseURL = srv.URL
	var out bytes.Buffer

	err := runPost(context.Background(), c, draft.NewDrafter(&stubProvider{text: "Hi"}, "m1", "m2"), newPoster(c, ""),
		postOptions{Subject: "Launch", Auto: true}, strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Equal(t, "urn:li:person:xyz", body["author"])
	assert.Contains(t, out.String(), "Author URN: urn:li:person:xyz")
	assert.Contains(t, out.String(), "urn:li:share:9")
}

func TestNewPoster_MemberOverride(t *testing.T) {
	c := testPostConfig()
	c.LinkedIn.MemberURN = "urn:li:person:configured"

	m, err := newPoster(c, "urn:li:person:flag").ResolveMember(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "urn:li:person:flag", m.URN)

	m, err = newPoster(c, "").ResolveMember(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "urn:li:person:configured", m.URN)
}

func TestNewDrafter_UnknownProvider(t *testing.T) {
	c := testPostConfig()
	c.Draft.Provider = "other"
	_, err := newDrafter(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown draft provider")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"  y  \n", true},
		{"y", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "Post this? (y/n): "), "input %q", tt.input)
		assert.Equal(t, "Post this? (y/n): ", out.String())
	}
}

func TestDraftWrap(t *testing.T) {
	long := strings.Repeat("word ", 40)
	for _, line := range strings.Split(wrapDraft(long), "\n") {
		assert.LessOrEqual(t, len(line), wrapWidth)
	}
}
