package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<html><body><a href="mailto:sales@acme.com">Email us</a></body></html>`))
		case "/contact":
			_, _ = w.Write([]byte(`<html><body><p>Call +1 415 555 0100</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newBrightDataServer(t *testing.T, website string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/request":
			var body struct {
				URL string `json:"url"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if strings.Contains(body.URL, "Acme+Inc") && strings.Contains(body.URL, "site%3Alinkedin.com%2Fcompany") {
				_, _ = w.Write([]byte(`{"organic":[{"link":"https://www.linkedin.com/company/acme-inc?trk=x"}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"organic":[]}`))
		case "/datasets/v3/scrape":
			_, _ = w.Write([]byte(`[{"name":"Acme Inc","website":"` + website + `"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testEnrichConfig(bdURL string) *config.Config {
	return &config.Config{
		BrightData: config.BrightDataConfig{
			Key:       "key",
			Zone:      "zone",
			DatasetID: "ds",
			BaseURL:   bdURL,
			SearchURL: "https://www.google.com/search",
		},
	}
}

func TestRunEnrich_EndToEnd(t *testing.T) {
	site := newSiteServer(t)
	bd := newBrightDataServer(t, site.URL)

	dir := t.TempDir()
	input := filepath.Join(dir, "names.csv")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("business_name\nAcme Inc\n\n"), 0o600))

	var stdout bytes.Buffer
	err := runEnrich(context.Background(), testEnrichConfig(bd.URL), input, output, false, &stdout)
	require.NoError(t, err)

	var rows []model.Row
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Inc", rows[0].BusinessName)
	assert.Equal(t, "https://www.linkedin.com/company/acme-inc", rows[0].LinkedInCompanyURL)
	assert.Equal(t, site.URL, rows[0].Website)
	assert.Equal(t, "sales@acme.com", rows[0].Emails)
	assert.Contains(t, rows[0].Phones, "415 555 0100")
	assert.Equal(t, model.StatusOK, rows[0].Status)

	csvOut, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvOut), "business_name,linkedin_company_url,website,emails,phones,status\n"))
	assert.Contains(t, string(csvOut), "sales@acme.com")
}

func TestRunEnrich_SkipContacts(t *testing.T) {
	site := newSiteServer(t)
	bd := newBrightDataServer(t, site.URL)

	dir := t.TempDir()
	input := filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(input, []byte("business_name\nAcme Inc\n"), 0o600))

	var stdout bytes.Buffer
	err := runEnrich(context.Background(), testEnrichConfig(bd.URL), input, filepath.Join(dir, "out.csv"), true, &stdout)
	require.NoError(t, err)

	var rows []model.Row
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Emails)
	assert.Empty(t, rows[0].Phones)
	assert.Equal(t, model.StatusOK, rows[0].Status)
}

func TestRunEnrich_MissingInput(t *testing.T) {
	err := runEnrich(context.Background(), testEnrichConfig("http://127.0.0.1:0"),
		filepath.Join(t.TempDir(), "missing.csv"), "out.csv", true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
}

func TestRunEnrich_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(input, []byte("company\nAcme Inc\n"), 0o600))

	err := runEnrich(context.Background(), testEnrichConfig("http://127.0.0.1:0"),
		input, filepath.Join(dir, "out.csv"), true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "business_name")
}
