package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

type fakeContacts struct {
	sets  map[string]model.ContactSet
	calls []string
}

func (f *fakeContacts) Fetch(_ context.Context, website string) model.ContactSet {
	f.calls = append(f.calls, website)
	return f.sets[website]
}

func TestRunner_SkipContacts(t *testing.T) {
	d := &fakeDiscovery{sites: map[string]string{"Beta": "https://beta.io"}}
	rows := NewRunner(NewEnricher(d, &fakeCollector{}), nil).Run(context.Background(), []string{"Beta"})

	require.Len(t, rows, 1)
	assert.Equal(t, "https://beta.io", rows[0].Website)
	assert.Empty(t, rows[0].Emails)
}

func TestRunner_NoCrawlWithoutWebsite(t *testing.T) {
	contacts := &fakeContacts{}
	rows := NewRunner(NewEnricher(&fakeDiscovery{}, &fakeCollector{}), contacts).
		Run(context.Background(), []string{"A", "B"})

	assert.Len(t, rows, 2)
	assert.Empty(t, contacts.calls)
}

func TestRunner_ContactsJoined(t *testing.T) {
	d := &fakeDiscovery{sites: map[string]string{"Beta": "https://beta.io"}}
	contacts := &fakeContacts{sets: map[string]model.ContactSet{
		"https://beta.io": {
			Emails: []string{"a@beta.io", "b@beta.io"},
			Phones: []string{"555 123 4567", "555 765 4321"},
		},
	}}

	rows := NewRunner(NewEnricher(d, &fakeCollector{}), contacts).Run(context.Background(), []string{"Beta"})

	require.Len(t, rows, 1)
	assert.Equal(t, "a@beta.io; b@beta.io", rows[0].Emails)
	assert.Equal(t, "555 123 4567; 555 765 4321", rows[0].Phones)
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &fakeDiscovery{companies: map[string]string{"A": "https://linkedin.com/company/a", "B": "https://linkedin.com/company/b"}}
	c := &fakeCollector{onCall: cancel}

	rows := NewRunner(NewEnricher(d, c), &fakeContacts{}).Run(ctx, []string{"A", "B", "C"})

	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].BusinessName)
	assert.Equal(t, model.StatusError, rows[0].Status)
}
