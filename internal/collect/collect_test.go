package collect

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/payload"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/brightdata"
	"github.com/sells-group/prospect-cli/pkg/brightdata/mocks"
)

const companyURL = "https://www.linkedin.com/company/acme"

func newTestCollector(client brightdata.Client) *Collector {
	return New(client, "ds_1",
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    PhaseAttempts,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
		}),
		WithPollOptions(
			brightdata.WithPollInterval(time.Millisecond),
			brightdata.WithPollCeiling(20*time.Millisecond),
		),
	)
}

func datasetReq() any {
	return brightdata.NewDatasetRequest("ds_1", companyURL)
}

func toJSON(t *testing.T, v payload.Value) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestCollect_ScrapeOK(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, datasetReq()).
		Return(&brightdata.DatasetResponse{StatusCode: 200, Body: []byte(`[{"website":"acme.com"}]`)}, nil).Once()

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.Equal(t, "https://acme.com", payload.ExtractWebsite(v))
	client.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
}

func TestCollect_ScrapeNonJSONBecomesRaw(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Return(&brightdata.DatasetResponse{StatusCode: 200, Body: []byte("plain text")}, nil).Once()

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.JSONEq(t, `{"raw":"plain text"}`, toJSON(t, v))
}

func TestCollect_Scrape202PollsSnapshot(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Return(&brightdata.DatasetResponse{StatusCode: 202, SnapshotID: "s_1", Body: []byte(`{"snapshot_id":"s_1"}`)}, nil).Once()
	client.On("Snapshot", mock.Anything, "s_1").
		Return(&brightdata.SnapshotResponse{StatusCode: 202}, nil).Once()
	client.On("Snapshot", mock.Anything, "s_1").
		Return(&brightdata.SnapshotResponse{StatusCode: 200, Ready: true, Body: []byte(`{"data":[{"site":"acme.io"}]}`)}, nil).Once()

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.Equal(t, "https://acme.io", payload.ExtractWebsite(v))
}

func TestCollect_PendingScrapeFallsBackToTrigger(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Return(&brightdata.DatasetResponse{StatusCode: 202, SnapshotID: "s_1"}, nil).Times(PhaseAttempts)
	client.On("Snapshot", mock.Anything, "s_1").
		Return(&brightdata.SnapshotResponse{StatusCode: 202}, nil)
	client.On("Trigger", mock.Anything, datasetReq()).
		Return(&brightdata.DatasetResponse{StatusCode: 200, Body: []byte(`{"website":"acme.com"}`)}, nil).Once()

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.Equal(t, "https://acme.com", payload.ExtractWebsite(v))
	client.AssertNumberOfCalls(t, "Scrape", PhaseAttempts)
}

func TestCollect_TriggerSnapshot(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Return(nil, &brightdata.APIError{StatusCode: 500, Body: "boom"}).Times(PhaseAttempts)
	client.On("Trigger", mock.Anything, mock.Anything).
		Return(&brightdata.DatasetResponse{StatusCode: 201, SnapshotID: "s_9"}, nil).Once()
	client.On("Snapshot", mock.Anything, "s_9").
		Return(&brightdata.SnapshotResponse{StatusCode: 200, Ready: true, Body: []byte(`{"website":"acme.com"}`)}, nil).Once()

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.Equal(t, "https://acme.com", payload.ExtractWebsite(v))
}

func TestCollect_BothFailed(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Return(nil, &brightdata.APIError{StatusCode: 400, Body: "bad dataset"}).Times(PhaseAttempts)
	client.On("Trigger", mock.Anything, mock.Anything).
		Return(&brightdata.DatasetResponse{StatusCode: 200, Body: []byte(`{"status":"error","message":"x"}`)}, nil).Times(PhaseAttempts)

	v := newTestCollector(client).Collect(context.Background(), companyURL)

	assert.JSONEq(t, `{"status":"error","detail":"both failed"}`, toJSON(t, v))
	assert.Empty(t, payload.ExtractWebsite(v))
}

func TestCollect_CancelledContextStopsPhases(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := mocks.NewMockClient(t)
	client.On("Scrape", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, &brightdata.APIError{StatusCode: 503, Body: "unavailable"}).Once()

	v := newTestCollector(client).Collect(ctx, companyURL)

	assert.Equal(t, StatusError, v.Status())
	client.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
}

func TestErrorMarker_TruncatesBody(t *testing.T) {
	v := errorMarker(500, strings.Repeat("é", BodyLimit+50))

	body, ok := v.Field("body")
	require.True(t, ok)
	assert.Len(t, []rune(body.Str()), BodyLimit)

	code, _ := v.Field("http")
	s, _ := code.Scalar()
	assert.Equal(t, "500", s)
	assert.True(t, Failed(v))
}

func TestFailed(t *testing.T) {
	assert.True(t, Failed(payload.ObjectValue(map[string]payload.Value{"status": payload.StringValue("pending")})))
	assert.False(t, Failed(payload.ObjectValue(map[string]payload.Value{"status": payload.StringValue("ready")})))
	assert.False(t, Failed(payload.ArrayValue()))
}

func TestAttemptError(t *testing.T) {
	err := &AttemptError{Phase: "scrape", Payload: errorMarker(404, "nope")}
	assert.Contains(t, err.Error(), "collect: scrape failed")
	assert.Contains(t, err.Error(), `"http":404`)
}
