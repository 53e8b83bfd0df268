// Package collect resolves a LinkedIn company page to the provider's company
// payload using the synchronous scrape endpoint, falling back to the
// asynchronous trigger endpoint.
package collect

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/payload"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/brightdata"
)

const (
	// PhaseAttempts is the number of calls made per phase.
	PhaseAttempts = 2

	// BodyLimit caps the provider body copied into an error marker.
	BodyLimit = 600

	// StatusError marks a payload whose collection failed.
	StatusError = "error"

	// StatusPending marks a snapshot still running at the poll ceiling.
	StatusPending = "pending"

	bothFailed = "both failed"
)

// Collector fetches company payloads from a Bright Data dataset.
type Collector struct {
	client    brightdata.Client
	datasetID string
	retry     resilience.RetryConfig
	poll      []brightdata.PollOption
}

// Option configures a Collector.
type Option func(*Collector)

// WithRetryConfig overrides the per-phase retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *Collector) {
		c.retry = cfg
	}
}

// WithPollOptions overrides snapshot polling.
func WithPollOptions(opts ...brightdata.PollOption) Option {
	return func(c *Collector) {
		c.poll = opts
	}
}

// New creates a Collector for datasetID.
func New(client brightdata.Client, datasetID string, opts ...Option) *Collector {
	c := &Collector{
		client:    client,
		datasetID: datasetID,
		retry:     resilience.StepRetryConfig(PhaseAttempts),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type phase struct {
	name string
	call func(ctx context.Context, req brightdata.DatasetRequest) payload.Value
}

// Collect returns the payload for companyURL. It never fails: when both
// phases give up the result is {"status":"error","detail":"both failed"}.
func (c *Collector) Collect(ctx context.Context, companyURL string) payload.Value {
	req := brightdata.NewDatasetRequest(c.datasetID, companyURL)
	log := zap.L().With(zap.String("url", companyURL))

	phases := []phase{
		{name: "scrape", call: c.scrapeOnce},
		{name: "trigger", call: c.triggerOnce},
	}
	for i, ph := range phases {
		if i > 0 {
			log.Info("collect: switching to trigger fallback")
		}

		cfg := c.retry
		cfg.ShouldRetry = resilience.RetryAlways
		cfg.OnRetry = resilience.RetryLogger("brightdata", ph.name)

		v, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (payload.Value, error) {
			v := ph.call(ctx, req)
			if Failed(v) {
				return v, &AttemptError{Phase: ph.name, Payload: v}
			}
			return v, nil
		})
		if err == nil {
			return v
		}
		log.Warn("collect: phase failed", zap.String("phase", ph.name), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	return payload.ObjectValue(map[string]payload.Value{
		"status": payload.StringValue(StatusError),
		"detail": payload.StringValue(bothFailed),
	})
}

// Failed reports whether a payload is an error or pending marker.
func Failed(v payload.Value) bool {
	s := v.Status()
	return s == StatusError || s == StatusPending
}

// AttemptError carries the marker payload of a failed attempt.
type AttemptError struct {
	Phase   string
	Payload payload.Value
}

func (e *AttemptError) Error() string {
	data, err := e.Payload.MarshalJSON()
	if err != nil {
		return "collect: " + e.Phase + " failed"
	}
	return "collect: " + e.Phase + " failed: " + string(data)
}

func (c *Collector) scrapeOnce(ctx context.Context, req brightdata.DatasetRequest) payload.Value {
	resp, err := c.client.Scrape(ctx, req)
	if err != nil {
		return failure(err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return payload.ParseOrRaw(resp.Body)
	case http.StatusAccepted:
		if resp.SnapshotID == "" {
			return errorMarker(resp.StatusCode, string(resp.Body))
		}
		zap.L().Info("collect: snapshot queued", zap.String("snapshot_id", resp.SnapshotID))
		return c.pollSnapshot(ctx, resp.SnapshotID)
	}
	return errorMarker(resp.StatusCode, string(resp.Body))
}

func (c *Collector) triggerOnce(ctx context.Context, req brightdata.DatasetRequest) payload.Value {
	resp, err := c.client.Trigger(ctx, req)
	if err != nil {
		return failure(err)
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if resp.SnapshotID != "" {
			zap.L().Info("collect: trigger snapshot", zap.String("snapshot_id", resp.SnapshotID))
			return c.pollSnapshot(ctx, resp.SnapshotID)
		}
		return payload.ParseOrRaw(resp.Body)
	}
	return errorMarker(resp.StatusCode, string(resp.Body))
}

func (c *Collector) pollSnapshot(ctx context.Context, id string) payload.Value {
	body, err := brightdata.PollSnapshot(ctx, c.client, id, c.poll...)
	switch {
	case errors.Is(err, brightdata.ErrSnapshotPending):
		return payload.ObjectValue(map[string]payload.Value{
			"status":      payload.StringValue(StatusPending),
			"snapshot_id": payload.StringValue(id),
		})
	case err != nil:
		return failure(err)
	}
	return payload.ParseOrRaw(body)
}

func failure(err error) payload.Value {
	var apiErr *brightdata.APIError
	if errors.As(err, &apiErr) {
		return errorMarker(apiErr.StatusCode, apiErr.Body)
	}
	return payload.ObjectValue(map[string]payload.Value{
		"status": payload.StringValue(StatusError),
		"detail": payload.StringValue(err.Error()),
	})
}

func errorMarker(status int, body string) payload.Value {
	return payload.ObjectValue(map[string]payload.Value{
		"status": payload.StringValue(StatusError),
		"http":   payload.NumberValue(status),
		"body":   payload.StringValue(truncate(body, BodyLimit)),
	})
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
