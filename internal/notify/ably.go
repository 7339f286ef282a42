package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// DefaultAblyAPIBase is the Ably REST endpoint.
const DefaultAblyAPIBase = "https://rest.ably.io"

// DefaultChannel is the channel used when none is configured.
const DefaultChannel = "system-logs"

// ErrMalformedKey reports an Ably API key that is not of the form
// name:secret. Callers treat this as a configuration error worth an
// internal error notification, unlike transient publish failures.
var ErrMalformedKey = errors.New("malformed pub/sub api key (want name:secret)")

// AblyPublisher publishes events to an Ably channel over the REST API,
// authenticated with HTTP basic auth (key name / key secret).
type AblyPublisher struct {
	apiKey  string
	channel string
	baseURL string
	client  *http.Client
}

// NewAblyPublisher creates a publisher for the given key and channel.
// An empty key returns the no-op publisher (relay disabled, skipped
// silently). A malformed key is not rejected here: it surfaces as
// ErrMalformedKey on each Publish, matching the forwarders' lazy
// configuration handling.
func NewAblyPublisher(apiKey, channel, baseURL string) Publisher {
	if apiKey == "" {
		return NopPublisher{}
	}
	if channel == "" {
		channel = DefaultChannel
	}
	if baseURL == "" {
		baseURL = DefaultAblyAPIBase
	}
	return &AblyPublisher{
		apiKey:  apiKey,
		channel: channel,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  outboundClient,
	}
}

// ablyMessage is the REST channel-publish body.
type ablyMessage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data any    `json:"data"`
}

// Publish posts data as a named event to the configured channel.
func (p *AblyPublisher) Publish(ctx context.Context, event string, data any) error {
	name, secret, ok := strings.Cut(p.apiKey, ":")
	if !ok || name == "" || secret == "" {
		return ErrMalformedKey
	}

	body, err := json.Marshal(ablyMessage{
		ID:   uuid.NewString(),
		Name: event,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("ably publish marshal: %w", err)
	}

	endpoint := p.baseURL + "/channels/" + url.PathEscape(p.channel) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ably publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(name, secret)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ably publish: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ably publish: status %d from %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(string(msg)))
	}
	return nil
}
