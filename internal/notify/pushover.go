package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultEndpoint = "https://api.pushover.net/1/messages.json"

	// Pushover priority 1 bypasses the user's quiet hours; paired with a
	// more attention-getting sound than the default chime.
	highPriority = "1"
	urgentSound  = "persistent"
)

// PushoverNotifier implements Notifier via the Pushover messages API.
type PushoverNotifier struct {
	token    string
	userKey  string
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// PushoverOption configures a PushoverNotifier.
type PushoverOption func(*PushoverNotifier)

// WithEndpoint overrides the default Pushover endpoint.
func WithEndpoint(u string) PushoverOption {
	return func(p *PushoverNotifier) {
		p.endpoint = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) PushoverOption {
	return func(p *PushoverNotifier) {
		p.client = c
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) PushoverOption {
	return func(p *PushoverNotifier) {
		p.log = l
	}
}

// NewPushoverNotifier creates a new PushoverNotifier with the given API
// token and user key.
func NewPushoverNotifier(token, userKey string, opts ...PushoverOption) *PushoverNotifier {
	p := &PushoverNotifier{
		token:    token,
		userKey:  userKey,
		endpoint: defaultEndpoint,
		client:   http.DefaultClient,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send delivers one notification through Pushover. When either credential
// is empty it logs and returns nil without touching the network: delivery
// is a best-effort side channel and must never mask the check result.
func (p *PushoverNotifier) Send(ctx context.Context, n *Notification) error {
	if p.token == "" || p.userKey == "" {
		p.log.Warn("pushover credentials not set, skipping notification", "title", n.Title)
		return nil
	}

	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.userKey)
	form.Set("title", n.Title)
	form.Set("message", n.Message)
	form.Set("html", "1")

	if n.HighPriority {
		form.Set("priority", highPriority)
		form.Set("sound", urgentSound)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("creating pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending pushover notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("pushover returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("pushover returned %d: %s", resp.StatusCode, body)
	}

	p.log.Info("notification sent", "title", n.Title)
	return nil
}
