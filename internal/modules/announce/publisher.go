// Package announce posts short announcements to a social feed when stores
// and products are created.
package announce

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
)

// DefaultStatusURL is the statuses/update endpoint.
const DefaultStatusURL = "https://api.twitter.com/1.1/statuses/update.json"

// Publisher posts one status update.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Credentials are the OAuth1 keys of the posting account.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

func (c Credentials) complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// NopPublisher drops every post. It is used when credentials are missing.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string) error { return nil }

// TwitterPublisher posts through the v1.1 status API with OAuth1 signing.
type TwitterPublisher struct {
	config    *oauth1.Config
	token     *oauth1.Token
	statusURL string
}

// NewTwitterPublisher builds a publisher posting to statusURL, or to
// DefaultStatusURL when it is empty.
func NewTwitterPublisher(creds Credentials, statusURL string) *TwitterPublisher {
	if statusURL == "" {
		statusURL = DefaultStatusURL
	}
	return &TwitterPublisher{
		config:    oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret),
		token:     oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret),
		statusURL: statusURL,
	}
}

func (p *TwitterPublisher) Publish(ctx context.Context, text string) error {
	client := p.config.Client(ctx, p.token)
	form := url.Values{"status": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.statusURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post status: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// NewPublisher returns a TwitterPublisher when every credential is set and a
// NopPublisher otherwise.
func NewPublisher(creds Credentials) Publisher {
	if !creds.complete() {
		log.Println("[announce] twitter credentials not configured, announcements disabled")
		return NopPublisher{}
	}
	return NewTwitterPublisher(creds, "")
}
