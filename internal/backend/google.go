package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/context/ctxhttp"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

const DefaultGoogleEndpoint = "https://www.google.com/transliterate"

// GoogleIME asks the Google transliteration endpoint for okuri-nasi
// candidates. It has no completion support.
type GoogleIME struct {
	Endpoint string
	Timeout  time.Duration
	Client   *http.Client
}

func NewGoogleIME(endpoint string, timeout time.Duration) *GoogleIME {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &GoogleIME{Endpoint: endpoint, Timeout: timeout, Client: http.DefaultClient}
}

func (g *GoogleIME) Name() string { return "google" }

func (g *GoogleIME) Remote() bool { return true }

func (g *GoogleIME) Lookup(ctx context.Context, okuri types.OkuriType, word string) []string {
	if okuri != types.OkuriNasi || word == "" {
		return nil
	}
	cands, err := g.fetch(ctx, word)
	if err != nil {
		tracer().Debugf("google lookup %q: %v", word, err)
		return nil
	}
	return cands
}

func (g *GoogleIME) Complete(context.Context, string) []jisyo.Entry { return nil }

func (g *GoogleIME) fetch(ctx context.Context, word string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("langpair", "ja-Hira|ja")
	// The trailing comma stops the service from splitting the word.
	query.Set("text", word+",")
	resp, err := ctxhttp.Get(ctx, g.Client, g.Endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var segments [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(segments) == 0 || len(segments[0]) < 2 {
		return nil, nil
	}
	var cands []string
	if err := json.Unmarshal(segments[0][1], &cands); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return cands, nil
}
