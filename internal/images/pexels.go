// Package images finds a photo for a dish from its name or main ingredients.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/samber/lo"
)

const (
	FallbackImage = "https://via.placeholder.com/600x400/FF6B6B/FFFFFF?text=Delicious+Food"

	defaultBaseURL = "https://api.pexels.com/v1"
	perPage        = 5
)

// peopleWords mark photos of diners rather than food.
var peopleWords = []string{"woman", "man", "person", "people", "girl", "boy", "eating", "holding"}

type Searcher interface {
	SearchFoodImage(ctx context.Context, query string) string
	SearchByIngredients(ctx context.Context, ingredients []string) string
}

type Pexels struct {
	apiKey  string
	baseURL string
	http    *retryablehttp.Client
}

var _ Searcher = (*Pexels)(nil)

type Option func(*Pexels)

// WithBaseURL points the client at another host, mostly for tests.
func WithBaseURL(u string) Option {
	return func(p *Pexels) { p.baseURL = strings.TrimRight(u, "/") }
}

func NewPexels(apiKey string, opts ...Option) *Pexels {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.RetryMax = 1
	rc.Logger = slog.Default()
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	p := &Pexels{apiKey: apiKey, baseURL: defaultBaseURL, http: rc}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	Alt string `json:"alt"`
	Src struct {
		Large string `json:"large"`
	} `json:"src"`
}

func (p *Pexels) SearchFoodImage(ctx context.Context, query string) string {
	return p.search(ctx, query+" food dish cooking recipe")
}

// SearchByIngredients searches with the first three ingredients.
func (p *Pexels) SearchByIngredients(ctx context.Context, ingredients []string) string {
	if len(ingredients) == 0 {
		return FallbackImage
	}
	main := lo.Slice(ingredients, 0, 3)
	return p.search(ctx, strings.Join(main, " ")+" dish food cooking")
}

// search never fails. Errors and empty results yield FallbackImage.
func (p *Pexels) search(ctx context.Context, query string) string {
	if p.apiKey == "" {
		return FallbackImage
	}
	u, err := p.lookup(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "image search failed", "query", query, "error", err)
		return FallbackImage
	}
	if u == "" {
		return FallbackImage
	}
	return u
}

func (p *Pexels) lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("orientation", "landscape")
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("pexels returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode pexels response: %w", err)
	}
	if len(sr.Photos) == 0 {
		return "", nil
	}
	best, ok := lo.Find(sr.Photos, func(ph photo) bool { return !showsPeople(ph.Alt) })
	if !ok {
		best = sr.Photos[0]
	}
	return best.Src.Large, nil
}

func showsPeople(alt string) bool {
	alt = strings.ToLower(alt)
	return lo.SomeBy(peopleWords, func(w string) bool { return strings.Contains(alt, w) })
}

// Static always answers with the same image.
type Static string

func (s Static) SearchFoodImage(context.Context, string) string { return string(s) }

func (s Static) SearchByIngredients(context.Context, []string) string { return string(s) }
