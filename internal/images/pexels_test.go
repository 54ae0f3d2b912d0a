package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photos(pairs ...string) searchResponse {
	var sr searchResponse
	for i := 0; i+1 < len(pairs); i += 2 {
		var ph photo
		ph.Alt = pairs[i]
		ph.Src.Large = pairs[i+1]
		sr.Photos = append(sr.Photos, ph)
	}
	return sr
}

func server(t *testing.T, status int, body searchResponse, query *string) *Pexels {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		if query != nil {
			*query = r.URL.Query().Get("query")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	p := NewPexels("test-key", WithBaseURL(srv.URL))
	p.http.RetryMax = 0
	return p
}

func TestSkipsPhotosOfPeople(t *testing.T) {
	var q string
	p := server(t, http.StatusOK, photos(
		"Woman eating noodles", "https://img/1.jpg",
		"Bowl of pho on a table", "https://img/2.jpg",
	), &q)

	assert.Equal(t, "https://img/2.jpg", p.SearchFoodImage(context.Background(), "Phở bò"))
	assert.Equal(t, "Phở bò food dish cooking recipe", q)
}

func TestAllPeopleFallsBackToFirst(t *testing.T) {
	p := server(t, http.StatusOK, photos("Man holding a plate", "https://img/1.jpg", "girl", "https://img/2.jpg"), nil)
	assert.Equal(t, "https://img/1.jpg", p.SearchFoodImage(context.Background(), "x"))
}

func TestSearchByIngredientsUsesFirstThree(t *testing.T) {
	var q string
	p := server(t, http.StatusOK, photos("soup", "https://img/soup.jpg"), &q)
	got := p.SearchByIngredients(context.Background(), []string{"beef", "onion", "ginger", "star anise"})
	assert.Equal(t, "https://img/soup.jpg", got)
	assert.Equal(t, "beef onion ginger dish food cooking", q)

	assert.Equal(t, FallbackImage, p.SearchByIngredients(context.Background(), nil))
}

func TestFailuresYieldFallback(t *testing.T) {
	require.Equal(t, FallbackImage, server(t, http.StatusUnauthorized, searchResponse{}, nil).SearchFoodImage(context.Background(), "x"))
	require.Equal(t, FallbackImage, server(t, http.StatusOK, searchResponse{}, nil).SearchFoodImage(context.Background(), "x"))
	assert.Equal(t, FallbackImage, NewPexels("").SearchFoodImage(context.Background(), "x"), "no key means no request")

	var s Searcher = Static("https://img/static.jpg")
	assert.Equal(t, "https://img/static.jpg", s.SearchByIngredients(context.Background(), nil))
}
