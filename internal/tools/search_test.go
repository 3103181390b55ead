package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSearchAgainst(t *testing.T, handler http.HandlerFunc) *Search {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSearch(srv.Client())
	s.baseURL = srv.URL
	return s
}

func TestSearchAbstract(t *testing.T) {
	s := newSearchAgainst(t, func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "best pizza", r.URL.Query().Get("q"))
		rw.Write([]byte(`{"AbstractText": "Pizza is a dish of Italian origin."}`))
	})

	res := s.Invoke(context.Background(), Args{"query": "best pizza"})
	assert.True(t, res.OK)
	assert.Equal(t, "Pizza is a dish of Italian origin.", res.Text)
}

func TestSearchFallsBackToRelatedTopic(t *testing.T) {
	s := newSearchAgainst(t, func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(`{"AbstractText": "", "RelatedTopics": [{"Text": "Related thing"}]}`))
	})

	res := s.Invoke(context.Background(), Args{"query": "thing"})
	assert.True(t, res.OK)
	assert.Equal(t, "Related thing", res.Text)
}

func TestSearchNoResults(t *testing.T) {
	s := newSearchAgainst(t, func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(`{}`))
	})

	res := s.Invoke(context.Background(), Args{"query": "xyzzy"})
	assert.True(t, res.OK)
	assert.Equal(t, "No instant answer found for 'xyzzy'.", res.Text)
}

func TestSearchServerError(t *testing.T) {
	s := newSearchAgainst(t, func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})

	res := s.Invoke(context.Background(), Args{"query": "anything"})
	assert.False(t, res.OK)
	assert.Equal(t, "An error occurred while searching the web for 'anything'.", res.Text)
}
