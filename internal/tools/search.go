package tools

import (
	"context"
	"encoding/json"
	log "log/slog"
	"net/http"
	"net/url"
)

// Search runs a query against the DuckDuckGo instant-answer API and returns
// the best text blob it can find.
type Search struct {
	client  *http.Client
	baseURL string
}

func NewSearch(client *http.Client) *Search {
	if client == nil {
		client = &http.Client{}
	}
	return &Search{client: client, baseURL: "https://api.duckduckgo.com"}
}

func (s *Search) Name() string { return "search_web" }

type ddgAnswer struct {
	AbstractText  string `json:"AbstractText"`
	Answer        string `json:"Answer"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (s *Search) Invoke(ctx context.Context, args Args) Result {
	query := args["query"]

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		log.Error("Failed to build search request", "query", query, "err", err)
		return Fail("An error occurred while searching the web for '%s'.", query)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error("Search request failed", "query", query, "err", err)
		return Fail("An error occurred while searching the web for '%s'.", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Search endpoint returned non-200", "query", query, "status", resp.StatusCode)
		return Fail("An error occurred while searching the web for '%s'.", query)
	}

	var ans ddgAnswer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		log.Error("Failed to decode search payload", "query", query, "err", err)
		return Fail("An error occurred while searching the web for '%s'.", query)
	}

	text := ans.Answer
	if text == "" {
		text = ans.AbstractText
	}
	if text == "" && len(ans.RelatedTopics) > 0 {
		text = ans.RelatedTopics[0].Text
	}
	if text == "" {
		return Ok("No instant answer found for '%s'.", query)
	}

	log.Info("Search completed", "query", query)
	return Ok("%s", text)
}
