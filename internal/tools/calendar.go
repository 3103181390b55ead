package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"valet/internal/reminder"
)

const (
	calendarScope    = "https://www.googleapis.com/auth/calendar.events"
	googleAuthURL    = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL   = "https://oauth2.googleapis.com/token"
	eventDuration    = 30 * time.Minute
	calendarFailText = "Could not schedule '%s' in your calendar."
)

// CalendarConfig wires the schedule_task tool. BaseURL and Client exist so
// tests can point the tool at a stub API.
type CalendarConfig struct {
	CredentialsFile string
	TokenFile       string
	CalendarID      string
	TimeZone        string
	BaseURL         string
	Client          *http.Client
	Now             func() time.Time
}

// Calendar creates events through the Google Calendar REST API using an
// OAuth2 token cached on disk and refreshed when expired.
type Calendar struct {
	cfg   CalendarConfig
	store *reminder.Store
}

func NewCalendar(cfg CalendarConfig, store *reminder.Store) *Calendar {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/calendar/v3"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	return &Calendar{cfg: cfg, store: store}
}

func (c *Calendar) Name() string { return "schedule_task" }

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type calendarEvent struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
}

func (c *Calendar) Invoke(ctx context.Context, args Args) Result {
	title := args["title"]
	description := args["description"]
	if description == "" {
		description = title
	}

	minutes, err := strconv.Atoi(args["minutes"])
	if err != nil {
		log.Error("Bad minutes argument", "tool", c.Name(), "minutes", args["minutes"])
		return Fail(calendarFailText, title)
	}

	oc, tok, err := c.loadCredentials()
	if err != nil {
		log.Error("Calendar credentials unavailable", "err", err)
		return Fail("Calendar scheduling failed: Google Calendar credentials not configured.")
	}

	loc, err := time.LoadLocation(c.cfg.TimeZone)
	if err != nil {
		log.Error("Bad calendar time zone", "tz", c.cfg.TimeZone, "err", err)
		return Fail(calendarFailText, title)
	}

	start := c.cfg.Now().In(loc).Add(time.Duration(minutes) * time.Minute)
	end := start.Add(eventDuration)

	event := calendarEvent{
		Summary:     title,
		Description: description,
		Start:       eventTime{DateTime: start.Format(time.RFC3339), TimeZone: c.cfg.TimeZone},
		End:         eventTime{DateTime: end.Format(time.RFC3339), TimeZone: c.cfg.TimeZone},
	}

	link, err := c.insert(ctx, oc, tok, event)
	if err != nil {
		log.Error("Calendar insert failed", "title", title, "err", err)
		return Fail(calendarFailText, title)
	}

	c.store.Add(title, start)

	log.Info("Calendar event created", "title", title, "start", start, "link", link)
	return Ok("Event '%s' created: %s", title, link)
}

func (c *Calendar) insert(ctx context.Context, oc *oauth2.Config, tok *oauth2.Token, event calendarEvent) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.cfg.Client)

	src := oc.TokenSource(ctx, tok)
	fresh, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	if fresh.AccessToken != tok.AccessToken {
		// Token rotated; persist so the next run skips the refresh.
		if err := saveToken(c.cfg.TokenFile, fresh); err != nil {
			log.Warn("Failed to cache refreshed token", "err", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	u := fmt.Sprintf("%s/calendars/%s/events", c.cfg.BaseURL, url.PathEscape(c.cfg.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	fresh.SetAuthHeader(req)

	resp, err := c.cfg.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("insert returned %d: %s", resp.StatusCode, b)
	}

	var created calendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return created.HTMLLink, nil
}

type clientSecrets struct {
	Installed struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		AuthURI      string `json:"auth_uri"`
		TokenURI     string `json:"token_uri"`
	} `json:"installed"`
}

func (c *Calendar) loadCredentials() (*oauth2.Config, *oauth2.Token, error) {
	raw, err := os.ReadFile(c.cfg.CredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read client secrets: %w", err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, nil, fmt.Errorf("parse client secrets: %w", err)
	}
	if secrets.Installed.ClientID == "" || secrets.Installed.ClientSecret == "" {
		return nil, nil, fmt.Errorf("client secrets incomplete")
	}

	authURL := secrets.Installed.AuthURI
	if authURL == "" {
		authURL = googleAuthURL
	}
	tokenURL := secrets.Installed.TokenURI
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	oc := &oauth2.Config{
		ClientID:     secrets.Installed.ClientID,
		ClientSecret: secrets.Installed.ClientSecret,
		Scopes:       []string{calendarScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}

	tok, err := loadToken(c.cfg.TokenFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load cached token: %w", err)
	}

	return oc, tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0600)
}
