package tools

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"
	"time"
)

const weatherTimeout = 10 * time.Second

// Weather fetches a one-line report from the wttr.in JSON endpoint.
type Weather struct {
	client  *http.Client
	baseURL string
}

func NewWeather(client *http.Client) *Weather {
	if client == nil {
		client = &http.Client{}
	}
	// wttr.in is the one endpoint slow enough to need its own cap.
	c := *client
	c.Timeout = weatherTimeout
	return &Weather{client: &c, baseURL: "https://wttr.in"}
}

func (w *Weather) Name() string { return "get_weather" }

type wttrReport struct {
	CurrentCondition []struct {
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
		TempC         string `json:"temp_C"`
		FeelsLikeC    string `json:"FeelsLikeC"`
		Humidity      string `json:"humidity"`
		WindspeedKmph string `json:"windspeedKmph"`
	} `json:"current_condition"`
}

func (w *Weather) Invoke(ctx context.Context, args Args) Result {
	city := args["city"]

	u := fmt.Sprintf("%s/%s?format=j1", w.baseURL, url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Error("Failed to build weather request", "city", city, "err", err)
		return Fail("An error occurred while retrieving weather for %s.", city)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Error("Weather request failed", "city", city, "err", err)
		return Fail("An error occurred while retrieving weather for %s.", city)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Weather endpoint returned non-200", "city", city, "status", resp.StatusCode)
		return Fail("Could not retrieve weather for %s.", city)
	}

	var report wttrReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		log.Error("Failed to decode weather payload", "city", city, "err", err)
		return Fail("Could not retrieve weather for %s.", city)
	}
	if len(report.CurrentCondition) == 0 {
		return Fail("Could not retrieve weather for %s.", city)
	}

	cur := report.CurrentCondition[0]
	desc := ""
	if len(cur.WeatherDesc) > 0 {
		desc = cur.WeatherDesc[0].Value
	}

	log.Info("Weather retrieved", "city", city, "desc", desc)
	return Ok("Weather in %s: %s, %s°C (feels like %s°C), humidity %s%%, wind %s km/h.",
		city, desc, cur.TempC, cur.FeelsLikeC, cur.Humidity, cur.WindspeedKmph)
}
