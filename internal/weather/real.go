package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// The feed reports wind speeds in km/h; alerts work in mph.
const kmhPerMph = 1.60934

// The feed expects and returns timestamps in this layout (UTC, no zone).
const feedTimeLayout = "2006-01-02 15:04:05"

// HTTPService fetches observations from the LCO dataservice.
type HTTPService struct {
	url     string
	station string
	client  *http.Client
}

// NewHTTPService creates a client for the given dataservice URL and station.
func NewHTTPService(feedURL, station string, timeout time.Duration) *HTTPService {
	return &HTTPService{
		url:     feedURL,
		station: station,
		client:  &http.Client{Timeout: timeout},
	}
}

type feedRow struct {
	TS               string   `json:"ts"`
	Temperature      *float64 `json:"temperature"`
	RelativeHumidity *float64 `json:"relative_humidity"`
	WindSpeedAvg     *float64 `json:"wind_speed_avg"`
}

type feedResponse struct {
	Error   string    `json:"Error"`
	Results []feedRow `json:"results"`
}

// Fetch queries the feed for [from, to] and returns cleaned rows: all-null
// rows dropped, sorted by time, wind converted to mph, dew point derived.
func (s *HTTPService) Fetch(ctx context.Context, from, to time.Time) ([]Row, error) {
	q := url.Values{}
	q.Set("start_ts", from.UTC().Format(feedTimeLayout))
	q.Set("end_ts", to.UTC().Format(feedTimeLayout))
	q.Set("station", s.station)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather feed returned %d: %s", resp.StatusCode, body)
	}

	var parsed feedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("weather feed error: %s", parsed.Error)
	}
	if parsed.Results == nil {
		return nil, fmt.Errorf("weather feed returned no results")
	}

	rows := make([]Row, 0, len(parsed.Results))
	for _, fr := range parsed.Results {
		if fr.Temperature == nil && fr.RelativeHumidity == nil && fr.WindSpeedAvg == nil {
			continue
		}
		ts, err := parseFeedTime(fr.TS)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", fr.TS, err)
		}
		row := Row{
			Time:             ts,
			Temperature:      fr.Temperature,
			RelativeHumidity: fr.RelativeHumidity,
		}
		if fr.WindSpeedAvg != nil {
			mph := *fr.WindSpeedAvg / kmhPerMph
			row.WindSpeedAvg = &mph
		}
		if fr.Temperature != nil && fr.RelativeHumidity != nil {
			dp := dewPoint(*fr.Temperature, *fr.RelativeHumidity)
			row.DewPoint = &dp
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	return rows, nil
}

// parseFeedTime accepts the feed's space-separated layout (with or without
// fractional seconds) and RFC 3339 as a fallback.
func parseFeedTime(s string) (time.Time, error) {
	if ts, err := time.ParseInLocation(feedTimeLayout, s, time.UTC); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}
