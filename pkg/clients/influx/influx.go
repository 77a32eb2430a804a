// Package influx is a minimal client for the InfluxDB 1.x query API,
// covering just the power measurement this project reads.
package influx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slickwilli/solar-usage/models"
)

const measurementQuery = "SELECT min(solar),max(solar),max(load)*-1,min(load)*-1 FROM power WHERE time > %s GROUP BY time(%ds) fill(none)"

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	database   string
}

type queryResponse struct {
	Results []queryResult `json:"results"`
}

type queryResult struct {
	Series []querySeries `json:"series"`
	Err    string        `json:"error"`
}

type querySeries struct {
	Name    string           `json:"name"`
	Columns []string         `json:"columns"`
	Values  [][]*json.Number `json:"values"`
}

func NewClient(baseURL, token, database string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("influx: empty base URL")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		database:   database,
	}, nil
}

// QueryWindow fetches samples covering the trailing window, bucketed to
// the given aggregation period.
func (c *Client) QueryWindow(window, bucket time.Duration) ([]models.Sample, error) {
	return c.query(fmt.Sprintf("now() - %ds", int(window.Seconds())), bucket)
}

// QuerySince fetches samples newer than ts, bucketed to the given
// aggregation period.
func (c *Client) QuerySince(ts time.Time, bucket time.Duration) ([]models.Sample, error) {
	return c.query(fmt.Sprintf("%ds", ts.Unix()), bucket)
}

func (c *Client) query(since string, bucket time.Duration) ([]models.Sample, error) {
	statement := fmt.Sprintf(measurementQuery, since, int(bucket.Seconds()))
	form := url.Values{"q": []string{statement}}

	req, err := http.NewRequest(
		http.MethodPost,
		fmt.Sprintf("%s/query?db=%s&epoch=s", c.baseURL, url.QueryEscape(c.database)),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("influxdb returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var response queryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding influxdb response: %w", err)
	}
	return samplesFromResponse(&response)
}

func samplesFromResponse(response *queryResponse) ([]models.Sample, error) {
	if len(response.Results) != 1 {
		return nil, fmt.Errorf("expected 1 query result, got %d", len(response.Results))
	}
	result := response.Results[0]
	if result.Err != "" {
		return nil, fmt.Errorf("influxdb query error: %s", result.Err)
	}
	if len(result.Series) == 0 {
		// no data points in the requested range
		return nil, nil
	}
	if len(result.Series) != 1 {
		return nil, fmt.Errorf("expected 1 series, got %d", len(result.Series))
	}

	samples := make([]models.Sample, 0, len(result.Series[0].Values))
	for _, row := range result.Series[0].Values {
		sample, err := sampleFromRow(row)
		if err != nil {
			return nil, err
		}
		if sample.IsEmpty() {
			continue
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func sampleFromRow(row []*json.Number) (models.Sample, error) {
	if len(row) != 5 {
		return models.Sample{}, fmt.Errorf("expected 5 columns per row, got %d", len(row))
	}
	if row[0] == nil {
		return models.Sample{}, fmt.Errorf("row has null timestamp")
	}
	ts, err := row[0].Int64()
	if err != nil {
		return models.Sample{}, fmt.Errorf("parsing row timestamp: %w", err)
	}
	solar, err := rangeFromColumns(row[1], row[2])
	if err != nil {
		return models.Sample{}, fmt.Errorf("parsing solar columns: %w", err)
	}
	usage, err := rangeFromColumns(row[3], row[4])
	if err != nil {
		return models.Sample{}, fmt.Errorf("parsing usage columns: %w", err)
	}
	return models.Sample{
		Timestamp: time.Unix(ts, 0),
		Solar:     solar,
		Usage:     usage,
	}, nil
}

func rangeFromColumns(minCol, maxCol *json.Number) (*models.Range, error) {
	if minCol == nil && maxCol == nil {
		return nil, nil
	}
	if minCol == nil || maxCol == nil {
		return nil, fmt.Errorf("half-null min/max pair")
	}
	min, err := minCol.Float64()
	if err != nil {
		return nil, err
	}
	max, err := maxCol.Float64()
	if err != nil {
		return nil, err
	}
	return &models.Range{Min: min, Max: max}, nil
}
