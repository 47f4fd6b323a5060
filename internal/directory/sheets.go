package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bank-demo/internal/model"
)

// SheetsDirectory reads the user table from a public spreadsheet values
// endpoint. The first row is a header and is skipped; columns 0-3 map to
// username, password, balance and account name.
type SheetsDirectory struct {
	baseURL   string
	sheetID   string
	apiKey    string
	cellRange string
	client    *http.Client
}

type valuesPayload struct {
	Values [][]string `json:"values"`
}

func NewSheetsDirectory(baseURL string, sheetID string, apiKey string, cellRange string, timeout time.Duration) *SheetsDirectory {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SheetsDirectory{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sheetID:   sheetID,
		apiKey:    apiKey,
		cellRange: cellRange,
		client:    &http.Client{Timeout: timeout},
	}
}

func (d *SheetsDirectory) FetchAll(ctx context.Context) ([]model.DirectoryEntry, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s?key=%s",
		d.baseURL,
		url.PathEscape(d.sheetID),
		url.PathEscape(d.cellRange),
		url.QueryEscape(d.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: values endpoint returned %d", model.ErrDirectoryUnavailable, resp.StatusCode)
	}

	var payload valuesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err)
	}

	if len(payload.Values) <= 1 {
		return nil, nil
	}

	// Row zero is the header.
	entries := make([]model.DirectoryEntry, 0, len(payload.Values)-1)
	for _, row := range payload.Values[1:] {
		entries = append(entries, model.DirectoryEntry{
			Username:    cell(row, 0, ""),
			Password:    cell(row, 1, ""),
			Balance:     cell(row, 2, "0"),
			AccountName: cell(row, 3, ""),
		})
	}

	return entries, nil
}

func cell(row []string, index int, fallback string) string {
	if index >= len(row) || row[index] == "" {
		return fallback
	}

	return row[index]
}
