package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ListCheckups returns the user's prior checkups, newest first.
func (c *Client) ListCheckups(ctx context.Context) ([]Checkup, error) {
	var checkups []Checkup
	if err := c.getJSON(ctx, "Get checkups", "/checkups", &checkups); err != nil {
		return nil, err
	}
	return checkups, nil
}

// StartCheckup submits a URL for auditing and returns the created checkup.
func (c *Client) StartCheckup(ctx context.Context, url string) (*Checkup, error) {
	var checkup Checkup
	req := struct {
		URL string `json:"url"`
	}{URL: url}
	if err := c.postJSON(ctx, "Start new checkup", "/checkups", req, &checkup); err != nil {
		return nil, err
	}
	return &checkup, nil
}

// GetCheckup fetches the current state of a checkup and all its checks.
// This is the poller's fetch.
func (c *Client) GetCheckup(ctx context.Context, checkupID int64) (*Checkup, error) {
	var checkup Checkup
	path := fmt.Sprintf("/checkups/%d", checkupID)
	if err := c.getJSON(ctx, "Get checkup", path, &checkup); err != nil {
		return nil, err
	}
	return &checkup, nil
}

// GetCheck fetches a single check.
func (c *Client) GetCheck(ctx context.Context, checkupID, checkID int64) (*Check, error) {
	var check Check
	path := fmt.Sprintf("/checkups/%d/checks/%d", checkupID, checkID)
	if err := c.getJSON(ctx, "Get check", path, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// ReportPDF streams the checkup's PDF report into w.
func (c *Client) ReportPDF(ctx context.Context, checkupID int64, w io.Writer) error {
	const op = "Get pdf report"
	path := fmt.Sprintf("%s/checkups/%d/pdf_report", c.baseURL, checkupID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newAPIError(op, resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
