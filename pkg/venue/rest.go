package venue

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// FetchJSON performs a GET request and decodes a 200 response into out.
// limiter may be nil.
func FetchJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, out interface{}) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limit")
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "build request %s", url)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "get %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Errorf("get %s: unexpected status %s: %s", url, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ParseError(err, "snapshot body")
	}
	return nil
}
