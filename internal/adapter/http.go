package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/careerwatch/internal/model"
)

const userAgent = "careerwatch/1.0 (+https://github.com/amishk599/careerwatch)"

// fetchBody performs a single GET and returns the full response body.
// Non-2xx statuses are reported as *model.HTTPError.
func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
