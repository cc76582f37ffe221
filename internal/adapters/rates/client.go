// Package rates holds the HTTP quote providers and the Redis quote cache.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
)

// DefaultHTTPTimeout bounds a single quote request when the caller sets no deadline.
const DefaultHTTPTimeout = 5 * time.Second

// maxBodyBytes caps how much of a quote response is read.
const maxBodyBytes = 1 << 20

// getJSON issues a GET and decodes the body into out with json.Number for numbers.
// Every failure is reported as apperrors.ErrRateUnavailable.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building http request: %v", apperrors.ErrRateUnavailable, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: http get: %v", apperrors.ErrRateUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", apperrors.ErrRateUnavailable, response.StatusCode)
	}

	decoder := json.NewDecoder(io.LimitReader(response.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: decoding json: %v", apperrors.ErrRateUnavailable, err)
	}
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
