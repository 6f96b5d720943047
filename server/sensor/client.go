package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// FetchError is returned when the sensor endpoint can't be reached
// or responds with something other than a numeric moisture reading.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unable to fetch moisture reading from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client reads the latest soil moisture percentage from a remote sensor API
type Client struct {
	httpClient *resty.Client
	url        string
	field      string
}

// NewClient returns a sensor client. Requests are not retried.
func NewClient(url, field string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		url:        url,
		field:      field,
	}
}

// FetchLatestMoisture returns the current soil moisture reading
func (c *Client) FetchLatestMoisture(ctx context.Context) (float64, error) {
	resp, err := c.httpClient.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return 0, c.fetchError(err)
	}

	if resp.IsError() {
		return 0, c.fetchError(fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String()))
	}

	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return 0, c.fetchError(errors.Wrap(err, "malformed response"))
	}

	rawValue, ok := payload[c.field]
	if !ok {
		return 0, c.fetchError(fmt.Errorf("response has no %q field", c.field))
	}

	var moisture *float64
	if err := json.Unmarshal(rawValue, &moisture); err != nil {
		return 0, c.fetchError(errors.Wrapf(err, "%q is not a number", c.field))
	}

	// null decodes without error, but it's not a reading
	if moisture == nil {
		return 0, c.fetchError(fmt.Errorf("%q is null", c.field))
	}

	return *moisture, nil
}

func (c *Client) fetchError(err error) *FetchError {
	return &FetchError{URL: c.url, Err: err}
}
