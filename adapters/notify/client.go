package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"packetstruct/internal/errors"
	"packetstruct/ports"
)

// Client notifies the downstream parser service after a structure change.
// The response body is ignored beyond the status code and no retries are
// attempted.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a parser notification client with a bounded wait
func NewClient(baseURL string, timeout time.Duration) ports.ParserNotifier {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NotifyStructureUpdate calls GET <parser-base-url>/updatePacketStructure.
func (c *Client) NotifyStructureUpdate(ctx context.Context) error {
	url := c.baseURL + "/updatePacketStructure"
	log.Printf("[ParserNotifier] Notifying structure change: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.ExternalServiceError("parser", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError("parser", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.ExternalServiceError("parser", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}
