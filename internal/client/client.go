// Package client calls the PdfProcessorService RPC over HTTP using msgpack.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pdf-processor/backend/internal/api"
	"github.com/pdf-processor/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultTimeout matches the deadline the original caller used.
const DefaultTimeout = 5 * time.Minute

// Client talks to one server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for addr, which may be "host:port" or a full URL.
func New(addr string, opts ...Option) *Client {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	c := &Client{
		baseURL:    strings.TrimRight(addr, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessPdf sends one document. A returned error means the call itself
// failed; a failed save comes back as a result with SavedSuccessfully false.
func (c *Client) ProcessPdf(ctx context.Context, req models.UploadRequest) (*models.UploadResult, error) {
	// nil would encode as an absent field and be rejected.
	if req.Content == nil {
		req.Content = []byte{}
	}

	body, err := msgpack.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+api.ProcessPdfPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationMsgpack)
	httpReq.Header.Set(echo.HeaderAccept, echo.MIMEApplicationMsgpack)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling ProcessPdf: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	var result models.UploadResult
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &api.APIError{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "HTTP_ERROR"
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	apiErr.Status = status
	return apiErr
}
