package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

var ErrBackend = errors.New("charge backend error")

// Client talks to a remote charge backend:
//
//	POST /pix               {"amount": "4.90"}  -> charge
//	GET  /pix/{id}/status                       -> {"status": "PAID", "value": "4.90"}
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type createRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *Client) CreatePix(ctx context.Context, amount decimal.Decimal) (charge.Charge, error) {
	body, err := json.Marshal(createRequest{Amount: amount})
	if err != nil {
		return charge.Charge{}, err
	}

	var out charge.Charge
	if err := c.do(ctx, http.MethodPost, "/pix", body, &out); err != nil {
		return charge.Charge{}, err
	}
	if out.TransactionID == "" {
		return charge.Charge{}, fmt.Errorf("%w: response without transaction id", ErrBackend)
	}
	return out, nil
}

func (c *Client) CheckStatus(ctx context.Context, transactionID string) (charge.StatusResult, error) {
	var out charge.StatusResult
	path := "/pix/" + url.PathEscape(transactionID) + "/status"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return charge.StatusResult{}, err
	}
	out.Status = charge.Status(strings.ToUpper(string(out.Status)))
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %d %s", ErrBackend, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrBackend, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}
