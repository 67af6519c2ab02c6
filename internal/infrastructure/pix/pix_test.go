package pix_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/pix"
)

var merchant = pix.Merchant{Key: "kyc@example.com", Name: "KYC DEPOSITO", City: "SAO PAULO"}

func TestCRC16_ShouldMatchCCITTFalseCheckValue(t *testing.T) {
	require.Equal(t, uint16(0x29B1), pix.CRC16("123456789"))
}

func TestBuildPayload_ShouldEmbedAmountAndChecksum(t *testing.T) {
	payload := pix.BuildPayload(merchant, decimal.RequireFromString("4.9"), "0b6e2c7a-1111-2222-3333-444455556666")

	assert.True(t, strings.HasPrefix(payload, "000201"))
	assert.Contains(t, payload, "0014br.gov.bcb.pix")
	assert.Contains(t, payload, "54044.90")
	assert.Contains(t, payload, "5802BR")
	assert.Contains(t, payload, "5912KYC DEPOSITO")
	assert.Contains(t, payload, "6009SAO PAULO")

	body, crc := payload[:len(payload)-4], payload[len(payload)-4:]
	require.True(t, strings.HasSuffix(body, "6304"))
	assert.Equal(t, fmt.Sprintf("%04X", pix.CRC16(body)), crc)
}

func TestSimulator_ShouldStayPendingUntilMarkedPaid(t *testing.T) {
	repo := inmemory.NewChargeRepository()
	sim := &pix.Simulator{Repo: repo, Merchant: merchant}
	ctx := context.Background()

	c, err := sim.CreatePix(ctx, decimal.RequireFromString("4.90"))
	require.NoError(t, err)
	require.NotEmpty(t, c.TransactionID)
	require.NotEmpty(t, c.PaymentCode)

	res, err := sim.CheckStatus(ctx, c.TransactionID)
	require.NoError(t, err)
	require.False(t, res.IsPaid())
	require.True(t, res.Value.IsZero())

	require.NoError(t, sim.MarkPaid(c.TransactionID))

	res, err = sim.CheckStatus(ctx, c.TransactionID)
	require.NoError(t, err)
	require.True(t, res.IsPaid())
	require.True(t, res.Value.Equal(decimal.RequireFromString("4.90")))
}

func TestSimulator_WhenAutoPayAfterSet_ShouldPayOnThatCheck(t *testing.T) {
	sim := &pix.Simulator{Repo: inmemory.NewChargeRepository(), Merchant: merchant, AutoPayAfter: 3}
	ctx := context.Background()

	c, err := sim.CreatePix(ctx, decimal.NewFromInt(5))
	require.NoError(t, err)

	var paid []bool
	for range 4 {
		res, err := sim.CheckStatus(ctx, c.TransactionID)
		require.NoError(t, err)
		paid = append(paid, res.IsPaid())
	}

	require.Equal(t, []bool{false, false, true, true}, paid)
}

func TestSimulator_ShouldRejectInvalidRequests(t *testing.T) {
	sim := &pix.Simulator{Repo: inmemory.NewChargeRepository(), Merchant: merchant}

	_, err := sim.CreatePix(context.Background(), decimal.Zero)
	require.ErrorIs(t, err, pix.ErrInvalidAmount)

	_, err = sim.CheckStatus(context.Background(), "unknown")
	require.ErrorIs(t, err, charge.ErrChargeNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.CreatePix(ctx, decimal.NewFromInt(1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_ShouldSpeakJSONContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/pix":
			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["amount"] != "4.9" {
				http.Error(w, "bad amount", http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"transaction_id": "tx-1",
				"payment_code":   "000201...",
				"amount":         "4.90",
				"created_at":     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			})
		case r.Method == http.MethodGet && r.URL.Path == "/pix/tx-1/status":
			_, _ = w.Write([]byte(`{"status":"paid","value":"4.90"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := &pix.Client{BaseURL: srv.URL + "/", HTTPClient: srv.Client()}
	ctx := context.Background()

	c, err := client.CreatePix(ctx, decimal.RequireFromString("4.90"))
	require.NoError(t, err)
	require.Equal(t, "tx-1", c.TransactionID)
	require.True(t, c.Amount.Equal(decimal.RequireFromString("4.9")))

	res, err := client.CheckStatus(ctx, "tx-1")
	require.NoError(t, err)
	require.True(t, res.IsPaid())
	require.True(t, res.Value.Equal(decimal.RequireFromString("4.90")))
}

func TestClient_WhenBackendFails_ShouldWrapErrBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := &pix.Client{BaseURL: srv.URL, HTTPClient: srv.Client()}

	_, err := client.CheckStatus(context.Background(), "tx-1")
	require.ErrorIs(t, err, pix.ErrBackend)
	require.Contains(t, err.Error(), "503")

	_, err = client.CreatePix(context.Background(), decimal.NewFromInt(1))
	require.ErrorIs(t, err, pix.ErrBackend)
}
