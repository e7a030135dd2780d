package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClient(server.URL, 5*time.Second, nopLogger{})
}

func TestFindTransactionByReference(t *testing.T) {
	t.Run("sends json-rpc request with finality", func(t *testing.T) {
		var gotBody map[string]interface{}
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"signature":"sig111","recipient":"wallet","amount":0.5,"reference":"ref111","slot":100}}`))
		})

		proof, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		require.NoError(t, err)
		assert.Equal(t, "sig111", proof.Signature)
		assert.Equal(t, 0.5, proof.Amount)

		assert.Equal(t, "findTransferByReference", gotBody["method"])
		params := gotBody["params"].([]interface{})
		assert.Equal(t, "ref111", params[0])
		assert.Equal(t, map[string]interface{}{"finality": "finalized"}, params[1])
	})

	t.Run("null result means not found", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
		})

		_, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("rpc error means unavailable", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32005,"message":"node is behind"}}`))
		})

		_, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		assert.ErrorIs(t, err, ErrLedgerUnavailable)
	})

	t.Run("http error means unavailable", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		assert.ErrorIs(t, err, ErrLedgerUnavailable)
	})

	t.Run("unreachable node means unavailable", func(t *testing.T) {
		server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		assert.ErrorIs(t, err, ErrLedgerUnavailable)
	})

	t.Run("proof without signature is invalid", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"recipient":"wallet","amount":0.5,"reference":"ref111"}}`))
		})

		_, err := client.FindTransactionByReference(context.Background(), "ref111", "finalized")

		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestValidateTransfer(t *testing.T) {
	client := NewClient("http://unused", time.Second, nopLogger{})
	proof := &TransactionProof{
		Signature: "sig111",
		Recipient: "wallet",
		Amount:    0.5,
		Reference: "ref111",
	}

	t.Run("matching transfer", func(t *testing.T) {
		assert.NoError(t, client.ValidateTransfer(proof, "wallet", 0.5, "ref111"))
	})

	t.Run("amount within epsilon", func(t *testing.T) {
		assert.NoError(t, client.ValidateTransfer(proof, "wallet", 0.5+1e-12, "ref111"))
	})

	t.Run("reference mismatch", func(t *testing.T) {
		err := client.ValidateTransfer(proof, "wallet", 0.5, "other")
		assert.ErrorIs(t, err, ErrReferenceMismatch)
	})

	t.Run("recipient mismatch", func(t *testing.T) {
		err := client.ValidateTransfer(proof, "other", 0.5, "ref111")
		assert.ErrorIs(t, err, ErrRecipientMismatch)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		err := client.ValidateTransfer(proof, "wallet", 0.6, "ref111")
		assert.ErrorIs(t, err, ErrAmountMismatch)
	})
}
