package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

// amountEpsilon допуск при сравнении сумм в нативных единицах
// Суммы приходят из JSON как float64, прямое сравнение ненадежно
const amountEpsilon = 1e-9

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client JSON-RPC клиент узла леджера
// Только чтение: клиент ищет и валидирует транзакции, но никогда не пишет в леджер
type Client struct {
	rpcURL     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента леджера
func NewClient(rpcURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindTransactionByReference ищет в леджере транзакцию, помеченную указанным
// reference, на требуемой глубине подтверждения (finality).
//
// Возвращает:
// - TransactionProof, если транзакция найдена и подтверждена
// - ErrTransactionNotFound, если транзакция еще не появилась (ожидаемо при поллинге)
// - ErrLedgerUnavailable при недоступности узла (retryable)
func (c *Client) FindTransactionByReference(ctx context.Context, reference string, finality string) (*TransactionProof, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "findTransferByReference",
		Params:  []interface{}{reference, finalityParams{Finality: finality}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInvalidResponse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrLedgerUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Ledger RPC unreachable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Ledger RPC returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrLedgerUnavailable, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if rpcResp.Error != nil {
		// Узел отвечает, но не может выполнить запрос - считаем недоступностью
		return nil, fmt.Errorf("%w: rpc error %d: %s", ErrLedgerUnavailable, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	// result = null означает, что транзакция с этим reference еще не видна в леджере
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return nil, ErrTransactionNotFound
	}

	var proof TransactionProof
	if err := json.Unmarshal(rpcResp.Result, &proof); err != nil {
		return nil, fmt.Errorf("%w: failed to decode proof: %v", ErrInvalidResponse, err)
	}

	if proof.Signature == "" {
		return nil, fmt.Errorf("%w: proof without signature", ErrInvalidResponse)
	}

	return &proof, nil
}

// ValidateTransfer проверяет, что найденная транзакция соответствует ожиданиям:
// получатель, сумма и reference совпадают. Чистая функция, сеть не трогает.
func (c *Client) ValidateTransfer(proof *TransactionProof, recipient string, amount float64, reference string) error {
	if proof.Reference != reference {
		return fmt.Errorf("%w: got %q, want %q", ErrReferenceMismatch, proof.Reference, reference)
	}
	if proof.Recipient != recipient {
		return fmt.Errorf("%w: got %q, want %q", ErrRecipientMismatch, proof.Recipient, recipient)
	}
	if math.Abs(proof.Amount-amount) > amountEpsilon {
		return fmt.Errorf("%w: got %v, want %v", ErrAmountMismatch, proof.Amount, amount)
	}
	return nil
}
