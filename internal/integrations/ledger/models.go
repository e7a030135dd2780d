package ledger

import "encoding/json"

// TransactionProof подтвержденная транзакция из леджера,
// найденная по reference на требуемой глубине подтверждения
type TransactionProof struct {
	Signature string  `json:"signature"` // Криптографическое доказательство
	Recipient string  `json:"recipient"` // Адрес получателя
	Amount    float64 `json:"amount"`    // Сумма в нативных единицах
	Reference string  `json:"reference"` // Корреляционный токен
	Slot      uint64  `json:"slot"`      // Позиция в леджере
	BlockTime *int64  `json:"blockTime"` // Unix-время блока (может отсутствовать)
}

// rpcRequest JSON-RPC 2.0 запрос
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcError ошибка JSON-RPC 2.0
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcResponse JSON-RPC 2.0 ответ
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// finalityParams параметры запроса с требуемой глубиной подтверждения
type finalityParams struct {
	Finality string `json:"finality"`
}
