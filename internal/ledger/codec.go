package ledger

import (
	"encoding/json"
	"fmt"

	"fintrack/internal/core"
)

// Encode serializes the collection as a JSON array of transaction objects.
// An empty collection encodes as [] so a fresh store round-trips cleanly.
func Encode(txs []core.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return nil, fmt.Errorf("encode transactions: %w", err)
	}
	return data, nil
}

// Decode parses a serialized collection back into transaction records.
func Decode(data []byte) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}
