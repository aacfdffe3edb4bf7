package amqp

import (
	"encoding/json"
	"time"
)

const (
	ChangeCreated = "created"
	ChangeDeleted = "deleted"
)

// LedgerChangeMessage tells the export worker that the transaction set
// changed. It carries only the transaction id, the kind of change and the
// affected reporting month; the worker reloads the snapshot from storage
// and recomputes, so a stale or duplicated message is harmless.
type LedgerChangeMessage struct {
	TransactionID string    `json:"transaction_id"`
	Change        string    `json:"change"` // created | deleted
	Year          int       `json:"year"`   // 0 when the transaction is undated
	Month         int       `json:"month"`  // 1-12, 0 when undated
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage builds a change message for the given month.
// Pass year/month 0 for undated transactions.
func NewLedgerChangeMessage(transactionID, change string, year, month int) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		TransactionID: transactionID,
		Change:        change,
		Year:          year,
		Month:         month,
		Timestamp:     time.Now(),
	}
}

// Dated reports whether the message points at a reporting month.
func (m *LedgerChangeMessage) Dated() bool {
	return m.Year != 0 && m.Month >= 1 && m.Month <= 12
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON creates a message from JSON bytes
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
