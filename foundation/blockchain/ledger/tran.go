package ledger

import (
	"encoding/json"
	"fmt"
)

// Address represents an account on the ledger. The zero value marks a
// transaction issued by the chain itself and serializes to JSON null.
type Address string

// MarshalJSON implements the json.Marshaler interface so a chain issued
// sender shows up as null on the wire.
func (a Address) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}

	return json.Marshal(string(a))
}

// UnmarshalJSON implements the json.Unmarshaler interface and accepts
// null for a chain issued sender.
func (a *Address) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*a = Address(s)
	return nil
}

// =============================================================================

// Tx represents a transfer of value between two parties.
type Tx struct {
	From   Address `json:"fromAddress"` // Account the value is coming from. Null when chain issued.
	To     Address `json:"toAddress"`   // Account receiving the value.
	Amount uint64  `json:"amount"`      // Value being transferred.
}

// NewTx constructs a transaction between two parties.
func NewTx(from Address, to Address, amount uint64) Tx {
	return Tx{
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewSystemTx constructs a transaction issued by the chain itself, such as
// a mining reward. It carries no sender.
func NewSystemTx(to Address, amount uint64) Tx {
	return Tx{
		To:     to,
		Amount: amount,
	}
}

// SystemIssued reports whether the chain itself issued the transaction.
func (tx Tx) SystemIssued() bool {
	return tx.From == ""
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := string(tx.From)
	if tx.SystemIssued() {
		from = "<system>"
	}

	return fmt.Sprintf("%s:%s:%d", from, tx.To, tx.Amount)
}
