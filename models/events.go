package models

import (
	"encoding/json"
	"errors"
)

// LedgerStream type is constant 'ledgerClosed' - https://xrpl.org/subscribe.html#ledger-stream
const LEDGER_STREAM_TYPE string = "ledgerClosed"

// Transaction stream messages carry type 'transaction' - https://xrpl.org/subscribe.html#transaction-streams
const TRANSACTION_STREAM_TYPE string = "transaction"

// Event is one inbound notification: TransactionEvent or LedgerClosed.
type Event interface {
	EventType() string
}

// TransactionEvent is a transaction seen on the transactions stream. Fee is
// the raw integer string from the wire.
type TransactionEvent struct {
	Fee  string
	Hash string
}

// LedgerClosed notifies that a ledger was validated. Its detail has to be
// fetched separately.
type LedgerClosed struct {
	Sequence uint32
}

func (TransactionEvent) EventType() string { return TRANSACTION_STREAM_TYPE }

func (LedgerClosed) EventType() string { return LEDGER_STREAM_TYPE }

// LedgerDetail is the part of a fetched ledger the monitor uses.
type LedgerDetail struct {
	Sequence   uint32
	TotalDrops string
}

// LedgerStream struct represents ledger object emitted by ledger stream
// Ref: https://xrpl.org/subscribe.html#ledger-stream
type LedgerStream struct {
	Type             string `json:"type,omitempty"`
	LedgerHash       string `json:"ledger_hash,omitempty"`
	ValidatedLedgers string `json:"validated_ledgers,omitempty"`
	FeeBase          uint64 `json:"fee_base,omitempty"`
	LedgerIndex      uint32 `json:"ledger_index,omitempty"`
	LedgerTime       uint32 `json:"ledger_time,omitempty"`
	TxnCount         uint32 `json:"txn_count,omitempty"`
}

func (ledger *LedgerStream) Validate() error {
	if ledger.Type != LEDGER_STREAM_TYPE {
		return errors.New("invalid LedgerStream object")
	}
	if ledger.LedgerIndex == 0 {
		return errors.New("invalid ledger_index")
	}
	return nil
}

type streamTx struct {
	Fee  string `json:"Fee"`
	Hash string `json:"hash,omitempty"`
}

// TransactionStream struct represents a message on the transactions stream.
// API v1 nests the transaction under 'transaction', v2 under 'tx_json' with
// the hash at top level.
type TransactionStream struct {
	Type        string    `json:"type,omitempty"`
	Validated   bool      `json:"validated,omitempty"`
	LedgerIndex uint32    `json:"ledger_index,omitempty"`
	Hash        string    `json:"hash,omitempty"`
	Transaction *streamTx `json:"transaction,omitempty"`
	TxJSON      *streamTx `json:"tx_json,omitempty"`
}

// ParseLedgerStream decodes a ledger stream message.
func ParseLedgerStream(message []byte) (LedgerClosed, error) {
	var ls LedgerStream
	if err := json.Unmarshal(message, &ls); err != nil {
		return LedgerClosed{}, &MalformedEventError{Field: "message", Value: string(message), Err: err}
	}
	if err := ls.Validate(); err != nil {
		return LedgerClosed{}, &MalformedEventError{Field: "ledger_index", Value: string(message), Err: err}
	}
	return LedgerClosed{Sequence: ls.LedgerIndex}, nil
}

// ParseTransactionStream decodes a transactions stream message. The fee is
// not validated here.
func ParseTransactionStream(message []byte) (TransactionEvent, error) {
	var ts TransactionStream
	if err := json.Unmarshal(message, &ts); err != nil {
		return TransactionEvent{}, &MalformedEventError{Field: "message", Value: string(message), Err: err}
	}
	if ts.Type != TRANSACTION_STREAM_TYPE {
		return TransactionEvent{}, &MalformedEventError{Field: "type", Value: ts.Type, Err: errors.New("invalid TransactionStream object")}
	}

	tx := ts.Transaction
	if tx == nil {
		tx = ts.TxJSON
	}
	if tx == nil {
		return TransactionEvent{}, &MalformedEventError{Field: "transaction", Value: string(message), Err: errors.New("missing transaction body")}
	}

	hash := tx.Hash
	if hash == "" {
		hash = ts.Hash
	}
	return TransactionEvent{Fee: tx.Fee, Hash: hash}, nil
}
