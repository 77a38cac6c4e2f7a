package model

// TxStatus is the execution outcome of a raw transaction.
type TxStatus string

const (
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
)

// TxRecord is the normalized representation of a raw transaction as fetched
// from a block explorer. To is empty for contract-creation transactions.
type TxRecord struct {
	Hash      string   `json:"hash"`
	Timestamp uint64   `json:"timestamp"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to"`
	Value     string   `json:"value"`
	Input     string   `json:"input"`
	Status    TxStatus `json:"status"`
}

// Failed reports whether the transaction reverted.
func (tx TxRecord) Failed() bool {
	return tx.Status != TxStatusSuccess
}

// IsContractCreation reports whether the transaction had no target address.
func (tx TxRecord) IsContractCreation() bool {
	return tx.To == ""
}
