package model

// ParseError records a classification failure for a single record.
type ParseError struct {
	Pool     string `json:"pool"`
	TxHash   string `json:"tx_hash"`
	Topic0   string `json:"topic0,omitempty"`
	MethodID string `json:"method_id,omitempty"`
	Error    string `json:"error"`
}
