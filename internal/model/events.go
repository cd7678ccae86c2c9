package model

// LeadSubmitted is emitted after a lead form passed validation and its admin
// deep link was built. It is published to Kafka topic catalog.leads.
type LeadSubmitted struct {
	ID        string            `json:"id"`
	Screen    string            `json:"screen"`
	Kind      string            `json:"kind"`
	Fields    map[string]string `json:"fields"`
	URL       string            `json:"url"`
	Timestamp string            `json:"timestamp"` // RFC3339Nano, UTC
}

// SnapshotMessage is the Kafka envelope of a full feed snapshot. The message
// key carries Path; Value is the JSON document (or JSON null).
type SnapshotMessage struct {
	Path  string
	Value []byte
}
