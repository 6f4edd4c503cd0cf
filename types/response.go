package types

import "encoding/json"

// Envelope wraps one record under its singular key, e.g. {"product": {...}}.
type Envelope struct {
	Key    string
	Record any
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{e.Key: e.Record})
}

// ListEnvelope wraps a page of records under the plural key together with the
// pagination metadata, e.g. {"products": [...], "count": 42, "offset": 0, "limit": 10}.
type ListEnvelope struct {
	Key    string
	Items  []any
	Count  int64
	Offset int
	Limit  int
}

func (e ListEnvelope) MarshalJSON() ([]byte, error) {
	items := e.Items
	if items == nil {
		items = []any{}
	}
	return json.Marshal(map[string]any{
		e.Key:    items,
		"count":  e.Count,
		"offset": e.Offset,
		"limit":  e.Limit,
	})
}

// DeleteEnvelope confirms a removal.
type DeleteEnvelope struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// MessageResponse is used by informational endpoints such as GET /.
type MessageResponse struct {
	Message string `json:"message"`
}
