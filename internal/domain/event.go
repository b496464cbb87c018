package domain

import "time"

// Prediction sources recorded on events.
const (
	SourceSingle = "single"
	SourceBatch  = "batch"
)

// PredictionEvent is the record published to the prediction event stream for
// every served row. It carries the same id, name and probabilities as the
// HTTP response.
type PredictionEvent struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source"`
	RowIndex  int    `json:"row_index"`
	Prediction
	PredictedAt time.Time `json:"predicted_at"`
}
