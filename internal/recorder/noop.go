package recorder

// NoopRecorder is used when SQLite recording is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ *SignalEvaluation) error { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
