package recorder

// SignalEvaluation is one scored watchlist evaluation, captured per
// (symbol, cycle) for offline analysis.
type SignalEvaluation struct {
	Symbol     string
	Action     string
	Confidence int
	Price      float64
	RSI        float64
	MACD       float64
	ADX        float64
	Reasons    string
}

// Recorder persists signal evaluations for later analysis.
type Recorder interface {
	RecordSignal(eval *SignalEvaluation) error
	Close() error
}
