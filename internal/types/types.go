package types

// Bar is one OHLCV sample, ascending by Ts within a series.
type Bar struct {
	Ts                     int64
	Open, High, Low, Close float64
	Volume                 float64
}

// Snapshot holds the latest-bar value of every computed indicator.
// Recomputed per symbol per cycle, never cached across symbols.
type Snapshot struct {
	Close      float64
	SMA20      float64
	SMA50      float64
	EMA12      float64
	EMA26      float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	OBV        float64
	StochK     float64
	StochD     float64
	ADX        float64
}

type Action string

const (
	StrongBuy  Action = "STRONG_BUY"
	Buy        Action = "BUY"
	Hold       Action = "HOLD"
	Sell       Action = "SELL"
	StrongSell Action = "STRONG_SELL"
)

// Signal is the scored outcome for one (symbol, cycle). Immutable once produced.
type Signal struct {
	Action     Action   `json:"action"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Price      float64  `json:"price"`
	RSI        float64  `json:"rsi"`
	MACD       float64  `json:"macd"`
	ADX        float64  `json:"adx"`
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Position is owned by the execution provider; the bot only reads it
// and, on a stop-loss/take-profit breach, issues a closing order.
type Position struct {
	Symbol        string  `json:"symbol"`
	Qty           int     `json:"qty"`
	AvgEntryPrice float64 `json:"avg_entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	Side          string  `json:"side"`
}

// Account mirrors the execution provider's account view.
type Account struct {
	Cash           float64 `json:"cash"`
	BuyingPower    float64 `json:"buying_power"`
	PortfolioValue float64 `json:"portfolio_value"`
	Equity         float64 `json:"equity"`
	LastEquity     float64 `json:"last_equity"`
}

// OrderRequest describes one market order. Day time-in-force is implied;
// RequestedPrice is informational, the fill is at market.
type OrderRequest struct {
	Symbol         string
	Qty            int
	Side           Side
	RequestedPrice float64
}

// Order is terminal once Status is filled or rejected; no retry state.
type Order struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Qty            int     `json:"qty"`
	Side           Side    `json:"side"`
	RequestedPrice float64 `json:"requested_price"`
	Status         string  `json:"status"`
}

// StepResult summarizes one watchlist-symbol evaluation.
type StepResult struct {
	Symbol string  `json:"symbol"`
	Signal Signal  `json:"signal"`
	Orders []Order `json:"orders"`
	Reason string  `json:"reason"`
}
