package domain

// TradeSide identifies which side of a trade a broker stood on.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// TradeTick is one executed trade on the tape. Ticks are created by the
// ingestion collaborator and never mutated by the engine; a day's analysis
// is a pure function of its tick slice.
type TradeTick struct {
	Time       int64   `json:"time"` // Unix timestamp in seconds
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"` // lot size
	BuyerCode  string  `json:"buyer_code"`
	SellerCode string  `json:"seller_code"`
}

// Value returns the economic value of the trade.
func (t TradeTick) Value() float64 {
	return t.Price * t.Quantity
}

// Second returns the tick's timestamp truncated to second resolution.
func (t TradeTick) Second() int64 {
	return t.Time
}

// Minute returns the tick's timestamp truncated to minute resolution.
func (t TradeTick) Minute() int64 {
	return t.Time - t.Time%60
}
