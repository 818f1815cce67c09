package domain

// Outcome is the aggregate result of one checkout attempt.
type Outcome string

const (
	OutcomeOrderPlaced             Outcome = "ORDER_PLACED"
	OutcomeOrderPlacedWithWarnings Outcome = "ORDER_PLACED_WITH_WARNINGS"
	OutcomeOrderFailed             Outcome = "ORDER_FAILED"
)

// String representation (for logging)
func (o Outcome) String() string {
	return string(o)
}

// LineResult records what happened to a single cart line during checkout.
type LineResult struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

// Result exists only for the duration of one checkout attempt.
type Result struct {
	OrderID        string       `json:"order_id"`
	Outcome        Outcome      `json:"outcome"`
	ItemsProcessed int          `json:"items_processed"`
	ItemsFailed    int          `json:"items_failed"`
	Lines          []LineResult `json:"lines"`
	TotalAmount    float64      `json:"total_amount"`
	Currency       string       `json:"currency"`
}
