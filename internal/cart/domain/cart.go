package domain

import "time"

// Line is one product entry in a user's cart. StockCeiling mirrors the
// product's available stock at the time the line was created or last updated.
type Line struct {
	LineID       string    `bson:"line_id" json:"line_id"`
	ProductID    int64     `bson:"product_id" json:"product_id"`
	Name         string    `bson:"name" json:"name"`
	UnitPrice    float64   `bson:"unit_price" json:"unit_price"`
	ImageURL     string    `bson:"image_url" json:"image_url"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	StockCeiling int       `bson:"stock_ceiling" json:"stock_ceiling"`
	AddedAt      time.Time `bson:"added_at" json:"added_at"`
}

type Cart struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Lines     []Line    `bson:"lines" json:"lines"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Totals holds the derived cart aggregates.
type Totals struct {
	TotalPrice float64 `json:"total_price"`
	TotalItems int     `json:"total_items"`
}

// Totals derives the aggregates from the current line set. It is recomputed on
// every call, never cached.
func (c *Cart) Totals() Totals {
	var t Totals
	for _, l := range c.Lines {
		t.TotalPrice += l.UnitPrice * float64(l.Quantity)
		t.TotalItems += l.Quantity
	}
	return t
}

func (c *Cart) FindLine(lineID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) FindLineByProduct(productID int64) *Line {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
