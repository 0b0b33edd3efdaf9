package models

import (
	"fmt"
	"strconv"
)

// Shoe is one inventory line of the warehouse file.
type Shoe struct {
	Country  string
	Code     string
	Product  string
	Cost     float64
	Quantity int
	// CostText keeps the cost exactly as read or typed so it serializes unchanged.
	CostText string
}

// CostString returns the textual cost used when the record is written back.
func (s Shoe) CostString() string {
	if s.CostText != "" {
		return s.CostText
	}
	return strconv.FormatFloat(s.Cost, 'f', -1, 64)
}

// Value returns cost multiplied by quantity.
func (s Shoe) Value() float64 {
	return s.Cost * float64(s.Quantity)
}

func (s Shoe) String() string {
	return fmt.Sprintf("Country: %s | Code: %s | Product: %s | Cost: %s | Quantity: %d",
		s.Country, s.Code, s.Product, s.CostString(), s.Quantity)
}
