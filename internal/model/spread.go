package model

import "time"

// CrushSpreadRecord is one date on which all three crush legs traded.
// Closes and Spread are in cents per bushel.
type CrushSpreadRecord struct {
	Date            time.Time `json:"date"`
	FeedstockClose  float64   `json:"feedstock_close"`
	ByproductAClose float64   `json:"byproduct_a_close"`
	ByproductBClose float64   `json:"byproduct_b_close"`
	Spread          float64   `json:"crush_spread"`
}
