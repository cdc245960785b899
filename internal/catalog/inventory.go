// internal/catalog/inventory.go
package catalog

import (
	"strconv"
	"strings"
)

const (
	skuPrefix      = "724A4-EBR-EMBRO-A020-"
	barcodePrefix  = "9573381"
	defaultVariant = "Default"
	lastUpdated    = "Just now"
)

// Status is the sold-out classification of an availability and its label.
type Status struct {
	SoldOut bool   `json:"sold_out"`
	Label   string `json:"label"`
}

// Classify treats the marker and a zero count alike.
func Classify(a Availability) Status {
	if a.IsMarker() || a.Count() == 0 {
		return Status{SoldOut: true, Label: "Sold out"}
	}
	return Status{Label: strconv.Itoa(a.Count()) + " available"}
}

// InventoryBreakdown is the stock split shown in the product detail.
// Committed, Unavailable and Incoming stay zero until a stock system feeds them.
type InventoryBreakdown struct {
	OnHand      int `json:"on_hand"`
	Available   int `json:"available"`
	Committed   int `json:"committed"`
	Unavailable int `json:"unavailable"`
	Incoming    int `json:"incoming"`
}

// ExpandInventory derives the breakdown from the raw availability.
func ExpandInventory(p Product) InventoryBreakdown {
	n := p.Availability.Count()
	return InventoryBreakdown{
		OnHand:    n,
		Available: n,
	}
}

// ProductDetail is the expanded view of a product opened in the detail overlay.
type ProductDetail struct {
	Product
	Variant     string             `json:"variant"`
	SKU         string             `json:"sku"`
	Barcode     string             `json:"barcode"`
	Inventory   InventoryBreakdown `json:"inventory"`
	LastUpdated string             `json:"last_updated"`
}

// NewDetail builds the detail of p. The result depends on p only.
func NewDetail(p Product) ProductDetail {
	return ProductDetail{
		Product:     p,
		Variant:     variantOf(p.Name),
		SKU:         skuPrefix + padID(p.ID, 2),
		Barcode:     barcodePrefix + p.ID,
		Inventory:   ExpandInventory(p),
		LastUpdated: lastUpdated,
	}
}

func variantOf(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return defaultVariant
	}
	return tokens[len(tokens)-1]
}

// padID left-pads id with zeros up to width characters.
func padID(id string, width int) string {
	if len(id) >= width {
		return id
	}
	return strings.Repeat("0", width-len(id)) + id
}
