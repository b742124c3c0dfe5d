package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invoice represents a scanned supplier invoice and its extraction metadata.
type Invoice struct {
	ID                uuid.UUID `db:"id" json:"id"`
	InvoiceNumber     string    `db:"invoice_number" json:"invoice_number"`
	SupplierName      string    `db:"supplier_name" json:"supplier_name"`
	DeclaredItemCount int       `db:"declared_item_count" json:"declared_item_count"`
	DeclaredTotalQty  int       `db:"declared_total_qty" json:"declared_total_qty"`
	ImageURI          string    `db:"image_uri" json:"image_uri"`
	ExtractionMode    string    `db:"extraction_mode" json:"extraction_mode"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceItem is a single recovered line item on an invoice. Quantity is
// always >= 0; users may correct name and quantity manually after extraction.
type InvoiceItem struct {
	ID           uuid.UUID `db:"id" json:"id"`
	InvoiceID    uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Name         string    `db:"name" json:"name"`
	Quantity     int       `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	UnitPrice    *float64  `db:"unit_price" json:"unit_price"`
	TotalPrice   *float64  `db:"total_price" json:"total_price"`
	LocationCode string    `db:"location_code" json:"location_code"`
	ExpiryHint   string    `db:"expiry_hint" json:"expiry_hint"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// BoxCount is one physically counted box tally recorded against an invoice.
// Written by the counting workflow; read-only to the comparator.
type BoxCount struct {
	ID        uuid.UUID `db:"id" json:"id"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"invoice_id"`
	ItemName  string    `db:"item_name" json:"item_name"`
	Count     int       `db:"count" json:"count"`
	ImageURI  string    `db:"image_uri" json:"image_uri"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
