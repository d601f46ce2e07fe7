package entity

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SubCategory struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
)

type Product struct {
	ID             string        `json:"id"`
	Barcode        string        `json:"barcode"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	CategoryID     string        `json:"category_id,omitempty"`
	UnitID         string        `json:"unit_id,omitempty"`
	SupplierID     string        `json:"supplier_id,omitempty"`
	StockWarehouse int           `json:"stock_warehouse"`
	StockShelf     int           `json:"stock_shelf"`
	StockMinLevel  int           `json:"stock_min_level"`
	PriceBuying    float64       `json:"price_buying"`
	PriceSelling   float64       `json:"price_selling"`
	PriceCurrency  string        `json:"price_currency"`
	VatRate        float64       `json:"vat_rate"`
	Status         ProductStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type Supplier struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	ContactPerson string        `json:"contact_person"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Address       string        `json:"address"`
	Status        ProductStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Unit struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ShortName string        `json:"short_name"`
	Type      string        `json:"type"`
	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type MovementType string

const (
	MovementIn       MovementType = "in"
	MovementOut      MovementType = "out"
	MovementTransfer MovementType = "transfer"
)

type StockMovement struct {
	ID          string        `json:"id"`
	Type        MovementType  `json:"type"`
	ProductID   string        `json:"product_id"`
	Quantity    float64       `json:"quantity"`
	UnitID      string        `json:"unit_id,omitempty"`
	Price       float64       `json:"price"`
	TotalPrice  float64       `json:"total_price"`
	Description string        `json:"description"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Update payloads carry only the fields that change; nil means "keep".

type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type ProductUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	CategoryID     *string  `json:"category_id,omitempty"`
	StockWarehouse *int     `json:"stock_warehouse,omitempty"`
	PriceSelling   *float64 `json:"price_selling,omitempty"`
}

type SupplierUpdate struct {
	Name          *string `json:"name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
}

type UnitUpdate struct {
	Name      *string `json:"name,omitempty"`
	ShortName *string `json:"short_name,omitempty"`
}
