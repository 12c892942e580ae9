package catalog

// Product is a sellable catalog record keyed by SKU.
type Product struct {
	SKU         string   `json:"sku" db:"sku"`
	Name        string   `json:"name" db:"name"`
	Color       string   `json:"color" db:"color"`
	Material    string   `json:"material" db:"material"`
	Price       float64  `json:"price" db:"price"`
	Stock       int      `json:"stock" db:"stock"`
	SustainTags []string `json:"sustainTags" db:"-"`
}

// HasSustainTags reports whether the product carries at least one sustainability tag.
func (p Product) HasSustainTags() bool {
	return len(p.SustainTags) > 0
}

// StockTier is the three-way availability classification.
type StockTier string

const (
	TierAvailable  StockTier = "available"
	TierLowStock   StockTier = "low_stock"
	TierOutOfStock StockTier = "out_of_stock"
)

// LowStockThreshold is the first stock level reported as available.
const LowStockThreshold = 5

// TierFor classifies a raw stock count.
func TierFor(stock int) StockTier {
	switch {
	case stock <= 0:
		return TierOutOfStock
	case stock < LowStockThreshold:
		return TierLowStock
	default:
		return TierAvailable
	}
}

// StockStatus is derived on every query and never stored.
type StockStatus struct {
	Available bool      `json:"available"`
	Stock     int       `json:"stock"`
	Status    StockTier `json:"status"`
}

// StatusFor builds the StockStatus for a stock count.
func StatusFor(stock int) StockStatus {
	if stock < 0 {
		stock = 0
	}
	tier := TierFor(stock)
	return StockStatus{
		Available: tier != TierOutOfStock,
		Stock:     stock,
		Status:    tier,
	}
}

// Seed provides the default fashion catalog.
func Seed() []Product {
	return []Product{
		{SKU: "JKT-001", Name: "Classic Leather Biker Jacket", Color: "Black", Material: "Leather", Price: 320, Stock: 8, SustainTags: []string{"vegetable-tanned"}},
		{SKU: "JKT-002", Name: "Cropped Leather Jacket", Color: "Black", Material: "Leather", Price: 295, Stock: 3, SustainTags: []string{"recycled-lining"}},
		{SKU: "JKT-003", Name: "Suede Trucker Jacket", Color: "Tan", Material: "Suede", Price: 260, Stock: 0},
		{SKU: "KNT-001", Name: "Chunky Wool Sweater", Color: "Cream", Material: "Wool", Price: 140, Stock: 12, SustainTags: []string{"responsibly-sourced"}},
		{SKU: "KNT-002", Name: "Merino Crew Sweater", Color: "Navy", Material: "Wool", Price: 120, Stock: 4},
		{SKU: "KNT-003", Name: "Cashmere Turtleneck", Color: "Cream", Material: "Cashmere", Price: 210, Stock: 6, SustainTags: []string{"traceable"}},
		{SKU: "DRS-001", Name: "Silk Slip Dress", Color: "Emerald", Material: "Silk", Price: 180, Stock: 5},
		{SKU: "DRS-002", Name: "Linen Midi Dress", Color: "White", Material: "Linen", Price: 150, Stock: 9, SustainTags: []string{"organic", "low-impact-dye"}},
		{SKU: "TRS-001", Name: "Wide Leg Trousers", Color: "Black", Material: "Wool", Price: 130, Stock: 7},
		{SKU: "TRS-002", Name: "Organic Cotton Chinos", Color: "Tan", Material: "Cotton", Price: 95, Stock: 2, SustainTags: []string{"organic"}},
		{SKU: "BTS-001", Name: "Chelsea Boots", Color: "Black", Material: "Leather", Price: 240, Stock: 0, SustainTags: []string{"resoleable"}},
		{SKU: "BAG-001", Name: "Canvas Tote", Color: "Natural", Material: "Cotton", Price: 45, Stock: 20, SustainTags: []string{"recycled"}},
	}
}
