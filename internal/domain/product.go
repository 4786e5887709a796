package domain

// Product is a catalog entry. Values read from storage are untrusted until
// they pass validation.ValidateProduct.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Volume      string  `json:"volume"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}
