package domain

// CartItem represents one distinct product held in a cart.
type CartItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Volume      string  `json:"volume"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Volume:      p.Volume,
		Description: p.Description,
		Image:       p.Image,
		Quantity:    quantity,
	}
}
