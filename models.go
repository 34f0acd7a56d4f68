// models.go

package main

// Variant is one color/image option of a product. variants[0] is the
// default shown on the product card.
type Variant struct {
	Image string `json:"image"`
	Color string `json:"color"`
}

type Product struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Sizes       []string  `json:"sizes,omitempty"`
	Variants    []Variant `json:"variants"`
}

// LineItem is one distinct purchasable option (product + color + size)
// with a quantity. Size is nil for products without sizes; nil is a real
// variant value, not a missing field.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"img"`
	Color    string  `json:"color"`
	Size     *string `json:"size"`
	Quantity int     `json:"quantity"`
}

// SameOption reports whether the item has the identity key (id, color, size).
func (it LineItem) SameOption(id, color string, size *string) bool {
	if it.ID != id || it.Color != color {
		return false
	}
	if it.Size == nil || size == nil {
		return it.Size == nil && size == nil
	}
	return *it.Size == *size
}

type UserInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	State   string `json:"state"`
}

// CheckoutSnapshot is the frozen copy of cart + customer data taken when
// checkout starts. It is persisted under its own key and does not track
// later changes to the live cart.
type CheckoutSnapshot struct {
	OrderID int        `json:"orderId"`
	User    UserInfo   `json:"user"`
	Items   []LineItem `json:"items"`
}

// OrderSummary is derived from a snapshot on demand and never stored.
type OrderSummary struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	Message     string  `json:"message"`
	WhatsAppURL string  `json:"whatsappUrl"`
}
