package models

type Cart struct {
	AccountID string     `json:"account_id"`
	Items     []CartItem `json:"items"`
}

type CartItem struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}
