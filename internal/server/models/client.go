package models

// Client is a customer who can leave tire deposits at the shop.
// Barcode is optional and unique when present; Discount is a percentage
// in the 0–100 range applied at billing time.
type Client struct {
	ID       string
	Name     string
	Phone    string
	Email    string
	Notes    string
	Discount float64
	Barcode  *string
}
