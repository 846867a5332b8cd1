package entity

import "time"

// Customer cliente registrado en el PDV (nombre y teléfono para WhatsApp).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
