package entity

import "github.com/shopspring/decimal"

// Charge cobro Pix dinámico creado en el proveedor de pagos. El proveedor es su dueño;
// aquí solo se crea y se consulta.
type Charge struct {
	ID          string
	Amount      decimal.Decimal
	Status      string // literal del proveedor (ATIVA, CONCLUIDA, RECEBIDA, ...)
	PixCode     string // copia e cola
	QRCodeImage string // URL o data URI de la imagen del QR
	ExternalRef string // identificacao enviada al crear
}
