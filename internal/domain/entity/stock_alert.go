package entity

import "time"

// StockAlert representa una alerta de stock bajo para un par (técnico, pieza).
// Idempotente: mientras exista una alerta no leída para el par, no se crea otra.
type StockAlert struct {
	ID        string
	OwnerID   string
	ItemID    string
	Quantity  int64 // saldo al momento de disparar la alerta
	Read      bool
	CreatedAt time.Time
}
