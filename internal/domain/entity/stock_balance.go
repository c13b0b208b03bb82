package entity

import "time"

// StockBalance representa el saldo actual de una pieza en poder de un técnico
// (fila materializada; siempre reconstruible sumando los deltas de movimientos).
type StockBalance struct {
	OwnerID   string
	ItemID    string
	Quantity  int64 // nunca negativo tras un commit
	UpdatedAt time.Time
}
