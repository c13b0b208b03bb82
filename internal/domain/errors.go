package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrConcurrencyExhausted = errors.New("reintentos de concurrencia agotados")
	ErrArithmeticInvariant  = errors.New("invariante aritmética violada")
)

// InsufficientStockError indica que un consumo dejaría el saldo negativo.
// Nombra la pieza, el dueño y el faltante exacto para que el caller pueda actuar.
type InsufficientStockError struct {
	ItemID    string
	OwnerID   string
	Shortfall int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: pieza %s, dueño %s, faltante %d", e.ItemID, e.OwnerID, e.Shortfall)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError indica entrada malformada, rechazada antes de cualquier mutación.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entrada inválida: campo %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
