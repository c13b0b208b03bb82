package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de violación de constraint único. Cubre también los índices
// únicos parciales, como el de alertas no leídas (uq_stock_alerts_unread).
const uniqueViolationCode = "23505"

// isUniqueViolation verifica si un error proviene de una violación de
// constraint o índice único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
