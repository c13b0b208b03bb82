package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	appdispatch "github.com/tu-usuario/fieldservice-pro/internal/application/dispatch"
	"github.com/tu-usuario/fieldservice-pro/internal/application/inventory"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and dispatch.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ appdispatch.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del libro de
// inventario atados a la tx y hace Commit o Rollback. Las alertas de stock
// bajo quedan fuera: se escriben con el repo atado al pool después del
// commit, de modo que un INSERT de alerta fallido no aborte la transacción
// de la mutación.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.StockMovementRepository,
	partRepo repository.PartRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockBalanceRepository(tx),
		NewStockMovementRepository(tx),
		NewPartRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDispatch inicia una transacción con repos de despacho e inventario
// (para la creación de lotes: N líneas + hasta N consumos, todo o nada).
func (r *TxRunner) RunDispatch(ctx context.Context, fn func(
	lineRepo repository.DispatchLineRepository,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.StockMovementRepository,
	partRepo repository.PartRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewDispatchLineRepository(tx),
		NewStockBalanceRepository(tx),
		NewStockMovementRepository(tx),
		NewPartRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
