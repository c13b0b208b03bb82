package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/fieldservice-pro/internal/application/inventory"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/entity"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/money"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/repository"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. El txRunner falso clona
// el estado al iniciar y lo restaura si fn falla, emulando Commit/Rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	balances  map[string]entity.StockBalance
	movements []entity.StockMovement
	parts     map[string]entity.Part
	alerts    []entity.StockAlert
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[string]entity.StockBalance),
		parts:    make(map[string]entity.Part),
	}
}

func balanceKey(ownerID, itemID string) string { return ownerID + "|" + itemID }

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := newMemStore()
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.parts {
		snap.parts[k] = v
	}
	snap.movements = append([]entity.StockMovement(nil), s.movements...)
	snap.alerts = append([]entity.StockAlert(nil), s.alerts...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = snap.balances
	s.parts = snap.parts
	s.movements = snap.movements
	s.alerts = snap.alerts
}

type fakeBalanceRepo struct{ s *memStore }

func (r *fakeBalanceRepo) Get(_ context.Context, ownerID, itemID string) (*entity.StockBalance, error) {
	return r.GetForUpdate(context.Background(), ownerID, itemID)
}

func (r *fakeBalanceRepo) GetForUpdate(_ context.Context, ownerID, itemID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[balanceKey(ownerID, itemID)]; ok {
		copia := b
		return &copia, nil
	}
	return nil, nil
}

func (r *fakeBalanceRepo) Insert(_ context.Context, balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := balanceKey(balance.OwnerID, balance.ItemID)
	if _, ok := r.s.balances[k]; ok {
		return domain.ErrDuplicate
	}
	r.s.balances[k] = *balance
	return nil
}

func (r *fakeBalanceRepo) Update(_ context.Context, balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := balanceKey(balance.OwnerID, balance.ItemID)
	if _, ok := r.s.balances[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.balances[k] = *balance
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			copia := r.s.movements[i]
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) SumDeltas(_ context.Context, ownerID, itemID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.OwnerID == ownerID && m.ItemID == itemID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) ListByItem(_ context.Context, itemID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := range r.s.movements {
		if r.s.movements[i].ItemID == itemID {
			copia := r.s.movements[i]
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByOwner(_ context.Context, ownerID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := range r.s.movements {
		if r.s.movements[i].OwnerID == ownerID {
			copia := r.s.movements[i]
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakePartRepo struct{ s *memStore }

func (r *fakePartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.parts[id]; ok {
		copia := p
		return &copia, nil
	}
	return nil, nil
}

func (r *fakePartRepo) UpdateCost(_ context.Context, partID string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parts[partID]
	if !ok {
		return domain.ErrNotFound
	}
	p.UnitCost = cost
	r.s.parts[partID] = p
	return nil
}

type fakeAlertRepo struct {
	s       *memStore
	failErr error // si no es nil, CreateIfAbsent falla (para probar el canal lateral)
}

func (r *fakeAlertRepo) CreateIfAbsent(_ context.Context, alert *entity.StockAlert) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if !a.Read && a.OwnerID == alert.OwnerID && a.ItemID == alert.ItemID {
			return nil // ya hay una alerta no leída para el par: descartar
		}
	}
	r.s.alerts = append(r.s.alerts, *alert)
	return nil
}

func (r *fakeAlertRepo) ListUnreadByOwner(_ context.Context, ownerID string) ([]*entity.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockAlert
	for i := range r.s.alerts {
		if r.s.alerts[i].OwnerID == ownerID && !r.s.alerts[i].Read {
			copia := r.s.alerts[i]
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.alerts {
		if r.s.alerts[i].ID == id {
			r.s.alerts[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTxRunner emula la atomicidad: clona el estado antes de fn y lo restaura
// si fn retorna error. Los repos son campos para que un test pueda inyectar
// variantes (ej: simular la carrera de creación). inTx marca cuándo hay una
// transacción abierta, para verificar qué escrituras ocurren dentro de ella.
type fakeTxRunner struct {
	s           *memStore
	balanceRepo repository.StockBalanceRepository
	movRepo     repository.StockMovementRepository
	partRepo    repository.PartRepository
	inTx        bool
}

func newFakeTxRunner(s *memStore) *fakeTxRunner {
	return &fakeTxRunner{
		s:           s,
		balanceRepo: &fakeBalanceRepo{s: s},
		movRepo:     &fakeMovementRepo{s: s},
		partRepo:    &fakePartRepo{s: s},
	}
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.StockMovementRepository,
	partRepo repository.PartRepository,
) error) error {
	snap := r.s.snapshot()
	r.inTx = true
	defer func() { r.inTx = false }()
	if err := fn(r.balanceRepo, r.movRepo, r.partRepo); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOwner = "tech-1"
	testItem  = "part-filtro"
	testActor = "user-admin"
)

func seedPart(s *memStore, reorderPoint int64) {
	s.parts[testItem] = entity.Part{
		ID:           testItem,
		SKU:          "FIL-001",
		Name:         "Filtro de agua",
		UnitCost:     money.MustParse("5.00"),
		UnitPrice:    money.MustParse("12.00"),
		ReorderPoint: reorderPoint,
	}
}

func newLedger(s *memStore, runner inventory.TxRunner) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(runner, &fakeAlertRepo{s: s}, 0, logger.Nop())
}

func balanceOf(t *testing.T, s *memStore) int64 {
	t.Helper()
	b, ok := s.balances[balanceKey(testOwner, testItem)]
	if !ok {
		return 0
	}
	return b.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones básicas
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferIn_CreaSaldoYMovimiento(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))

	err := uc.TransferIn(context.Background(), inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 10, Actor: testActor,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), balanceOf(t, s))
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementKindINBOUND, s.movements[0].Kind)
	assert.Equal(t, int64(10), s.movements[0].Quantity)
	assert.Equal(t, testActor, s.movements[0].CreatedBy)
}

func TestTransferIn_ActualizaCostoPromedioPonderado(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	// 10 unidades al costo maestro actual (5.00), sin costo de adquisición
	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 10, Actor: testActor,
	}))
	// 10 unidades más a 7.00 → promedio (10*5 + 10*7)/20 = 6.00
	cost := money.MustParse("7.00")
	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 10, Actor: testActor,
		UnitAcquisitionCost: &cost,
	}))

	assert.Equal(t, "6.00", money.Format(s.parts[testItem].UnitCost))
	// El snapshot del movimiento guarda el costo de adquisición de esa entrada.
	require.Len(t, s.movements, 2)
	assert.Equal(t, "7.00", money.Format(s.movements[1].UnitCostSnapshot))
}

func TestConsume_DescuentaYEnlazaDespacho(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 5, Actor: testActor,
	}))

	lineID := "line-42"
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 2, Actor: testActor,
		LinkedDispatchID: &lineID,
	}))

	assert.Equal(t, int64(3), balanceOf(t, s))
	last := s.movements[len(s.movements)-1]
	assert.Equal(t, entity.MovementKindCONSUMPTION, last.Kind)
	assert.Equal(t, int64(-2), last.Quantity)
	require.NotNil(t, last.LinkedDispatchID)
	assert.Equal(t, lineID, *last.LinkedDispatchID)
}

func TestConsume_StockInsuficienteNoMutaNada(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 2, Actor: testActor,
	}))

	err := uc.Consume(ctx, inventory.ConsumeInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 5, Actor: testActor,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, testItem, stockErr.ItemID)
	assert.Equal(t, testOwner, stockErr.OwnerID)
	assert.Equal(t, int64(3), stockErr.Shortfall, "el faltante debe ser exacto")

	// Rollback: sin consumo parcial ni movimiento fantasma.
	assert.Equal(t, int64(2), balanceOf(t, s))
	assert.Len(t, s.movements, 1)
}

func TestReturnToSource_MismaGuarda(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 3, Actor: testActor,
	}))
	require.NoError(t, uc.ReturnToSource(ctx, inventory.ConsumeInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 3, Actor: testActor,
	}))
	assert.Equal(t, int64(0), balanceOf(t, s))

	err := uc.ReturnToSource(ctx, inventory.ConsumeInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAdjustTo_DeltaSegunSigno(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	// Ajuste sobre saldo inexistente crea la fila.
	require.NoError(t, uc.AdjustTo(ctx, inventory.AdjustInput{
		OwnerID: testOwner, ItemID: testItem, NewQuantity: 7, Actor: testActor,
	}))
	assert.Equal(t, int64(7), balanceOf(t, s))

	// Ajuste hacia abajo.
	require.NoError(t, uc.AdjustTo(ctx, inventory.AdjustInput{
		OwnerID: testOwner, ItemID: testItem, NewQuantity: 4, Actor: testActor,
	}))
	assert.Equal(t, int64(4), balanceOf(t, s))
	last := s.movements[len(s.movements)-1]
	assert.Equal(t, entity.MovementKindADJUSTMENT, last.Kind)
	assert.Equal(t, int64(-3), last.Quantity)

	// Delta cero no escribe movimiento.
	antes := len(s.movements)
	require.NoError(t, uc.AdjustTo(ctx, inventory.AdjustInput{
		OwnerID: testOwner, ItemID: testItem, NewQuantity: 4, Actor: testActor,
	}))
	assert.Len(t, s.movements, antes)

	// Cantidad negativa rechazada antes de mutar.
	err := uc.AdjustTo(ctx, inventory.AdjustInput{
		OwnerID: testOwner, ItemID: testItem, NewQuantity: -1, Actor: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Invariante: tras cualquier secuencia comprometida, el saldo materializado
// es igual a la suma de los deltas de movimientos del par.
func TestInvariante_SaldoIgualSumaDeltas(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	runner := newFakeTxRunner(s)
	uc := newLedger(s, runner)
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{OwnerID: testOwner, ItemID: testItem, Quantity: 10, Actor: testActor}))
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 3, Actor: testActor}))
	require.NoError(t, uc.ReturnToSource(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 2, Actor: testActor}))
	require.NoError(t, uc.AdjustTo(ctx, inventory.AdjustInput{OwnerID: testOwner, ItemID: testItem, NewQuantity: 4, Actor: testActor}))
	// Un intento fallido no debe romper la equivalencia.
	_ = uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 99, Actor: testActor})

	sum, err := runner.movRepo.SumDeltas(ctx, testOwner, testItem)
	require.NoError(t, err)
	assert.Equal(t, balanceOf(t, s), sum)
	assert.Equal(t, int64(4), sum)
	assert.GreaterOrEqual(t, balanceOf(t, s), int64(0))
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrera de creación de la fila de saldo
// ──────────────────────────────────────────────────────────────────────────────

// racingBalanceRepo simula perder la carrera de creación una vez: el primer
// Insert falla con ErrDuplicate dejando la fila del ganador (cantidad 5);
// la re-lectura bajo lock debe encontrarla y aplicar el delta como update.
type racingBalanceRepo struct {
	*fakeBalanceRepo
	raced bool
}

func (r *racingBalanceRepo) Insert(ctx context.Context, balance *entity.StockBalance) error {
	if !r.raced {
		r.raced = true
		r.s.mu.Lock()
		r.s.balances[balanceKey(balance.OwnerID, balance.ItemID)] = entity.StockBalance{
			OwnerID: balance.OwnerID, ItemID: balance.ItemID, Quantity: 5, UpdatedAt: balance.UpdatedAt,
		}
		r.s.mu.Unlock()
		return domain.ErrDuplicate
	}
	return r.fakeBalanceRepo.Insert(ctx, balance)
}

func TestCarreraCreacion_AplicaDeltaExactamenteUnaVez(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	runner := newFakeTxRunner(s)
	runner.balanceRepo = &racingBalanceRepo{fakeBalanceRepo: &fakeBalanceRepo{s: s}}
	uc := newLedger(s, runner)

	err := uc.TransferIn(context.Background(), inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 3, Actor: testActor,
	})
	require.NoError(t, err)

	// 5 del ganador + 3 del perdedor reintentado: ni cero ni dos veces.
	assert.Equal(t, int64(8), balanceOf(t, s))
	require.Len(t, s.movements, 1)
	assert.Equal(t, int64(3), s.movements[0].Quantity)
}

// exhaustedBalanceRepo simula contención extrema: la fila nunca aparece y
// todo insert pierde. El reintento acotado debe rendirse con
// ErrConcurrencyExhausted.
type exhaustedBalanceRepo struct {
	inserts int
}

func (r *exhaustedBalanceRepo) Get(context.Context, string, string) (*entity.StockBalance, error) {
	return nil, nil
}
func (r *exhaustedBalanceRepo) GetForUpdate(context.Context, string, string) (*entity.StockBalance, error) {
	return nil, nil
}
func (r *exhaustedBalanceRepo) Insert(context.Context, *entity.StockBalance) error {
	r.inserts++
	return domain.ErrDuplicate
}
func (r *exhaustedBalanceRepo) Update(context.Context, *entity.StockBalance) error {
	return domain.ErrNotFound
}

func TestCarreraCreacion_ReintentosAgotados(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	runner := newFakeTxRunner(s)
	exhausted := &exhaustedBalanceRepo{}
	runner.balanceRepo = exhausted
	uc := newLedger(s, runner)

	err := uc.TransferIn(context.Background(), inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyExhausted)
	assert.Equal(t, 3, exhausted.inserts, "el reintento está acotado a 3 intentos")
	// Rollback total: ningún movimiento quedó escrito.
	assert.Empty(t, s.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas de stock bajo
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertaStockBajo_Idempotente(t *testing.T) {
	s := newMemStore()
	seedPart(s, 2) // punto de reorden 2
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 4, Actor: testActor,
	}))

	// 4 → 3: sobre el umbral, sin alerta.
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor}))
	assert.Empty(t, s.alerts)

	// 3 → 2: en el umbral, alerta.
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor}))
	assert.Len(t, s.alerts, 1)

	// 2 → 1: sigue bajo el umbral pero ya hay alerta no leída: no duplicar.
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor}))
	assert.Len(t, s.alerts, 1)
}

func TestAlertaStockBajo_FalloNoAfectaLaMutacion(t *testing.T) {
	s := newMemStore()
	seedPart(s, 2)
	alerts := &fakeAlertRepo{s: s, failErr: errors.New("canal de alertas caído")}
	uc := inventory.NewLedgerUseCase(newFakeTxRunner(s), alerts, 0, logger.Nop())
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 2, Actor: testActor,
	}))
	// El consumo cruza el umbral, la alerta falla y la operación igual compromete.
	err := uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor})
	require.NoError(t, err)
	assert.Equal(t, int64(1), balanceOf(t, s))
	assert.Len(t, s.movements, 2, "el movimiento del consumo quedó comprometido")
}

// trackingAlertRepo registra si alguna escritura de alerta ocurrió con la
// transacción de la mutación abierta.
type trackingAlertRepo struct {
	*fakeAlertRepo
	runner  *fakeTxRunner
	sawInTx bool
}

func (r *trackingAlertRepo) CreateIfAbsent(ctx context.Context, alert *entity.StockAlert) error {
	if r.runner.inTx {
		r.sawInTx = true
	}
	return r.fakeAlertRepo.CreateIfAbsent(ctx, alert)
}

// En PostgreSQL una sentencia fallida deja la transacción abortada y el
// commit posterior falla aunque el error se haya descartado. La alerta debe
// escribirse después del commit de la mutación, nunca dentro de su transacción.
func TestAlertaStockBajo_SeEmiteDespuesDelCommit(t *testing.T) {
	s := newMemStore()
	seedPart(s, 2)
	runner := newFakeTxRunner(s)
	alerts := &trackingAlertRepo{fakeAlertRepo: &fakeAlertRepo{s: s}, runner: runner}
	uc := inventory.NewLedgerUseCase(runner, alerts, 0, logger.Nop())
	ctx := context.Background()

	require.NoError(t, uc.TransferIn(ctx, inventory.TransferInInput{
		OwnerID: testOwner, ItemID: testItem, Quantity: 3, Actor: testActor,
	}))
	require.NoError(t, uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 1, Actor: testActor}))

	require.Len(t, s.alerts, 1)
	assert.False(t, alerts.sawInTx, "la alerta se escribe con la transacción ya comprometida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestValidacion_RechazaAntesDeMutar(t *testing.T) {
	s := newMemStore()
	seedPart(s, 0)
	uc := newLedger(s, newFakeTxRunner(s))
	ctx := context.Background()

	casos := []error{
		uc.TransferIn(ctx, inventory.TransferInInput{OwnerID: "", ItemID: testItem, Quantity: 1}),
		uc.TransferIn(ctx, inventory.TransferInInput{OwnerID: testOwner, ItemID: "", Quantity: 1}),
		uc.TransferIn(ctx, inventory.TransferInInput{OwnerID: testOwner, ItemID: testItem, Quantity: 0}),
		uc.TransferIn(ctx, inventory.TransferInInput{OwnerID: testOwner, ItemID: testItem, Quantity: -4}),
		uc.Consume(ctx, inventory.ConsumeInput{OwnerID: testOwner, ItemID: testItem, Quantity: 0}),
	}
	for i, err := range casos {
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}
	assert.Empty(t, s.movements)
	assert.Empty(t, s.balances)
}
