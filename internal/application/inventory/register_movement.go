package inventory

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const maxNoteLength = 500

// MovementConfig parámetros opcionales del motor de movimientos.
type MovementConfig struct {
	Timeout  time.Duration // plazo total de la unidad de trabajo; 0 = sin plazo propio
	Observer MovementObserver
}

// RegisterMovementUseCase es el único camino autorizado para cambiar el saldo de un producto.
// Lee el saldo con bloqueo de fila (SELECT FOR UPDATE), agrega el movimiento al kardex y
// escribe el nuevo saldo en la misma transacción.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	observer MovementObserver
	timeout  time.Duration
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, cfg MovementConfig) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		observer: cfg.Observer,
		timeout:  cfg.Timeout,
		now:      time.Now,
	}
}

// MovementInput entrada para registrar un movimiento. Las referencias opcionales ya vienen
// normalizadas (ver entity.ParseOptionalID).
type MovementInput struct {
	TenantID   string
	UserID     string
	ProductID  string
	Direction  entity.Direction
	Quantity   int64
	ReasonID   entity.OptionalID
	ClientID   entity.OptionalID
	SupplierID entity.OptionalID
	Note       string
}

// MovementResult movimiento confirmado y saldo resultante.
type MovementResult struct {
	Movement   *entity.Movement
	NewBalance int64
}

// RecordMovement valida la entrada, abre la transacción y aplica el movimiento.
// Errores: domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrInsufficientStock
// (*domain.InsufficientStockError) o domain.ErrStorage. En todos los casos el estado
// previo queda intacto.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	// Validar antes de tocar el almacenamiento
	if err := validateInput(input); err != nil {
		uc.observe(input.Direction, OutcomeInvalid)
		return nil, err
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		res, err := uc.RecordInTx(ctx, repos, input)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		err = domain.Storage(err)
		uc.observe(input.Direction, outcomeOf(err))
		return nil, err
	}
	uc.observe(input.Direction, OutcomeCommitted)
	return result, nil
}

// RecordInTx aplica el movimiento usando los repositorios de una transacción ya abierta por el caller
// (p. ej. alta de producto con stock inicial). No hace Commit: lo decide quien abrió la tx.
func (uc *RegisterMovementUseCase) RecordInTx(ctx context.Context, repos repository.TxRepos, input MovementInput) (*MovementResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Bloquea la fila del producto; también valida existencia y pertenencia al tenant
	current, err := repos.Balances.GetForUpdate(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return nil, err
	}

	reasonID, clientID, supplierID, err := resolveReferences(ctx, repos, input)
	if err != nil {
		return nil, err
	}

	candidate, err := inventory.Apply(current, input.Direction, input.Quantity)
	if err != nil {
		return nil, err
	}

	// Timestamp asignado con la fila ya bloqueada: respeta el orden de confirmación por producto
	now := uc.now().UTC()
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		TenantID:     input.TenantID,
		ProductID:    input.ProductID,
		Direction:    input.Direction,
		Quantity:     input.Quantity,
		Delta:        inventory.Delta(input.Direction, input.Quantity),
		BalanceAfter: candidate,
		ReasonID:     reasonID,
		ClientID:     clientID,
		SupplierID:   supplierID,
		Note:         strings.TrimSpace(input.Note),
		CreatedBy:    input.UserID,
		CreatedAt:    now,
	}
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	if err := repos.Balances.Set(ctx, input.TenantID, input.ProductID, candidate); err != nil {
		return nil, err
	}
	return &MovementResult{Movement: mov, NewBalance: candidate}, nil
}

func validateInput(input MovementInput) error {
	if err := inventory.ValidateMovement(input.Direction, input.Quantity); err != nil {
		return err
	}
	if strings.TrimSpace(input.TenantID) == "" {
		return domain.Invalid("tenant_id", "requerido")
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return domain.Invalid("product_id", "requerido")
	}
	if utf8.RuneCountInString(input.Note) > maxNoteLength {
		return domain.Invalid("notes", "máximo 500 caracteres")
	}
	return nil
}

// resolveReferences convierte en ausentes las referencias que no existen o son de otro tenant.
// El cliente sólo aplica a salidas y el proveedor sólo a entradas.
func resolveReferences(ctx context.Context, repos repository.TxRepos, input MovementInput) (reasonID, clientID, supplierID entity.OptionalID, err error) {
	var reason *entity.Reason
	if input.ReasonID.Valid() {
		reason, err = repos.Reasons.GetByID(ctx, input.TenantID, input.ReasonID.ID())
		if err != nil {
			return
		}
		if reason != nil {
			if reason.Direction != input.Direction {
				err = domain.Invalid("reason_id", "el motivo no aplica a este tipo de movimiento")
				return
			}
			reasonID = entity.SomeID(reason.ID)
		}
	}

	if input.Direction == entity.DirectionOUT && input.ClientID.Valid() {
		var client *entity.Client
		client, err = repos.Clients.GetByID(ctx, input.TenantID, input.ClientID.ID())
		if err != nil {
			return
		}
		if client != nil {
			clientID = entity.SomeID(client.ID)
		}
	}

	if input.Direction == entity.DirectionIN && input.SupplierID.Valid() {
		var supplier *entity.Supplier
		supplier, err = repos.Suppliers.GetByID(ctx, input.TenantID, input.SupplierID.ID())
		if err != nil {
			return
		}
		if supplier != nil {
			supplierID = entity.SomeID(supplier.ID)
		}
	}

	if reason != nil {
		if reason.RequiresClient && !clientID.Valid() {
			err = domain.Invalid("client_id", "el motivo requiere un cliente")
			return
		}
		if reason.RequiresSupplier && !supplierID.Valid() {
			err = domain.Invalid("supplier_id", "el motivo requiere un proveedor")
			return
		}
	}
	return
}

func (uc *RegisterMovementUseCase) observe(direction entity.Direction, outcome string) {
	if uc.observer != nil {
		uc.observer.ObserveMovement(direction, outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	default:
		return OutcomeStorageFailure
	}
}
