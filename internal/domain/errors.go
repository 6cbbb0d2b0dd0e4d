package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStorage            = errors.New("fallo de almacenamiento")
)

// ValidationError detalla qué campo de la entrada es inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError rechazo de una salida que dejaría el saldo negativo.
// Lleva lo necesario para mostrar el faltante exacto al usuario.
type InsufficientStockError struct {
	Requested int64
	Current   int64
	Candidate int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: solicitado %d, disponible %d, resultado %d",
		ErrInsufficientStock.Error(), e.Requested, e.Current, e.Candidate)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Shortfall unidades que faltan para poder despachar lo solicitado.
func (e *InsufficientStockError) Shortfall() int64 {
	if e.Candidate >= 0 {
		return 0
	}
	return -e.Candidate
}

// StorageError envuelve un fallo de la capa de persistencia (transacción abortada, timeout, BD caída).
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return ErrStorage.Error()
	}
	return ErrStorage.Error() + ": " + e.Err.Error()
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage envuelve err como StorageError salvo que ya sea un error de dominio conocido.
func Storage(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &StorageError{Err: err}
}

// IsDomainError indica si err pertenece a la taxonomía de dominio (no a la infraestructura).
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput, ErrNotFound, ErrInsufficientStock, ErrDuplicate,
		ErrUnauthorized, ErrUserNotFound, ErrEmailAlreadyExists, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
