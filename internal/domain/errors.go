package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Usar con errors.Is.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStoreAccess        = errors.New("fallo de acceso al almacenamiento")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// ValidationError describe qué campo de la entrada es inválido y por qué.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indica que el recurso referenciado no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError detalla la diferencia entre lo disponible y lo solicitado.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StoreAccessError envuelve un fallo del driver de persistencia.
// errors.Is(err, ErrStoreAccess) es verdadero y el error original sigue accesible con errors.As.
type StoreAccessError struct {
	Op  string
	Err error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreAccessError) Unwrap() []error { return []error{ErrStoreAccess, e.Err} }

var domainErrors = []error{
	ErrStoreAccess, ErrInsufficientStock, ErrNotFound, ErrValidation,
	ErrDuplicate, ErrEmailAlreadyExists, ErrUnauthorized, ErrForbidden,
}

// StoreError envuelve err en un StoreAccessError; devuelve nil si err es nil.
// Los errores de dominio ya tipados se devuelven sin cambios.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return &StoreAccessError{Op: op, Err: err}
}
