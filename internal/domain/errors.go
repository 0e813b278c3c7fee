package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Taxonomía de errores del motor de costeo. Las operaciones de costing
// envuelven estos centinelas, así errors.Is clasifica sin importar el mensaje
// concreto que ve el usuario.
var (
	// ErrValidation una precondición de negocio no se cumple (ej. falta el precio unitario).
	ErrValidation = errors.New("validación de negocio fallida")
	// ErrInvalidState la edición se intenta fuera del modo que la permite.
	ErrInvalidState = errors.New("edición no permitida en el estado actual")
	// ErrOutOfRange un valor numérico está fuera de su dominio declarado.
	ErrOutOfRange = errors.New("valor fuera de rango")
)
