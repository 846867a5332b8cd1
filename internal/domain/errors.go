package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUnknownPlan         = errors.New("plan desconocido")
	ErrEmptyCart           = errors.New("carrito vacío")
	ErrInsufficientPayment = errors.New("valor pago menor que el total")
	ErrInvalidPayment      = errors.New("forma de pago inválida")
	ErrNotConfigured       = errors.New("servicio no configurado")

	// ErrValidation falla de validación de un paso del asistente; bloquea la transición.
	ErrValidation = errors.New("validación")
	// ErrInvalidTransition acción no permitida en el paso actual.
	ErrInvalidTransition = errors.New("transición inválida")
	// ErrStore fallo del almacén remoto de registros; el estado no cambia.
	ErrStore = errors.New("error del almacén de registros")
	// ErrPaymentProvider fallo al crear o consultar un cobro.
	ErrPaymentProvider = errors.New("error del proveedor de pagos")
)
