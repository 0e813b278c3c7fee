package costing

import "github.com/costeopro/costeo-api/internal/domain"

// Mensajes que ven los usuarios finales en el formulario de ítem. El texto es
// contrato con los clientes existentes; no cambiar ni traducir.
const (
	MsgDiscountEditNotAllowed       = "Discount Percentage can only be edited when Calculation Method is set to Discount from List Price."
	MsgUnitPriceRequired            = "Unit Price must be specified before setting a Discount Percentage."
	MsgDiscountOutOfRange           = "Discount Percentage must be between 0 and 100."
	MsgCommercialCostEditNotAllowed = "Commercial Cost can only be edited when Calculation Method is set to Manually Specified."
)

// Error error del motor de costeo: lleva la clase de la taxonomía de dominio
// y el mensaje exacto para el usuario. errors.Is reconoce tanto el error
// concreto como su clase (domain.ErrValidation, ErrInvalidState, ErrOutOfRange).
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap expone la clase del error para errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// Errores concretos de las operaciones del motor.
var (
	// ErrDiscountEditNotAllowed editar el descuento fuera del método de descuento.
	ErrDiscountEditNotAllowed = &Error{kind: domain.ErrInvalidState, msg: MsgDiscountEditNotAllowed}
	// ErrUnitPriceRequired el método de descuento exige precio de lista distinto de 0.
	ErrUnitPriceRequired = &Error{kind: domain.ErrValidation, msg: MsgUnitPriceRequired}
	// ErrDiscountOutOfRange descuento fuera de [0,100].
	ErrDiscountOutOfRange = &Error{kind: domain.ErrOutOfRange, msg: MsgDiscountOutOfRange}
	// ErrCommercialCostEditNotAllowed fijar el costo comercial fuera del método manual.
	ErrCommercialCostEditNotAllowed = &Error{kind: domain.ErrInvalidState, msg: MsgCommercialCostEditNotAllowed}
)
