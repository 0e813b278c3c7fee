package entity

// CalcMethod método de cálculo del costo comercial de un ítem.
// Es extensible: integradores pueden registrar métodos propios en el motor de
// costeo; un valor no registrado deja el costo sin cambios.
type CalcMethod string

// Métodos de cálculo incorporados.
const (
	CalcMethodBlank                 CalcMethod = ""                         // máx(costo unitario, último costo directo)
	CalcMethodMaximumCost           CalcMethod = "maximum_cost"             // máx incluyendo precios de compra de proveedores
	CalcMethodLastDirectCost        CalcMethod = "last_direct_cost"         // último costo directo
	CalcMethodAverageCost           CalcMethod = "average_cost"             // costo unitario (promedio mantenido externamente)
	CalcMethodDiscountFromListPrice CalcMethod = "discount_from_list_price" // precio de lista menos descuento
	CalcMethodManuallySpecified     CalcMethod = "manually_specified"       // valor fijado a mano por el usuario
)

// builtinCalcMethods en orden de presentación.
var builtinCalcMethods = []CalcMethod{
	CalcMethodBlank,
	CalcMethodMaximumCost,
	CalcMethodLastDirectCost,
	CalcMethodAverageCost,
	CalcMethodDiscountFromListPrice,
	CalcMethodManuallySpecified,
}

// IsBuiltin indica si el método es uno de los seis incorporados.
// Un método desconocido no es inválido: el motor lo trata como no-op.
func (m CalcMethod) IsBuiltin() bool {
	for _, b := range builtinCalcMethods {
		if m == b {
			return true
		}
	}
	return false
}

// Description etiqueta legible para formularios y reportes.
func (m CalcMethod) Description() string {
	switch m {
	case CalcMethodBlank:
		return "Sin método (máximo entre costos propios)"
	case CalcMethodMaximumCost:
		return "Costo máximo (incluye precios de compra)"
	case CalcMethodLastDirectCost:
		return "Último costo directo"
	case CalcMethodAverageCost:
		return "Costo promedio"
	case CalcMethodDiscountFromListPrice:
		return "Descuento sobre precio de lista"
	case CalcMethodManuallySpecified:
		return "Especificado manualmente"
	default:
		return string(m)
	}
}

// BuiltinCalcMethods devuelve copia de los métodos incorporados.
func BuiltinCalcMethods() []CalcMethod {
	out := make([]CalcMethod, len(builtinCalcMethods))
	copy(out, builtinCalcMethods)
	return out
}
