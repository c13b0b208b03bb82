package dispatch

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
)

// DefaultHoursWorked horas asumidas cuando el encabezado no trae horario.
var DefaultHoursWorked = decimal.NewFromFloat(2.0)

const clockLayout = "15:04"

// ComputeHours calcula las horas trabajadas del lote a partir de las horas de
// inicio y fin en formato HH:MM. Si ambas vienen vacías usa el valor por
// defecto. Fin menor que inicio se interpreta como cruce de medianoche (+24h).
func ComputeHours(startTime, endTime string) (decimal.Decimal, error) {
	if startTime == "" && endTime == "" {
		return DefaultHoursWorked, nil
	}
	start, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "startTime", Reason: "hora inválida, se espera HH:MM"}
	}
	end, err := time.Parse(clockLayout, endTime)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "endTime", Reason: "hora inválida, se espera HH:MM"}
	}
	diff := end.Sub(start)
	if diff < 0 {
		diff += 24 * time.Hour
	}
	return decimal.NewFromInt(int64(diff / time.Minute)).Div(decimal.NewFromInt(60)), nil
}

// OvertimeHours devuelve max(0, horasTrabajadas − horasFranquicia).
func OvertimeHours(hoursWorked, franchiseHours decimal.Decimal) decimal.Decimal {
	overtime := hoursWorked.Sub(franchiseHours)
	if overtime.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return overtime
}
