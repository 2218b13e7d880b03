package analytics

import (
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

const dayLayout = "2006-01-02"

// Window rango de fechas inclusivo; un límite nil no restringe.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae dentro del rango (ambos extremos incluidos).
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// FilterSales conserva solo las ventas (SELL) dentro de la ventana, sin alterar el orden.
// Las compras nunca cuentan como ingreso.
func FilterSales(txs []*entity.Transaction, w Window) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx == nil || tx.Kind != entity.TransactionSell {
			continue
		}
		if !w.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// StartOfDay medianoche de t en loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay último instante representable del día de t en loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// TrendWindow ventana que cubre los TrendDays días terminados en el día de now.
func TrendWindow(now time.Time, loc *time.Location) Window {
	from := StartOfDay(now, loc).AddDate(0, 0, -(TrendDays - 1))
	to := EndOfDay(now, loc)
	return Window{From: &from, To: &to}
}

// ParseWindow interpreta los límites recibidos como texto. Acepta YYYY-MM-DD (en loc)
// o RFC3339. Una fecha sin hora como límite superior cubre el día completo.
// Cadenas vacías dejan el extremo abierto.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	var w Window
	if start != "" {
		t, dateOnly, err := parseBound(start, loc)
		if err != nil {
			return Window{}, domain.NewValidationError("startDate", "formato inválido, use YYYY-MM-DD o RFC3339")
		}
		if dateOnly {
			t = StartOfDay(t, loc)
		}
		w.From = &t
	}
	if end != "" {
		t, dateOnly, err := parseBound(end, loc)
		if err != nil {
			return Window{}, domain.NewValidationError("endDate", "formato inválido, use YYYY-MM-DD o RFC3339")
		}
		if dateOnly {
			t = EndOfDay(t, loc)
		}
		w.To = &t
	}
	if w.From != nil && w.To != nil && w.To.Before(*w.From) {
		return Window{}, domain.NewValidationError("endDate", "no puede ser anterior a startDate")
	}
	return w, nil
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, false, err
}
