package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Category es el momento del día de una toma.
// @Enum morning, evening
type Category string

const (
	CategoryMorning Category = "morning"
	CategoryEvening Category = "evening"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryMorning:
		return CategoryMorning, true
	case CategoryEvening:
		return CategoryEvening, true
	default:
		return "", false
	}
}

// CycleDays es el largo del ciclo quincenal: dos semanas A/B.
const CycleDays = 14

// Epoch es el día 0 del ciclo. Es lunes a propósito: así la posición dentro
// del ciclo y el día de la semana (lunes=0) quedan alineados.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Index calcula la posición [0,13] dentro del ciclo quincenal para ref.
// Solo cuenta días enteros (se descarta la hora). Fechas anteriores al epoch
// se normalizan al rango en vez de dar índice negativo.
//
// Nota: como el epoch es lunes, weekHalf*7 + díaDeSemana == posición del ciclo,
// así que el índice se toma directo de la posición. Si algún día se mueve el
// epoch a otro día de semana, el índice sigue siendo consistente consigo mismo
// en vez de desalinearse en silencio.
func Index(epoch, ref time.Time) int {
	days := daysBetween(epoch, ref)
	return ((days % CycleDays) + CycleDays) % CycleDays
}

// IndexAt es Index contra el Epoch fijo del sistema.
func IndexAt(ref time.Time) int {
	return Index(Epoch, ref)
}

func daysBetween(from, to time.Time) int {
	f := dateOnly(from)
	t := dateOnly(to)
	return int(t.Sub(f).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayEntry indica qué tomas aplican un día del plan explícito.
type DayEntry struct {
	Morning bool `json:"morning"`
	Evening bool `json:"evening"`
}

type PlanKind int

const (
	// PlanUniform: dosis simples diarias (conteo mañana/noche).
	PlanUniform PlanKind = iota
	// PlanFortnight: plan explícito de 14 días (semana A + semana B).
	PlanFortnight
)

// Plan es la variante etiquetada de la configuración de tomas: o un plan
// explícito de 14 días, o conteos uniformes por día. Se resuelve con un solo
// dispatch en DueAt en vez de null-checks repartidos por los callers.
type Plan struct {
	Kind PlanKind

	// Days tiene exactamente CycleDays entradas cuando Kind == PlanFortnight.
	Days []DayEntry

	// Conteos para PlanUniform. 0 = no toca.
	Morning int
	Evening int
}

// NewPlan normaliza la configuración cruda de un medicamento.
// Política (y único punto donde se decide):
//   - days con largo exactamente 14 => plan quincenal explícito;
//   - cualquier otro largo (incluido nil) => fallback a dosis simples,
//     nunca se consulta un plan malformado "a medias";
//   - dosis que no parsea como entero positivo => 0, jamás error.
func NewPlan(days []DayEntry, morningDosage, eveningDosage string) Plan {
	if len(days) == CycleDays {
		cp := make([]DayEntry, CycleDays)
		copy(cp, days)
		return Plan{Kind: PlanFortnight, Days: cp}
	}
	return Plan{
		Kind:    PlanUniform,
		Morning: parseDosage(morningDosage),
		Evening: parseDosage(eveningDosage),
	}
}

func parseDosage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DueAt responde si la toma de la categoría aplica en el índice [0,13] dado.
// Función pura: no muta nada y no mira el reloj.
func (p Plan) DueAt(index int, cat Category) bool {
	switch p.Kind {
	case PlanFortnight:
		if index < 0 || index >= len(p.Days) {
			return false
		}
		switch cat {
		case CategoryMorning:
			return p.Days[index].Morning
		case CategoryEvening:
			return p.Days[index].Evening
		default:
			return false
		}
	default:
		switch cat {
		case CategoryMorning:
			return p.Morning > 0
		case CategoryEvening:
			return p.Evening > 0
		default:
			return false
		}
	}
}

// DueOn evalúa el plan contra una fecha calendario usando el Epoch fijo.
func (p Plan) DueOn(ref time.Time, cat Category) bool {
	return p.DueAt(IndexAt(ref), cat)
}
