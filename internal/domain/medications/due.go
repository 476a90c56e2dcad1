package medications

import (
	"time"

	"med-reminder/internal/domain/schedule"
)

// DueOn devuelve el subconjunto de meds que toca en la fecha y categoría
// dadas, preservando el orden de entrada. Función pura: no mira tomas ya
// registradas (eso lo cruza el caller) ni muta la entrada.
//
// Un medicamento malformado solo se degrada a su fallback (ver
// schedule.NewPlan); nunca corta la evaluación del resto.
func DueOn(meds []Medication, cat schedule.Category, ref time.Time) []Medication {
	idx := schedule.IndexAt(ref)

	out := make([]Medication, 0, len(meds))
	for _, m := range meds {
		if m.Plan().DueAt(idx, cat) {
			out = append(out, m)
		}
	}
	return out
}
