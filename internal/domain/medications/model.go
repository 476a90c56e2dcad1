package medications

import (
	"time"

	"med-reminder/internal/domain/schedule"
)

// Medication es un medicamento indicado en la ficha de un paciente.
// El médico lo crea/edita desde el dashboard; la app móvil solo lo lee.
type Medication struct {
	ID        string
	PatientID string

	Name string

	// Conteos de dosis simples, como texto ("2"). Los clientes mandan
	// strings; vacío o no numérico cuenta como 0 = no toca.
	MorningDosage string
	EveningDosage string

	// PlanDays es el plan quincenal explícito: nil, o exactamente 14
	// entradas (semana A índices 0-6, semana B 7-13). Si existe, manda
	// sobre los conteos simples.
	PlanDays []schedule.DayEntry

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Plan normaliza la configuración del medicamento a la variante etiquetada.
// Un PlanDays con largo distinto de 14 (dato sucio en storage) cae al
// fallback uniforme acá mismo, nunca se consulta a medias.
func (m Medication) Plan() schedule.Plan {
	return schedule.NewPlan(m.PlanDays, m.MorningDosage, m.EveningDosage)
}
