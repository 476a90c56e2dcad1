package druginfo

import "context"

// Drug es un resultado del catálogo de medicamentos (autocomplete del dashboard).
type Drug struct {
	BrandName   string
	GenericName string
	Route       string
	DosageForm  string
}

// Lookup busca medicamentos por nombre en un catálogo externo.
type Lookup interface {
	Search(ctx context.Context, query string, limit int) ([]Drug, error)
}
