package carelinks

import "context"

type Repository interface {
	Create(ctx context.Context, l Link) error
	Update(ctx context.Context, l Link) error
	GetByID(ctx context.Context, id string) (Link, error)
	GetByClaimCode(ctx context.Context, code string) (Link, error)
	ListByPatient(ctx context.Context, patientID string) ([]Link, error)
	ListByGrantee(ctx context.Context, granteeUserID string) ([]Link, error)
	GetActiveLink(ctx context.Context, patientID, granteeUserID string) (Link, error)
}
