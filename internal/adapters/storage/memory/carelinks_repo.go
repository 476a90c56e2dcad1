package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"med-reminder/internal/domain/carelinks"
)

type careLinkRepo struct {
	mu   sync.RWMutex
	byID map[string]carelinks.Link
}

func NewCareLinkRepo() carelinks.Repository {
	return &careLinkRepo{
		byID: make(map[string]carelinks.Link),
	}
}

func (r *careLinkRepo) Create(ctx context.Context, l carelinks.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("link id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("link already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *careLinkRepo) Update(ctx context.Context, l carelinks.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("link id required")
	}
	if _, exists := r.byID[l.ID]; !exists {
		return ErrNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *careLinkRepo) GetByID(ctx context.Context, id string) (carelinks.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return carelinks.Link{}, ErrNotFound
	}
	return l, nil
}

func (r *careLinkRepo) GetByClaimCode(ctx context.Context, code string) (carelinks.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.TrimSpace(code) == "" {
		return carelinks.Link{}, ErrNotFound
	}
	for _, l := range r.byID {
		if l.ClaimCode == code {
			return l, nil
		}
	}
	return carelinks.Link{}, ErrNotFound
}

func (r *careLinkRepo) ListByPatient(ctx context.Context, patientID string) ([]carelinks.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carelinks.Link, 0)
	for _, l := range r.byID {
		if l.PatientID == patientID {
			out = append(out, l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *careLinkRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]carelinks.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carelinks.Link, 0)
	for _, l := range r.byID {
		if l.GranteeUserID == granteeUserID {
			out = append(out, l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	return out, nil
}

func (r *careLinkRepo) GetActiveLink(ctx context.Context, patientID, granteeUserID string) (carelinks.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner carelinks.Link
	has := false

	for _, l := range r.byID {
		if l.PatientID != patientID {
			continue
		}
		if l.GranteeUserID != granteeUserID {
			continue
		}
		if l.Status != carelinks.StatusActive {
			continue
		}

		if !has || l.UpdatedAt.After(winner.UpdatedAt) {
			winner = l
			has = true
		}
	}

	if !has {
		return carelinks.Link{}, ErrNotFound
	}
	return winner, nil
}
