package usecase

import (
	"context"
	"fmt"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ConsultationQueryUseCase struct {
	repo ports.ConsultationRepository
}

func NewConsultationQueryUseCase(repo ports.ConsultationRepository) *ConsultationQueryUseCase {
	return &ConsultationQueryUseCase{repo: repo}
}

func (uc *ConsultationQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	return uc.repo.GetByID(ctx, id)
}

// List returns the most recent consultations first. Zero selects the default
// page size.
func (uc *ConsultationQueryUseCase) List(ctx context.Context, limit int) ([]domain.Consultation, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list consultations", fmt.Errorf("limit %d out of range 1..%d", limit, MaxListLimit))
	}
	return uc.repo.List(ctx, limit)
}
