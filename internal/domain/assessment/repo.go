package assessment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateNursing(ctx context.Context, a *NursingAssessment) error
	GetNursingByVisit(ctx context.Context, visitID uuid.UUID) (*NursingAssessment, error)
	UpdateNursing(ctx context.Context, a *NursingAssessment) error

	CreateRadiology(ctx context.Context, a *RadiologyAssessment) error
	GetRadiologyByVisit(ctx context.Context, visitID uuid.UUID) (*RadiologyAssessment, error)

	HasNursing(ctx context.Context, visitID uuid.UUID) (bool, error)
	HasRadiology(ctx context.Context, visitID uuid.UUID) (bool, error)
}
