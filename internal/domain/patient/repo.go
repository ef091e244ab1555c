package patient

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	// Delete removes the patient row and reports how many rows matched.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context) ([]*Patient, error)
}

type ProcedureRepository interface {
	Create(ctx context.Context, proc *Procedure) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Procedure, error)
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Procedure, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

// Dependent is a table of rows keyed by patient id that must be cleared
// before the patient row itself can go. The cascade honors slice order.
type Dependent interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
