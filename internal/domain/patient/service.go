package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/medcase/backoffice/internal/domain/scheduling"
	"github.com/medcase/backoffice/internal/platform/db"
)

// Provisioner supplies the facility and physician substituted into
// procedures created without one.
type Provisioner interface {
	EnsureDefaultFacility(ctx context.Context) (uuid.UUID, error)
	EnsureDefaultPhysician(ctx context.Context) (uuid.UUID, error)
}

// AppointmentLister feeds the appointment slice of read projections.
type AppointmentLister interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*scheduling.Appointment, error)
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*scheduling.Appointment, error)
}

type Service struct {
	patients     PatientRepository
	procedures   ProcedureRepository
	appointments AppointmentLister
	prov         Provisioner
	tx           db.Runner
	// dependents are cleared in slice order ahead of the patient row.
	dependents []Dependent
	log        zerolog.Logger
}

func NewService(patients PatientRepository, procedures ProcedureRepository,
	appointments AppointmentLister, prov Provisioner, tx db.Runner,
	dependents []Dependent, log zerolog.Logger) *Service {
	return &Service{
		patients:     patients,
		procedures:   procedures,
		appointments: appointments,
		prov:         prov,
		tx:           tx,
		dependents:   dependents,
		log:          log,
	}
}

// Create stores the patient and its procedures in one transaction. Default
// facility and physician rows are resolved before the transaction opens, so
// they survive even if the insert rolls back.
func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validateCreate(p); err != nil {
		return nil, err
	}
	normalizePatientDates(p)

	facilityID, err := s.prov.EnsureDefaultFacility(ctx)
	if err != nil {
		return nil, err
	}
	physicianID, err := s.prov.EnsureDefaultPhysician(ctx)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return fmt.Errorf("%w: insert patient: %v", ErrPersistence, err)
		}
		for _, proc := range p.Procedures {
			proc.PatientID = p.ID
			if proc.FacilityID == uuid.Nil {
				proc.FacilityID = facilityID
			}
			if proc.PhysicianID == uuid.Nil {
				proc.PhysicianID = physicianID
			}
			if err := s.procedures.Create(ctx, proc); err != nil {
				return fmt.Errorf("%w: insert procedure: %v", ErrPersistence, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("patient_id", p.ID.String()).Int("procedures", len(p.Procedures)).Msg("patient created")
	return s.Get(ctx, p.ID)
}

// Update rewrites the patient's scalar columns. Procedures submitted on the
// update payload are ignored; they are managed through their own endpoints.
func (s *Service) Update(ctx context.Context, p *Patient) (*Patient, error) {
	if p.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient id is required", ErrValidation)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if _, err := s.patients.GetByID(ctx, p.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
		}
		return nil, fmt.Errorf("%w: load patient: %v", ErrPersistence, err)
	}
	normalizePatientDates(p)

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: update patient: %v", ErrPersistence, err)
	}
	return s.Get(ctx, p.ID)
}

// Delete removes the patient and everything hanging off it. The dependents
// run first so no orphaned child rows can survive a partial failure; any
// error rolls the whole transaction back, including the not-found case.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: patient id is required", ErrValidation)
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.procedures.DeleteByPatient(ctx, id); err != nil {
			return fmt.Errorf("%w: delete procedures: %v", ErrPersistence, err)
		}
		for _, dep := range s.dependents {
			if err := dep.DeleteByPatient(ctx, id); err != nil {
				return fmt.Errorf("%w: delete dependents: %v", ErrPersistence, err)
			}
		}
		n, err := s.patients.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: delete patient: %v", ErrPersistence, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// Get returns the full projection: scalars, joined status and payer,
// procedures with their reference rows, and appointments.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load patient: %v", ErrPersistence, err)
	}
	procs, err := s.procedures.ListByPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load procedures: %v", ErrPersistence, err)
	}
	appts, err := s.appointments.ListByPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load appointments: %v", ErrPersistence, err)
	}
	if procs == nil {
		procs = []*Procedure{}
	}
	if appts == nil {
		appts = []*scheduling.Appointment{}
	}
	p.Procedures = procs
	p.Appointments = appts
	return p, nil
}

// List returns every patient projected, ordered by last then first name.
func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list patients: %v", ErrPersistence, err)
	}
	if len(patients) == 0 {
		return []*Patient{}, nil
	}

	ids := make([]uuid.UUID, len(patients))
	byID := make(map[uuid.UUID]*Patient, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Procedures = []*Procedure{}
		p.Appointments = []*scheduling.Appointment{}
	}

	procs, err := s.procedures.ListByPatients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: list procedures: %v", ErrPersistence, err)
	}
	for _, pr := range procs {
		if p, ok := byID[pr.PatientID]; ok {
			p.Procedures = append(p.Procedures, pr)
		}
	}

	appts, err := s.appointments.ListByPatients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", ErrPersistence, err)
	}
	for _, a := range appts {
		if p, ok := byID[a.PatientID]; ok {
			p.Appointments = append(p.Appointments, a)
		}
	}
	return patients, nil
}

func validateCreate(p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if len(p.Procedures) == 0 {
		return fmt.Errorf("%w: at least one procedure is required", ErrValidation)
	}
	for i, proc := range p.Procedures {
		if proc == nil {
			return fmt.Errorf("%w: procedure %d is empty", ErrValidation, i)
		}
		if proc.ExamID == uuid.Nil {
			return fmt.Errorf("%w: procedure %d: exam id is required", ErrValidation, i)
		}
		if proc.StatusID == uuid.Nil {
			return fmt.Errorf("%w: procedure %d: status id is required", ErrValidation, i)
		}
	}
	return nil
}

// Dates arrive in arbitrary client zones and are stored as UTC instants.
func normalizePatientDates(p *Patient) {
	p.DateOfBirth = toUTC(p.DateOfBirth)
	p.OrderDate = toUTC(p.OrderDate)
	for _, proc := range p.Procedures {
		if proc != nil {
			proc.ScheduleDate = toUTC(proc.ScheduleDate)
		}
	}
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
