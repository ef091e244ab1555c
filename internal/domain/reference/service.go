package reference

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	statuses   StatusRepository
	payers     PayerRepository
	exams      ExamRepository
	facilities FacilityRepository
	physicians PhysicianRepository
	doctors    DoctorRepository
}

func NewService(statuses StatusRepository, payers PayerRepository, exams ExamRepository,
	facilities FacilityRepository, physicians PhysicianRepository, doctors DoctorRepository) *Service {
	return &Service{
		statuses:   statuses,
		payers:     payers,
		exams:      exams,
		facilities: facilities,
		physicians: physicians,
		doctors:    doctors,
	}
}

// -- Status --

func (s *Service) CreateStatus(ctx context.Context, st *Status) error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.statuses.Create(ctx, st)
}

func (s *Service) GetStatus(ctx context.Context, id uuid.UUID) (*Status, error) {
	return s.statuses.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, st *Status) error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.statuses.Update(ctx, st)
}

func (s *Service) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	return s.statuses.Delete(ctx, id)
}

func (s *Service) ListStatuses(ctx context.Context, limit, offset int) ([]*Status, int, error) {
	return s.statuses.List(ctx, limit, offset)
}

// -- Payer --

func (s *Service) CreatePayer(ctx context.Context, p *Payer) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.payers.Create(ctx, p)
}

func (s *Service) GetPayer(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return s.payers.GetByID(ctx, id)
}

func (s *Service) UpdatePayer(ctx context.Context, p *Payer) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.payers.Update(ctx, p)
}

func (s *Service) DeletePayer(ctx context.Context, id uuid.UUID) error {
	return s.payers.Delete(ctx, id)
}

func (s *Service) ListPayers(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	return s.payers.List(ctx, limit, offset)
}

// -- Exam --

func (s *Service) CreateExam(ctx context.Context, e *Exam) error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.exams.Create(ctx, e)
}

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.exams.GetByID(ctx, id)
}

func (s *Service) UpdateExam(ctx context.Context, e *Exam) error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.exams.Update(ctx, e)
}

func (s *Service) DeleteExam(ctx context.Context, id uuid.UUID) error {
	return s.exams.Delete(ctx, id)
}

func (s *Service) ListExams(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	return s.exams.List(ctx, limit, offset)
}

// -- Facility --

func (s *Service) CreateFacility(ctx context.Context, f *Facility) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.facilities.Create(ctx, f)
}

func (s *Service) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return s.facilities.GetByID(ctx, id)
}

func (s *Service) UpdateFacility(ctx context.Context, f *Facility) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.facilities.Update(ctx, f)
}

func (s *Service) DeleteFacility(ctx context.Context, id uuid.UUID) error {
	return s.facilities.Delete(ctx, id)
}

func (s *Service) ListFacilities(ctx context.Context, limit, offset int) ([]*Facility, int, error) {
	return s.facilities.List(ctx, limit, offset)
}

// -- Physician --

func (s *Service) CreatePhysician(ctx context.Context, p *Physician) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.physicians.Create(ctx, p)
}

func (s *Service) GetPhysician(ctx context.Context, id uuid.UUID) (*Physician, error) {
	return s.physicians.GetByID(ctx, id)
}

func (s *Service) UpdatePhysician(ctx context.Context, p *Physician) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.physicians.Update(ctx, p)
}

func (s *Service) DeletePhysician(ctx context.Context, id uuid.UUID) error {
	return s.physicians.Delete(ctx, id)
}

func (s *Service) ListPhysicians(ctx context.Context, limit, offset int) ([]*Physician, int, error) {
	return s.physicians.List(ctx, limit, offset)
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}
