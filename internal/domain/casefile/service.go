package casefile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	cases  CaseRepository
	events EventRepository
}

func NewService(cases CaseRepository, events EventRepository) *Service {
	return &Service{cases: cases, events: events}
}

// -- Case --

func (s *Service) CreateCase(ctx context.Context, cs *Case) error {
	if cs.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	return s.cases.Create(ctx, cs)
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *Service) UpdateCase(ctx context.Context, cs *Case) error {
	if cs.ID == uuid.Nil {
		return fmt.Errorf("case id is required")
	}
	return s.cases.Update(ctx, cs)
}

func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	return s.cases.Delete(ctx, id)
}

func (s *Service) ListCases(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.cases.List(ctx, limit, offset)
}

func (s *Service) ListCasesByPatient(ctx context.Context, patientID uuid.UUID) ([]*Case, error) {
	return s.cases.ListByPatient(ctx, patientID)
}

// -- Event --

func (s *Service) CreateEvent(ctx context.Context, ev *Event) error {
	if ev.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required")
	}
	if ev.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.events.Create(ctx, ev)
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *Service) UpdateEvent(ctx context.Context, ev *Event) error {
	if ev.ID == uuid.Nil {
		return fmt.Errorf("event id is required")
	}
	if ev.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.events.Update(ctx, ev)
}

func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}

func (s *Service) ListEventsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Event, error) {
	return s.events.ListByPatient(ctx, patientID)
}
