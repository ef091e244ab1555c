package casefile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockCaseRepo struct {
	cases map[uuid.UUID]*Case
}

func newMockCaseRepo() *mockCaseRepo {
	return &mockCaseRepo{cases: make(map[uuid.UUID]*Case)}
}

func (m *mockCaseRepo) Create(_ context.Context, cs *Case) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	cs.CreatedAt = time.Now()
	cs.UpdatedAt = time.Now()
	m.cases[cs.ID] = cs
	return nil
}

func (m *mockCaseRepo) GetByID(_ context.Context, id uuid.UUID) (*Case, error) {
	cs, ok := m.cases[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return cs, nil
}

func (m *mockCaseRepo) Update(_ context.Context, cs *Case) error {
	m.cases[cs.ID] = cs
	return nil
}

func (m *mockCaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.cases, id)
	return nil
}

func (m *mockCaseRepo) List(_ context.Context, limit, offset int) ([]*Case, int, error) {
	var result []*Case
	for _, cs := range m.cases {
		result = append(result, cs)
	}
	return result, len(result), nil
}

func (m *mockCaseRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Case, error) {
	var result []*Case
	for _, cs := range m.cases {
		if cs.PatientID == patientID {
			result = append(result, cs)
		}
	}
	return result, nil
}

func (m *mockCaseRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	for id, cs := range m.cases {
		if cs.PatientID == patientID {
			delete(m.cases, id)
		}
	}
	return nil
}

type mockEventRepo struct {
	events map[uuid.UUID]*Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (m *mockEventRepo) Create(_ context.Context, ev *Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = time.Now()
	m.events[ev.ID] = ev
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id uuid.UUID) (*Event, error) {
	ev, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return ev, nil
}

func (m *mockEventRepo) Update(_ context.Context, ev *Event) error {
	m.events[ev.ID] = ev
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Event, error) {
	var result []*Event
	for _, ev := range m.events {
		if ev.PatientID == patientID {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *mockEventRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	for id, ev := range m.events {
		if ev.PatientID == patientID {
			delete(m.events, id)
		}
	}
	return nil
}

func TestCreateCase_RequiresPatient(t *testing.T) {
	svc := NewService(newMockCaseRepo(), newMockEventRepo())
	if err := svc.CreateCase(context.Background(), &Case{}); err == nil {
		t.Error("expected error for missing patient id")
	}
}

func TestCreateCase_Success(t *testing.T) {
	repo := newMockCaseRepo()
	svc := NewService(repo, newMockEventRepo())
	cs := &Case{PatientID: uuid.New()}
	if err := svc.CreateCase(context.Background(), cs); err != nil {
		t.Fatalf("CreateCase failed: %v", err)
	}
	if cs.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateEvent_RequiresTitle(t *testing.T) {
	svc := NewService(newMockCaseRepo(), newMockEventRepo())
	err := svc.CreateEvent(context.Background(), &Event{PatientID: uuid.New()})
	if err == nil {
		t.Error("expected error for missing title")
	}
}

func TestDeleteByPatient_RemovesCasesAndEvents(t *testing.T) {
	caseRepo := newMockCaseRepo()
	eventRepo := newMockEventRepo()
	svc := NewService(caseRepo, eventRepo)
	pid := uuid.New()

	if err := svc.CreateCase(context.Background(), &Case{PatientID: pid}); err != nil {
		t.Fatalf("CreateCase failed: %v", err)
	}
	if err := svc.CreateEvent(context.Background(), &Event{PatientID: pid, Title: "Intake"}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := caseRepo.DeleteByPatient(context.Background(), pid); err != nil {
		t.Fatalf("case DeleteByPatient failed: %v", err)
	}
	if err := eventRepo.DeleteByPatient(context.Background(), pid); err != nil {
		t.Fatalf("event DeleteByPatient failed: %v", err)
	}

	cases, _ := svc.ListCasesByPatient(context.Background(), pid)
	if len(cases) != 0 {
		t.Errorf("expected 0 cases, got %d", len(cases))
	}
	events, _ := svc.ListEventsByPatient(context.Background(), pid)
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}
