package patient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/medcase/backoffice/internal/domain/reference"
	"github.com/medcase/backoffice/internal/domain/scheduling"
)

// -- Mock Repositories --
//
// The tx runner mock snapshots every store before running the callback and
// restores them when it fails, mimicking a database rollback.

type restorable interface {
	snapshot()
	restore()
}

type mockTxRunner struct {
	stores []restorable
	calls  int
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	for _, s := range m.stores {
		s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for _, s := range m.stores {
			s.restore()
		}
		return err
	}
	return nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
	saved    map[uuid.UUID]*Patient
	log      *[]string
}

func newMockPatientRepo(log *[]string) *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient), log: log}
}

func (m *mockPatientRepo) snapshot() {
	m.saved = make(map[uuid.UUID]*Patient, len(m.patients))
	for k, v := range m.patients {
		m.saved[k] = v
	}
}

func (m *mockPatientRepo) restore() { m.patients = m.saved }

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	stored := *p
	stored.Procedures = nil
	m.patients[p.ID] = &stored
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *p
	out.FullName = out.DisplayName()
	return &out, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	stored := *p
	stored.Procedures = nil
	m.patients[p.ID] = &stored
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	*m.log = append(*m.log, "patient")
	if _, ok := m.patients[id]; !ok {
		return 0, nil
	}
	delete(m.patients, id)
	return 1, nil
}

func (m *mockPatientRepo) List(_ context.Context) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		out := *p
		out.FullName = out.DisplayName()
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

type mockProcedureRepo struct {
	procs   map[uuid.UUID]*Procedure
	saved   map[uuid.UUID]*Procedure
	log     *[]string
	failOn  int
	creates int
}

func newMockProcedureRepo(log *[]string) *mockProcedureRepo {
	return &mockProcedureRepo{procs: make(map[uuid.UUID]*Procedure), log: log}
}

func (m *mockProcedureRepo) snapshot() {
	m.saved = make(map[uuid.UUID]*Procedure, len(m.procs))
	for k, v := range m.procs {
		m.saved[k] = v
	}
}

func (m *mockProcedureRepo) restore() { m.procs = m.saved }

func (m *mockProcedureRepo) Create(_ context.Context, pr *Procedure) error {
	m.creates++
	if m.failOn > 0 && m.creates >= m.failOn {
		return fmt.Errorf("insert rejected")
	}
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	pr.CreatedAt = time.Now()
	pr.UpdatedAt = time.Now()
	m.procs[pr.ID] = pr
	return nil
}

func (m *mockProcedureRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Procedure, error) {
	var result []*Procedure
	for _, pr := range m.procs {
		if pr.PatientID == patientID {
			result = append(result, pr)
		}
	}
	return result, nil
}

func (m *mockProcedureRepo) ListByPatients(_ context.Context, patientIDs []uuid.UUID) ([]*Procedure, error) {
	var result []*Procedure
	for _, id := range patientIDs {
		for _, pr := range m.procs {
			if pr.PatientID == id {
				result = append(result, pr)
			}
		}
	}
	return result, nil
}

func (m *mockProcedureRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	*m.log = append(*m.log, "procedures")
	for id, pr := range m.procs {
		if pr.PatientID == patientID {
			delete(m.procs, id)
		}
	}
	return nil
}

type mockApptLister struct {
	appts map[uuid.UUID]*scheduling.Appointment
	saved map[uuid.UUID]*scheduling.Appointment
	log   *[]string
}

func newMockApptLister(log *[]string) *mockApptLister {
	return &mockApptLister{appts: make(map[uuid.UUID]*scheduling.Appointment), log: log}
}

func (m *mockApptLister) snapshot() {
	m.saved = make(map[uuid.UUID]*scheduling.Appointment, len(m.appts))
	for k, v := range m.appts {
		m.saved[k] = v
	}
}

func (m *mockApptLister) restore() { m.appts = m.saved }

func (m *mockApptLister) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*scheduling.Appointment, error) {
	var result []*scheduling.Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApptLister) ListByPatients(_ context.Context, patientIDs []uuid.UUID) ([]*scheduling.Appointment, error) {
	var result []*scheduling.Appointment
	for _, id := range patientIDs {
		for _, a := range m.appts {
			if a.PatientID == id {
				result = append(result, a)
			}
		}
	}
	return result, nil
}

func (m *mockApptLister) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	*m.log = append(*m.log, "appointments")
	for id, a := range m.appts {
		if a.PatientID == patientID {
			delete(m.appts, id)
		}
	}
	return nil
}

// mockDependent stands in for the case and event tables in cascade tests.
type mockDependent struct {
	name  string
	rows  map[uuid.UUID]int
	saved map[uuid.UUID]int
	log   *[]string
}

func newMockDependent(name string, log *[]string) *mockDependent {
	return &mockDependent{name: name, rows: make(map[uuid.UUID]int), log: log}
}

func (m *mockDependent) snapshot() {
	m.saved = make(map[uuid.UUID]int, len(m.rows))
	for k, v := range m.rows {
		m.saved[k] = v
	}
}

func (m *mockDependent) restore() { m.rows = m.saved }

func (m *mockDependent) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	*m.log = append(*m.log, m.name)
	delete(m.rows, patientID)
	return nil
}

type mockProvisioner struct {
	facilityID    uuid.UUID
	physicianID   uuid.UUID
	facilityCalls int
	fail          bool
}

func newMockProvisioner() *mockProvisioner {
	return &mockProvisioner{facilityID: reference.DefaultFacilityID, physicianID: reference.DefaultPhysicianID}
}

func (m *mockProvisioner) EnsureDefaultFacility(_ context.Context) (uuid.UUID, error) {
	m.facilityCalls++
	if m.fail {
		return uuid.Nil, fmt.Errorf("%w: no usable facility", reference.ErrProvisioning)
	}
	return m.facilityID, nil
}

func (m *mockProvisioner) EnsureDefaultPhysician(_ context.Context) (uuid.UUID, error) {
	if m.fail {
		return uuid.Nil, fmt.Errorf("%w: no usable physician", reference.ErrProvisioning)
	}
	return m.physicianID, nil
}

// -- Fixture --

type fixture struct {
	svc      *Service
	patients *mockPatientRepo
	procs    *mockProcedureRepo
	appts    *mockApptLister
	cases    *mockDependent
	events   *mockDependent
	prov     *mockProvisioner
	tx       *mockTxRunner
	deleted  *[]string
}

func newFixture() *fixture {
	deleted := &[]string{}
	patients := newMockPatientRepo(deleted)
	procs := newMockProcedureRepo(deleted)
	appts := newMockApptLister(deleted)
	cases := newMockDependent("cases", deleted)
	events := newMockDependent("events", deleted)
	prov := newMockProvisioner()
	tx := &mockTxRunner{stores: []restorable{patients, procs, appts, cases, events}}

	svc := NewService(patients, procs, appts, prov, tx,
		[]Dependent{appts, cases, events}, zerolog.Nop())
	return &fixture{
		svc: svc, patients: patients, procs: procs, appts: appts,
		cases: cases, events: events, prov: prov, tx: tx, deleted: deleted,
	}
}

func validPatient(n int) *Patient {
	p := &Patient{FirstName: "Jane", LastName: "Doe"}
	for i := 0; i < n; i++ {
		p.Procedures = append(p.Procedures, &Procedure{
			ExamID:   uuid.New(),
			StatusID: uuid.New(),
		})
	}
	return p
}

// -- Create --

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validPatient(2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if created.FullName != "Doe, Jane" {
		t.Errorf("expected full name %q, got %q", "Doe, Jane", created.FullName)
	}
	if len(created.Procedures) != 2 {
		t.Fatalf("expected 2 procedures on projection, got %d", len(created.Procedures))
	}
	for _, pr := range created.Procedures {
		if pr.PatientID != created.ID {
			t.Errorf("procedure not linked to patient: %s", pr.PatientID)
		}
		if pr.FacilityID != reference.DefaultFacilityID {
			t.Errorf("expected default facility, got %s", pr.FacilityID)
		}
		if pr.PhysicianID != reference.DefaultPhysicianID {
			t.Errorf("expected default physician, got %s", pr.PhysicianID)
		}
	}
	if f.tx.calls != 1 {
		t.Errorf("expected 1 transaction, got %d", f.tx.calls)
	}
}

func TestCreate_KeepsExplicitFacilityAndPhysician(t *testing.T) {
	f := newFixture()
	p := validPatient(1)
	facility := uuid.New()
	physician := uuid.New()
	p.Procedures[0].FacilityID = facility
	p.Procedures[0].PhysicianID = physician

	created, err := f.svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Procedures[0].FacilityID != facility {
		t.Errorf("explicit facility was overwritten: %s", created.Procedures[0].FacilityID)
	}
	if created.Procedures[0].PhysicianID != physician {
		t.Errorf("explicit physician was overwritten: %s", created.Procedures[0].PhysicianID)
	}
}

func TestCreate_RequiresProcedures(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), validPatient(0))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if len(f.patients.patients) != 0 {
		t.Error("no patient row should exist after validation failure")
	}
	if f.prov.facilityCalls != 0 {
		t.Error("provisioner should not run when validation fails")
	}
}

func TestCreate_RequiresNames(t *testing.T) {
	f := newFixture()
	p := validPatient(1)
	p.FirstName = "  "
	_, err := f.svc.Create(context.Background(), p)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCreate_RequiresExamAndStatusPerProcedure(t *testing.T) {
	f := newFixture()
	p := validPatient(1)
	p.Procedures[0].ExamID = uuid.Nil
	if _, err := f.svc.Create(context.Background(), p); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing exam, got %v", err)
	}

	p = validPatient(1)
	p.Procedures[0].StatusID = uuid.Nil
	if _, err := f.svc.Create(context.Background(), p); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing status, got %v", err)
	}
}

func TestCreate_RollsBackWhenProcedureInsertFails(t *testing.T) {
	f := newFixture()
	f.procs.failOn = 2

	_, err := f.svc.Create(context.Background(), validPatient(3))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(f.patients.patients) != 0 {
		t.Error("patient row survived a failed transaction")
	}
	if len(f.procs.procs) != 0 {
		t.Error("procedure rows survived a failed transaction")
	}
	// The defaults were provisioned before the transaction, so they stay.
	if f.prov.facilityCalls != 1 {
		t.Errorf("expected provisioner to have run once, got %d", f.prov.facilityCalls)
	}
}

func TestCreate_ProvisionerFailureAbortsBeforeWrite(t *testing.T) {
	f := newFixture()
	f.prov.fail = true

	_, err := f.svc.Create(context.Background(), validPatient(1))
	if !errors.Is(err, reference.ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
	if f.tx.calls != 0 {
		t.Error("transaction should not open when provisioning fails")
	}
	if len(f.patients.patients) != 0 {
		t.Error("no patient row should exist")
	}
}

func TestCreate_NormalizesDatesToUTC(t *testing.T) {
	f := newFixture()
	loc := time.FixedZone("UTC+5", 5*3600)
	dob := time.Date(1990, 3, 15, 10, 0, 0, 0, loc)
	sched := time.Date(2026, 9, 1, 8, 30, 0, 0, loc)

	p := validPatient(1)
	p.DateOfBirth = &dob
	p.Procedures[0].ScheduleDate = &sched

	created, err := f.svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.DateOfBirth.Location() != time.UTC {
		t.Errorf("date of birth not normalized: %v", created.DateOfBirth)
	}
	if !created.DateOfBirth.Equal(dob) {
		t.Error("normalization changed the instant")
	}
	if created.Procedures[0].ScheduleDate.Location() != time.UTC {
		t.Errorf("schedule date not normalized: %v", created.Procedures[0].ScheduleDate)
	}
}

// -- Update --

func TestUpdate_IgnoresProcedures(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validPatient(2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upd := &Patient{
		ID:        created.ID,
		FirstName: "Janet",
		LastName:  "Doe",
		Procedures: []*Procedure{
			{ExamID: uuid.New(), StatusID: uuid.New()},
		},
	}
	after, err := f.svc.Update(context.Background(), upd)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if after.FirstName != "Janet" {
		t.Errorf("expected updated first name, got %q", after.FirstName)
	}
	if len(after.Procedures) != 2 {
		t.Errorf("update must not touch procedures, got %d", len(after.Procedures))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Update(context.Background(), &Patient{ID: uuid.New(), FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_RequiresID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Update(context.Background(), &Patient{FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

// -- Delete --

func TestDelete_CascadesAllDependents(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), validPatient(2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	f.appts.appts[uuid.New()] = &scheduling.Appointment{ID: uuid.New(), PatientID: created.ID}
	f.cases.rows[created.ID] = 2
	f.events.rows[created.ID] = 1

	other, err := f.svc.Create(context.Background(), &Patient{
		FirstName: "John", LastName: "Smith",
		Procedures: []*Procedure{{ExamID: uuid.New(), StatusID: uuid.New()}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	*f.deleted = nil
	if err := f.svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []string{"procedures", "appointments", "cases", "events", "patient"}
	if len(*f.deleted) != len(want) {
		t.Fatalf("expected delete order %v, got %v", want, *f.deleted)
	}
	for i, step := range want {
		if (*f.deleted)[i] != step {
			t.Errorf("delete step %d: expected %s, got %s", i, step, (*f.deleted)[i])
		}
	}

	if _, err := f.svc.Get(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Error("patient should be gone")
	}
	if procs, _ := f.procs.ListByPatient(context.Background(), created.ID); len(procs) != 0 {
		t.Error("procedures should be gone")
	}
	if appts, _ := f.appts.ListByPatient(context.Background(), created.ID); len(appts) != 0 {
		t.Error("appointments should be gone")
	}
	if _, ok := f.cases.rows[created.ID]; ok {
		t.Error("cases should be gone")
	}
	if _, ok := f.events.rows[created.ID]; ok {
		t.Error("events should be gone")
	}

	// The other patient is untouched.
	if _, err := f.svc.Get(context.Background(), other.ID); err != nil {
		t.Errorf("unrelated patient was affected: %v", err)
	}
	if procs, _ := f.procs.ListByPatient(context.Background(), other.ID); len(procs) != 1 {
		t.Error("unrelated procedures were affected")
	}
}

func TestDelete_NotFoundRollsBackDependentDeletes(t *testing.T) {
	f := newFixture()
	ghost := uuid.New()
	// Orphaned child rows with no parent patient.
	f.appts.appts[uuid.New()] = &scheduling.Appointment{ID: uuid.New(), PatientID: ghost}
	f.cases.rows[ghost] = 1

	err := f.svc.Delete(context.Background(), ghost)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if appts, _ := f.appts.ListByPatient(context.Background(), ghost); len(appts) != 1 {
		t.Error("appointment delete should have been rolled back")
	}
	if _, ok := f.cases.rows[ghost]; !ok {
		t.Error("case delete should have been rolled back")
	}
}

func TestDelete_RequiresID(t *testing.T) {
	f := newFixture()
	err := f.svc.Delete(context.Background(), uuid.Nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if f.tx.calls != 0 {
		t.Error("transaction should not open for a missing id")
	}
}

// -- Read projections --

func TestGet_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_EmptyProceduresIsNotNil(t *testing.T) {
	f := newFixture()
	// A patient can end up with zero procedures after manual cleanup.
	p := &Patient{FirstName: "Solo", LastName: "Row"}
	if err := f.patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	got, err := f.svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Procedures == nil {
		t.Error("procedures should be an empty slice, not nil")
	}
}

func TestList_OrderedByName(t *testing.T) {
	f := newFixture()
	for _, name := range [][2]string{{"Zoe", "Adams"}, {"Amy", "Adams"}, {"Bob", "Baker"}} {
		_, err := f.svc.Create(context.Background(), &Patient{
			FirstName: name[0], LastName: name[1],
			Procedures: []*Procedure{{ExamID: uuid.New(), StatusID: uuid.New()}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	items, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 patients, got %d", len(items))
	}
	got := []string{items[0].FullName, items[1].FullName, items[2].FullName}
	want := []string{"Adams, Amy", "Adams, Zoe", "Baker, Bob"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	for _, p := range items {
		if len(p.Procedures) != 1 {
			t.Errorf("patient %s: expected 1 procedure, got %d", p.FullName, len(p.Procedures))
		}
	}
}
