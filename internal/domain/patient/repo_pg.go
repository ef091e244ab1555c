package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcase/backoffice/internal/domain/reference"
	"github.com/medcase/backoffice/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const joinedPatientQuery = `
	SELECT p.id, p.first_name, p.last_name, p.middle_name, p.date_of_birth, p.gender,
		p.phone, p.email, p.address, p.city, p.state, p.zip, p.order_date,
		p.status_id, p.payer_id, p.created_at, p.updated_at,
		s.name, s.category, s.sort_order,
		py.name, py.payer_type, py.phone, py.address
	FROM patient p
	LEFT JOIN status s ON s.id = p.status_id
	LEFT JOIN payer py ON py.id = p.payer_id`

func scanJoinedPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var statusName, statusCategory *string
	var statusSort *int
	var payerName, payerType, payerPhone, payerAddress *string

	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.MiddleName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.City, &p.State, &p.Zip, &p.OrderDate,
		&p.StatusID, &p.PayerID, &p.CreatedAt, &p.UpdatedAt,
		&statusName, &statusCategory, &statusSort,
		&payerName, &payerType, &payerPhone, &payerAddress)
	if err != nil {
		return nil, err
	}

	p.FullName = p.DisplayName()
	if p.StatusID != nil && statusName != nil {
		p.Status = &reference.Status{ID: *p.StatusID, Name: *statusName, Category: statusCategory, SortOrder: statusSort}
	}
	if p.PayerID != nil && payerName != nil {
		p.Payer = &reference.Payer{ID: *p.PayerID, Name: *payerName, PayerType: payerType, Phone: payerPhone, Address: payerAddress}
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, middle_name, date_of_birth, gender,
			phone, email, address, city, state, zip, order_date, status_id, payer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.FirstName, p.LastName, p.MiddleName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address, p.City, p.State, p.Zip, p.OrderDate, p.StatusID, p.PayerID)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanJoinedPatient(conn(ctx, r.pool).QueryRow(ctx, joinedPatientQuery+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, middle_name=$4, date_of_birth=$5,
			gender=$6, phone=$7, email=$8, address=$9, city=$10, state=$11, zip=$12,
			order_date=$13, status_id=$14, payer_id=$15, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.MiddleName, p.DateOfBirth,
		p.Gender, p.Phone, p.Email, p.Address, p.City, p.State, p.Zip,
		p.OrderDate, p.StatusID, p.PayerID)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, joinedPatientQuery+` ORDER BY p.last_name, p.first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanJoinedPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// =========== Procedure Repository ===========

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) ProcedureRepository { return &procedureRepoPG{pool: pool} }

// Exam, status, facility and physician are NOT NULL foreign keys, so plain
// joins are safe here.
const joinedProcedureQuery = `
	SELECT pr.id, pr.patient_id, pr.exam_id, pr.status_id, pr.facility_id, pr.physician_id,
		pr.schedule_date, pr.schedule_time, pr.lop, pr.is_completed, pr.created_at, pr.updated_at,
		e.name, e.modality, e.description,
		s.name, s.category, s.sort_order,
		f.name, f.address, f.city, f.state, f.zip, f.phone, f.active,
		ph.name, ph.specialty, ph.npi, ph.phone, ph.active
	FROM procedure pr
	JOIN exam e ON e.id = pr.exam_id
	JOIN status s ON s.id = pr.status_id
	JOIN facility f ON f.id = pr.facility_id
	JOIN physician ph ON ph.id = pr.physician_id`

func scanJoinedProcedure(row pgx.Row) (*Procedure, error) {
	var pr Procedure
	var exam reference.Exam
	var status reference.Status
	var facility reference.Facility
	var physician reference.Physician

	err := row.Scan(&pr.ID, &pr.PatientID, &pr.ExamID, &pr.StatusID, &pr.FacilityID, &pr.PhysicianID,
		&pr.ScheduleDate, &pr.ScheduleTime, &pr.LOP, &pr.IsCompleted, &pr.CreatedAt, &pr.UpdatedAt,
		&exam.Name, &exam.Modality, &exam.Description,
		&status.Name, &status.Category, &status.SortOrder,
		&facility.Name, &facility.Address, &facility.City, &facility.State, &facility.Zip, &facility.Phone, &facility.Active,
		&physician.Name, &physician.Specialty, &physician.NPI, &physician.Phone, &physician.Active)
	if err != nil {
		return nil, err
	}

	exam.ID = pr.ExamID
	status.ID = pr.StatusID
	facility.ID = pr.FacilityID
	physician.ID = pr.PhysicianID
	pr.Exam = &exam
	pr.Status = &status
	pr.Facility = &facility
	pr.Physician = &physician
	return &pr, nil
}

func collectProcedures(rows pgx.Rows) ([]*Procedure, error) {
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		pr, err := scanJoinedProcedure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, pr)
	}
	return items, rows.Err()
}

func (r *procedureRepoPG) Create(ctx context.Context, pr *Procedure) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO procedure (id, patient_id, exam_id, status_id, facility_id, physician_id,
			schedule_date, schedule_time, lop, is_completed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		pr.ID, pr.PatientID, pr.ExamID, pr.StatusID, pr.FacilityID, pr.PhysicianID,
		pr.ScheduleDate, pr.ScheduleTime, pr.LOP, pr.IsCompleted)
	return err
}

func (r *procedureRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Procedure, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, joinedProcedureQuery+` WHERE pr.patient_id = $1 ORDER BY pr.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	return collectProcedures(rows)
}

func (r *procedureRepoPG) ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Procedure, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, joinedProcedureQuery+` WHERE pr.patient_id = ANY($1) ORDER BY pr.created_at`, patientIDs)
	if err != nil {
		return nil, err
	}
	return collectProcedures(rows)
}

func (r *procedureRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM procedure WHERE patient_id = $1`, patientID)
	return err
}
