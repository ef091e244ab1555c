package scheduling

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// joinedApptQuery pulls the doctor, exam and status rows alongside the
// appointment so a single query serves the projection.
const joinedApptQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.exam_id, a.status_id,
		a.appointment_date, a.appointment_time, a.notes, a.created_at, a.updated_at,
		d.name, d.practice, d.phone, d.fax,
		e.name, e.modality, e.description,
		s.name, s.category, s.sort_order
	FROM appointment a
	LEFT JOIN doctor d ON d.id = a.doctor_id
	LEFT JOIN exam e ON e.id = a.exam_id
	LEFT JOIN status s ON s.id = a.status_id`

func scanJoinedAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var docName, docPractice, docPhone, docFax *string
	var examName, examModality, examDescription *string
	var statusName, statusCategory *string
	var statusSort *int

	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ExamID, &a.StatusID,
		&a.AppointmentDate, &a.AppointmentTime, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&docName, &docPractice, &docPhone, &docFax,
		&examName, &examModality, &examDescription,
		&statusName, &statusCategory, &statusSort)
	if err != nil {
		return nil, err
	}

	if a.DoctorID != nil && docName != nil {
		a.Doctor = &reference.Doctor{ID: *a.DoctorID, Name: *docName, Practice: docPractice, Phone: docPhone, Fax: docFax}
	}
	if a.ExamID != nil && examName != nil {
		a.Exam = &reference.Exam{ID: *a.ExamID, Name: *examName, Modality: examModality, Description: examDescription}
	}
	if a.StatusID != nil && statusName != nil {
		a.Status = &reference.Status{ID: *a.StatusID, Name: *statusName, Category: statusCategory, SortOrder: statusSort}
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanJoinedAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, exam_id, status_id,
			appointment_date, appointment_time, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.DoctorID, a.ExamID, a.StatusID,
		a.AppointmentDate, a.AppointmentTime, a.Notes)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanJoinedAppointment(r.conn(ctx).QueryRow(ctx, joinedApptQuery+` WHERE a.id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET doctor_id=$2, exam_id=$3, status_id=$4,
			appointment_date=$5, appointment_time=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.ExamID, a.StatusID,
		a.AppointmentDate, a.AppointmentTime, a.Notes)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, joinedApptQuery+` ORDER BY a.appointment_date DESC NULLS LAST, a.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, joinedApptQuery+` WHERE a.patient_id = $1 ORDER BY a.appointment_date NULLS LAST, a.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *appointmentRepoPG) ListByPatients(ctx context.Context, patientIDs []uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, joinedApptQuery+` WHERE a.patient_id = ANY($1) ORDER BY a.appointment_date NULLS LAST, a.created_at`, patientIDs)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *appointmentRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE patient_id = $1`, patientID)
	return err
}
