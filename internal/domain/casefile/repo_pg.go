package casefile

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

// =========== Case Repository ===========

type caseRepoPG struct{ pool *pgxpool.Pool }

func NewCaseRepoPG(pool *pgxpool.Pool) CaseRepository { return &caseRepoPG{pool: pool} }

const caseCols = `id, patient_id, case_number, payer_id, attorney_name, opened_date, closed_date, notes, created_at, updated_at`

func scanCase(row pgx.Row) (*Case, error) {
	var cs Case
	err := row.Scan(&cs.ID, &cs.PatientID, &cs.CaseNumber, &cs.PayerID, &cs.AttorneyName,
		&cs.OpenedDate, &cs.ClosedDate, &cs.Notes, &cs.CreatedAt, &cs.UpdatedAt)
	return &cs, err
}

func (r *caseRepoPG) Create(ctx context.Context, cs *Case) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO case_file (id, patient_id, case_number, payer_id, attorney_name, opened_date, closed_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		cs.ID, cs.PatientID, cs.CaseNumber, cs.PayerID, cs.AttorneyName,
		cs.OpenedDate, cs.ClosedDate, cs.Notes)
	return err
}

func (r *caseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return scanCase(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+caseCols+` FROM case_file WHERE id = $1`, id))
}

func (r *caseRepoPG) Update(ctx context.Context, cs *Case) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE case_file SET case_number=$2, payer_id=$3, attorney_name=$4,
			opened_date=$5, closed_date=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		cs.ID, cs.CaseNumber, cs.PayerID, cs.AttorneyName,
		cs.OpenedDate, cs.ClosedDate, cs.Notes)
	return err
}

func (r *caseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM case_file WHERE id = $1`, id)
	return err
}

func (r *caseRepoPG) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM case_file`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+caseCols+` FROM case_file ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cs)
	}
	return items, total, nil
}

func (r *caseRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Case, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+caseCols+` FROM case_file WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

func (r *caseRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM case_file WHERE patient_id = $1`, patientID)
	return err
}

// =========== Event Repository ===========

type eventRepoPG struct{ pool *pgxpool.Pool }

func NewEventRepoPG(pool *pgxpool.Pool) EventRepository { return &eventRepoPG{pool: pool} }

const eventCols = `id, patient_id, case_id, title, event_date, notes, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var ev Event
	err := row.Scan(&ev.ID, &ev.PatientID, &ev.CaseID, &ev.Title, &ev.EventDate,
		&ev.Notes, &ev.CreatedAt, &ev.UpdatedAt)
	return &ev, err
}

func (r *eventRepoPG) Create(ctx context.Context, ev *Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO event (id, patient_id, case_id, title, event_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		ev.ID, ev.PatientID, ev.CaseID, ev.Title, ev.EventDate, ev.Notes)
	return err
}

func (r *eventRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return scanEvent(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+eventCols+` FROM event WHERE id = $1`, id))
}

func (r *eventRepoPG) Update(ctx context.Context, ev *Event) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE event SET case_id=$2, title=$3, event_date=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		ev.ID, ev.CaseID, ev.Title, ev.EventDate, ev.Notes)
	return err
}

func (r *eventRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	return err
}

func (r *eventRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Event, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+eventCols+` FROM event WHERE patient_id = $1 ORDER BY event_date NULLS LAST, created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ev)
	}
	return items, rows.Err()
}

func (r *eventRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM event WHERE patient_id = $1`, patientID)
	return err
}
