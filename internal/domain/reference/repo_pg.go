package reference

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

// =========== Status Repository ===========

type statusRepoPG struct{ pool *pgxpool.Pool }

func NewStatusRepoPG(pool *pgxpool.Pool) StatusRepository { return &statusRepoPG{pool: pool} }

const statusCols = `id, name, category, sort_order, created_at, updated_at`

func scanStatus(row pgx.Row) (*Status, error) {
	var s Status
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *statusRepoPG) Create(ctx context.Context, s *Status) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO status (id, name, category, sort_order)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.Name, s.Category, s.SortOrder)
	return err
}

func (r *statusRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Status, error) {
	return scanStatus(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+statusCols+` FROM status WHERE id = $1`, id))
}

func (r *statusRepoPG) Update(ctx context.Context, s *Status) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE status SET name=$2, category=$3, sort_order=$4, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Category, s.SortOrder)
	return err
}

func (r *statusRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM status WHERE id = $1`, id)
	return err
}

func (r *statusRepoPG) List(ctx context.Context, limit, offset int) ([]*Status, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM status`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+statusCols+` FROM status ORDER BY sort_order NULLS LAST, name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

// =========== Payer Repository ===========

type payerRepoPG struct{ pool *pgxpool.Pool }

func NewPayerRepoPG(pool *pgxpool.Pool) PayerRepository { return &payerRepoPG{pool: pool} }

const payerCols = `id, name, payer_type, phone, address, created_at, updated_at`

func scanPayer(row pgx.Row) (*Payer, error) {
	var p Payer
	err := row.Scan(&p.ID, &p.Name, &p.PayerType, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *payerRepoPG) Create(ctx context.Context, p *Payer) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO payer (id, name, payer_type, phone, address)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.PayerType, p.Phone, p.Address)
	return err
}

func (r *payerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return scanPayer(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+payerCols+` FROM payer WHERE id = $1`, id))
}

func (r *payerRepoPG) Update(ctx context.Context, p *Payer) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE payer SET name=$2, payer_type=$3, phone=$4, address=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.PayerType, p.Phone, p.Address)
	return err
}

func (r *payerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM payer WHERE id = $1`, id)
	return err
}

func (r *payerRepoPG) List(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM payer`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+payerCols+` FROM payer ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Payer
	for rows.Next() {
		p, err := scanPayer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Exam Repository ===========

type examRepoPG struct{ pool *pgxpool.Pool }

func NewExamRepoPG(pool *pgxpool.Pool) ExamRepository { return &examRepoPG{pool: pool} }

const examCols = `id, name, modality, description, created_at, updated_at`

func scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.Name, &e.Modality, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *examRepoPG) Create(ctx context.Context, e *Exam) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO exam (id, name, modality, description)
		VALUES ($1,$2,$3,$4)`,
		e.ID, e.Name, e.Modality, e.Description)
	return err
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return scanExam(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+examCols+` FROM exam WHERE id = $1`, id))
}

func (r *examRepoPG) Update(ctx context.Context, e *Exam) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE exam SET name=$2, modality=$3, description=$4, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Modality, e.Description)
	return err
}

func (r *examRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM exam WHERE id = $1`, id)
	return err
}

func (r *examRepoPG) List(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM exam`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+examCols+` FROM exam ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

// =========== Facility Repository ===========

type facilityRepoPG struct{ pool *pgxpool.Pool }

func NewFacilityRepoPG(pool *pgxpool.Pool) FacilityRepository { return &facilityRepoPG{pool: pool} }

const facilityCols = `id, name, address, city, state, zip, phone, active, created_at, updated_at`

func scanFacility(row pgx.Row) (*Facility, error) {
	var f Facility
	err := row.Scan(&f.ID, &f.Name, &f.Address, &f.City, &f.State, &f.Zip, &f.Phone, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *facilityRepoPG) Create(ctx context.Context, f *Facility) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO facility (id, name, address, city, state, zip, phone, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		f.ID, f.Name, f.Address, f.City, f.State, f.Zip, f.Phone, f.Active)
	return err
}

func (r *facilityRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return scanFacility(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+facilityCols+` FROM facility WHERE id = $1`, id))
}

func (r *facilityRepoPG) Update(ctx context.Context, f *Facility) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE facility SET name=$2, address=$3, city=$4, state=$5, zip=$6, phone=$7, active=$8, updated_at=NOW()
		WHERE id = $1`,
		f.ID, f.Name, f.Address, f.City, f.State, f.Zip, f.Phone, f.Active)
	return err
}

func (r *facilityRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM facility WHERE id = $1`, id)
	return err
}

func (r *facilityRepoPG) List(ctx context.Context, limit, offset int) ([]*Facility, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM facility`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+facilityCols+` FROM facility ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, nil
}

func (r *facilityRepoPG) FirstActive(ctx context.Context) (*Facility, error) {
	return scanFacility(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+facilityCols+` FROM facility WHERE active ORDER BY created_at LIMIT 1`))
}

// =========== Physician Repository ===========

type physicianRepoPG struct{ pool *pgxpool.Pool }

func NewPhysicianRepoPG(pool *pgxpool.Pool) PhysicianRepository { return &physicianRepoPG{pool: pool} }

const physicianCols = `id, name, specialty, npi, phone, active, created_at, updated_at`

func scanPhysician(row pgx.Row) (*Physician, error) {
	var p Physician
	err := row.Scan(&p.ID, &p.Name, &p.Specialty, &p.NPI, &p.Phone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *physicianRepoPG) Create(ctx context.Context, p *Physician) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO physician (id, name, specialty, npi, phone, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Specialty, p.NPI, p.Phone, p.Active)
	return err
}

func (r *physicianRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Physician, error) {
	return scanPhysician(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+physicianCols+` FROM physician WHERE id = $1`, id))
}

func (r *physicianRepoPG) Update(ctx context.Context, p *Physician) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE physician SET name=$2, specialty=$3, npi=$4, phone=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Specialty, p.NPI, p.Phone, p.Active)
	return err
}

func (r *physicianRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM physician WHERE id = $1`, id)
	return err
}

func (r *physicianRepoPG) List(ctx context.Context, limit, offset int) ([]*Physician, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM physician`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+physicianCols+` FROM physician ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Physician
	for rows.Next() {
		p, err := scanPhysician(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *physicianRepoPG) FirstActive(ctx context.Context) (*Physician, error) {
	return scanPhysician(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+physicianCols+` FROM physician WHERE active ORDER BY created_at LIMIT 1`))
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, name, practice, phone, fax, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Practice, &d.Phone, &d.Fax, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctor (id, name, practice, phone, fax)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.Name, d.Practice, d.Phone, d.Fax)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE doctor SET name=$2, practice=$3, phone=$4, fax=$5, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Practice, d.Phone, d.Fax)
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+doctorCols+` FROM doctor ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}
