package visit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const visitCols = `id, patient_id, visit_date, status, chief_complaint, notes,
	created_by, updated_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_visits (id, patient_id, visit_date, status, chief_complaint, notes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.PatientID, v.VisitDate, v.Status, v.ChiefComplaint, v.Notes, v.CreatedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	v, err := scanVisit(r.pool.QueryRow(ctx, `SELECT `+visitCols+` FROM patient_visits WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient_visits SET
			chief_complaint=$2, notes=$3, updated_by=$4, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.ChiefComplaint, v.Notes, v.UpdatedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus is a conditional UPDATE: the WHERE clause on the expected
// status makes the assessment-check-then-write sequence safe against
// concurrent transitions on the same visit, across server replicas.
func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus, expectedCurrent Status, changedBy uuid.UUID) (*Visit, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patient_visits SET status=$2, updated_by=$4, updated_at=NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+visitCols,
		id, newStatus, expectedCurrent, changedBy,
	)
	v, err := scanVisit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the visit is gone or another transition won the race.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConflict
	}
	return v, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_visits WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+visitCols+` FROM patient_visits WHERE patient_id = $1 ORDER BY visit_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectVisits(rows, total)
}

func (r *repoPG) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_visits WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+visitCols+` FROM patient_visits WHERE status = $1 ORDER BY visit_date DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectVisits(rows, total)
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*Visit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+visitCols+` FROM patient_visits ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	visits, _, err := collectVisits(rows, 0)
	return visits, err
}

func (r *repoPG) ListToday(ctx context.Context) ([]*Visit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+visitCols+` FROM patient_visits
		 WHERE visit_date >= date_trunc('day', NOW())
		   AND visit_date < date_trunc('day', NOW()) + INTERVAL '1 day'
		 ORDER BY visit_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	visits, _, err := collectVisits(rows, 0)
	return visits, err
}

func (r *repoPG) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_visits WHERE status = $1`, StatusOpen).Scan(&count)
	return count, err
}

func (r *repoPG) AddStatusHistory(ctx context.Context, h *StatusHistory) error {
	h.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit_status_history (id, visit_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		h.ID, h.VisitID, h.FromStatus, h.ToStatus, h.ChangedBy, h.ChangedAt,
	)
	return err
}

func (r *repoPG) GetStatusHistory(ctx context.Context, visitID uuid.UUID) ([]*StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_id, from_status, to_status, changed_by, changed_at
		FROM visit_status_history WHERE visit_id = $1 ORDER BY changed_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*StatusHistory
	for rows.Next() {
		var h StatusHistory
		if err := rows.Scan(&h.ID, &h.VisitID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(
		&v.ID, &v.PatientID, &v.VisitDate, &v.Status, &v.ChiefComplaint, &v.Notes,
		&v.CreatedBy, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVisits(rows pgx.Rows, total int) ([]*Visit, int, error) {
	var visits []*Visit
	for rows.Next() {
		var v Visit
		err := rows.Scan(
			&v.ID, &v.PatientID, &v.VisitDate, &v.Status, &v.ChiefComplaint, &v.Notes,
			&v.CreatedBy, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		visits = append(visits, &v)
	}
	return visits, total, rows.Err()
}
