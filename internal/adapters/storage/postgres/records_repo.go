package postgres

import (
	"context"
	"database/sql"
	"strings"

	"health-monitor/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (
			id, owner_user_id, taken_at,
			systolic, diastolic, glycemia, heart_rate,
			note, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rec.ID,
		rec.OwnerUserID,
		rec.TakenAt,
		toNullFloat(rec.Systolic),
		toNullFloat(rec.Diastolic),
		toNullFloat(rec.Glycemia),
		toNullFloat(rec.HeartRate),
		rec.Note,
		rec.CreatedAt,
	)
	return err
}

func (r *RecordsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.HealthRecord, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, taken_at,
			systolic, diastolic, glycemia, heart_rate,
			note, created_at
		FROM health_records
		WHERE owner_user_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.HealthRecord, 0)
	for rows.Next() {
		var (
			rec                  records.HealthRecord
			sys, dia, gly, hrate sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerUserID,
			&rec.TakenAt,
			&sys,
			&dia,
			&gly,
			&hrate,
			&rec.Note,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		rec.Systolic = fromNullFloat(sys)
		rec.Diastolic = fromNullFloat(dia)
		rec.Glycemia = fromNullFloat(gly)
		rec.HeartRate = fromNullFloat(hrate)

		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM health_records
		WHERE id = $1 AND owner_user_id = $2
	`, strings.TrimSpace(id), ownerUserID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (r *RecordsRepo) DeleteAll(ctx context.Context, ownerUserID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM health_records WHERE owner_user_id = $1
	`, ownerUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// mediciones opcionales => NULL
func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
