package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"health-monitor/internal/domain/records"
)

// RecordsRepo guarda instantes como unix nanos (UTC) para que el orden sea numérico.
type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (
			id, owner_user_id, taken_at_ns,
			systolic, diastolic, glycemia, heart_rate,
			note, created_at_ns
		) VALUES (?,?,?,?,?,?,?,?,?)
	`,
		rec.ID,
		rec.OwnerUserID,
		rec.TakenAt.UnixNano(),
		toNullFloat(rec.Systolic),
		toNullFloat(rec.Diastolic),
		toNullFloat(rec.Glycemia),
		toNullFloat(rec.HeartRate),
		rec.Note,
		rec.CreatedAt.UnixNano(),
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
			id, owner_user_id, taken_at_ns,
			systolic, diastolic, glycemia, heart_rate,
			note, created_at_ns
		FROM health_records
		WHERE owner_user_id = ?
		ORDER BY created_at_ns ASC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.HealthRecord, 0)
	for rows.Next() {
		var (
			rec                  records.HealthRecord
			takenNs, createdNs   int64
			sys, dia, gly, hrate sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerUserID,
			&takenNs,
			&sys,
			&dia,
			&gly,
			&hrate,
			&rec.Note,
			&createdNs,
		); err != nil {
			return nil, err
		}

		rec.TakenAt = time.Unix(0, takenNs).UTC()
		rec.CreatedAt = time.Unix(0, createdNs).UTC()
		rec.Systolic = fromNullFloat(sys)
		rec.Diastolic = fromNullFloat(dia)
		rec.Glycemia = fromNullFloat(gly)
		rec.HeartRate = fromNullFloat(hrate)

		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM health_records WHERE id = ? AND owner_user_id = ?`,
		strings.TrimSpace(id), ownerUserID,
	)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE owner_user_id = ?`, ownerUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

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
