// Package docstore guarda registros en un document store remoto vía HTTP/JSON.
//
// Protocolo (una colección por tipo de documento):
//
//	POST   {base}/{collection}              crea documento
//	GET    {base}/{collection}?owner=ID     {"documents":[...]}
//	DELETE {base}/{collection}/{id}?owner=ID  404 si no existe
//	DELETE {base}/{collection}?owner=ID     {"deleted":n}
package docstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"health-monitor/internal/domain/records"
	"health-monitor/internal/platform/httpclient"
)

const DefaultCollection = "health_records"

// document es la forma en el cable; mediciones ausentes se omiten.
type document struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	TakenAt     time.Time `json:"taken_at"`
	Systolic    *float64  `json:"systolic,omitempty"`
	Diastolic   *float64  `json:"diastolic,omitempty"`
	Glycemia    *float64  `json:"glycemia,omitempty"`
	HeartRate   *float64  `json:"heart_rate,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type listResponse struct {
	Documents []document `json:"documents"`
}

type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

type RecordsRepo struct {
	client     *httpclient.Client
	collection string
}

func NewRecordsRepo(client *httpclient.Client, collection string) *RecordsRepo {
	collection = strings.Trim(strings.TrimSpace(collection), "/")
	if collection == "" {
		collection = DefaultCollection
	}
	return &RecordsRepo{client: client, collection: collection}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	if err := r.client.DoJSON(ctx, http.MethodPost, "/"+r.collection, nil, toDocument(rec), nil); err != nil {
		return fmt.Errorf("docstore: create: %w", err)
	}
	return nil
}

func (r *RecordsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.HealthRecord, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	var resp listResponse
	if err := r.client.DoJSON(ctx, http.MethodGet, r.path("", ownerUserID), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("docstore: list: %w", err)
	}

	out := make([]records.HealthRecord, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		// el store filtra por owner, pero no confiamos ciegamente
		if d.OwnerUserID != ownerUserID {
			continue
		}
		out = append(out, fromDocument(d))
	}
	return out, nil
}

func (r *RecordsRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.ErrNotFound
	}
	err := r.client.DoJSON(ctx, http.MethodDelete, r.path(id, ownerUserID), nil, nil, nil)
	if err != nil {
		if httpclient.StatusOf(err) == http.StatusNotFound {
			return records.ErrNotFound
		}
		return fmt.Errorf("docstore: delete: %w", err)
	}
	return nil
}

func (r *RecordsRepo) DeleteAll(ctx context.Context, ownerUserID string) (int, error) {
	var resp deleteAllResponse
	if err := r.client.DoJSON(ctx, http.MethodDelete, r.path("", ownerUserID), nil, nil, &resp); err != nil {
		return 0, fmt.Errorf("docstore: delete all: %w", err)
	}
	return resp.Deleted, nil
}

func (r *RecordsRepo) path(id, owner string) string {
	p := "/" + r.collection
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p + "?" + url.Values{"owner": {owner}}.Encode()
}

func toDocument(rec records.HealthRecord) document {
	return document{
		ID:          rec.ID,
		OwnerUserID: rec.OwnerUserID,
		TakenAt:     rec.TakenAt,
		Systolic:    rec.Systolic,
		Diastolic:   rec.Diastolic,
		Glycemia:    rec.Glycemia,
		HeartRate:   rec.HeartRate,
		Note:        rec.Note,
		CreatedAt:   rec.CreatedAt,
	}
}

func fromDocument(d document) records.HealthRecord {
	return records.HealthRecord{
		ID:          d.ID,
		OwnerUserID: d.OwnerUserID,
		TakenAt:     d.TakenAt,
		Systolic:    d.Systolic,
		Diastolic:   d.Diastolic,
		Glycemia:    d.Glycemia,
		HeartRate:   d.HeartRate,
		Note:        d.Note,
		CreatedAt:   d.CreatedAt,
	}
}
