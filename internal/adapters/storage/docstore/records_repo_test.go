package docstore_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"health-monitor/internal/adapters/storage/docstore"
	"health-monitor/internal/adapters/storage/storagetest"
	"health-monitor/internal/domain/records"
	"health-monitor/internal/platform/httpclient"

	"github.com/stretchr/testify/require"
)

// fakeStore implementa el protocolo del document store en memoria.
type fakeStore struct {
	mu   sync.Mutex
	docs []map[string]any
}

func (s *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Api-Key") != "k" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if parts[0] != "records" {
		http.NotFound(w, r)
		return
	}
	owner := r.URL.Query().Get("owner")

	switch {
	case r.Method == http.MethodPost && len(parts) == 1:
		var d map[string]any
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		for _, existing := range s.docs {
			if existing["id"] == d["id"] {
				http.Error(w, "conflict", http.StatusConflict)
				return
			}
		}
		s.docs = append(s.docs, d)
		w.WriteHeader(http.StatusCreated)

	case r.Method == http.MethodGet && len(parts) == 1:
		out := []map[string]any{}
		for _, d := range s.docs {
			if d["owner_user_id"] == owner {
				out = append(out, d)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"documents": out})

	case r.Method == http.MethodDelete && len(parts) == 2:
		for i, d := range s.docs {
			if d["id"] == parts[1] && d["owner_user_id"] == owner {
				s.docs = append(s.docs[:i], s.docs[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)

	case r.Method == http.MethodDelete && len(parts) == 1:
		kept := s.docs[:0]
		n := 0
		for _, d := range s.docs {
			if d["owner_user_id"] == owner {
				n++
				continue
			}
			kept = append(kept, d)
		}
		s.docs = kept
		_ = json.NewEncoder(w).Encode(map[string]int{"deleted": n})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func TestRecordsRepo_Contract(t *testing.T) {
	storagetest.RunRepositoryContract(t, func(t *testing.T) records.Repository {
		ts := httptest.NewServer(&fakeStore{})
		t.Cleanup(ts.Close)

		c, err := httpclient.New(httpclient.Options{
			BaseURL: ts.URL,
			Headers: map[string]string{"X-Api-Key": "k"},
		})
		require.NoError(t, err)
		return docstore.NewRecordsRepo(c, "records")
	})
}
