package publications_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/publications"
	"github.com/interu-app/interu-cli/session"
)

func newClient(t *testing.T, handler http.Handler, loggedIn bool) *publications.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if loggedIn {
		require.NoError(t, store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))
	}
	return publications.NewClient(api.NewClient(server.URL, store))
}

func samplePublication(id int) map[string]any {
	return map[string]any{
		"id":             id,
		"tipo":           "oferta",
		"titulo":         "Clases de Go",
		"descripcion":    "Intercambio clases de Go por diseño UX.",
		"habilidades":    []string{"Go", "Docencia"},
		"modalidad":      "remoto",
		"disponibilidad": "proyecto",
		"area":           "Backend",
		"autor_alias":    "ada",
		"autor_id":       7,
		"estado":         "activa",
		"created_at":     "2025-03-01T10:00:00Z",
		"updated_at":     "2025-03-02T11:30:00Z",
	}
}

func TestCriteria_Values(t *testing.T) {
	criteria := publications.Criteria{
		Type:   publications.TypeOffer,
		Skills: []string{"React", "UX"},
		Sort:   publications.SortRecent,
	}

	values := criteria.Values()
	assert.Equal(t, "oferta", values.Get("tipo"))
	assert.Equal(t, "React,UX", values.Get("habilidades"))
	assert.Equal(t, "recientes", values.Get("ordenar"))
	assert.NotContains(t, values, "texto")
	assert.NotContains(t, values, "modalidad")

	assert.Contains(t, values.Encode(), "habilidades=React%2CUX")
}

func TestCriteria_Values_Empty(t *testing.T) {
	assert.Empty(t, publications.Criteria{}.Values().Encode())
}

func TestList_SerializesCriteria(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]map[string]any{samplePublication(1)})
	})
	client := newClient(t, mux, false)

	pubs, err := client.List(context.Background(), publications.Criteria{
		Type:   publications.TypeOffer,
		Area:   "Backend",
		Skills: []string{"Go", "SQL"},
	})
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "Clases de Go", pubs[0].Title)
	assert.Equal(t, publications.StateActive, pubs[0].State)

	assert.Contains(t, gotQuery, "tipo=oferta")
	assert.Contains(t, gotQuery, "area=Backend")
	assert.Contains(t, gotQuery, "habilidades=Go%2CSQL")
}

func TestList_EmptyResultIsSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	})
	client := newClient(t, mux, false)

	pubs, err := client.List(context.Background(), publications.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, pubs)
}

func TestGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/42/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(samplePublication(42))
	})
	client := newClient(t, mux, false)

	pub, err := client.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, pub.ID)
	assert.Equal(t, publications.TypeOffer, pub.Type)
	assert.Equal(t, publications.ModalityRemote, pub.Modality)
}

func TestListMine_RequiresSession(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	client := publications.NewClient(api.NewClient(server.URL, store))

	_, err := client.ListMine(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
	assert.Equal(t, int32(0), calls.Load())
}

func validDraft() publications.Draft {
	return publications.Draft{
		Type:         publications.TypeDemand,
		Title:        "Busco mentor de UX",
		Description:  "Ofrezco clases de matemática a cambio.",
		Skills:       []string{"Figma"},
		Modality:     publications.ModalityHybrid,
		Availability: publications.AvailabilityPartTime,
		Area:         "Diseño",
	}
}

func TestCreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demanda", body["tipo"])
		// Author attribution is server-derived, never client-supplied.
		assert.NotContains(t, body, "autor_id")
		assert.NotContains(t, body, "autor_alias")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(samplePublication(99))
	})
	client := newClient(t, mux, true)

	pub, err := client.Create(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, 99, pub.ID)
}

func TestCreate_InvalidDraftRejectedLocally(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))
	client := publications.NewClient(api.NewClient(server.URL, store))

	draft := validDraft()
	draft.Title = ""
	_, err := client.Create(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestUpdate_SendsOnlyChangedFields(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/42/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(samplePublication(42))
	})
	client := newClient(t, mux, true)

	state := publications.StatePaused
	_, err := client.Update(context.Background(), 42, publications.Patch{State: &state})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"estado": "pausada"}, gotBody)
}

func TestDelete_ForbiddenForNonAuthor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/publicaciones/42/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "No puedes eliminar publicaciones de otro usuario."}`))
	})
	client := newClient(t, mux, true)

	err := client.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, api.ErrForbidden)
}
