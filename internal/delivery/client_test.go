package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kontentsource/internal/config"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

func testDeliveryConfig(baseURL string) config.DeliveryConfig {
	return config.DeliveryConfig{
		ProjectID: "project-1",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		PageSize:  2,
		Retry: config.RetryConfig{
			Mode:       config.RetryBackoffFixed,
			Initial:    time.Millisecond,
			Max:        time.Millisecond,
			MaxRetries: 2,
		},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestHTTPClient_ItemsPaginates(t *testing.T) {
	all := []Item{
		{System: System{Codename: "a", Language: "cz"}},
		{System: System{Codename: "b", Language: "cz"}},
		{System: System{Codename: "c", Language: "cz"}},
	}
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		require.Equal(t, "/project-1/items", r.URL.Path)
		require.Equal(t, "cz", r.URL.Query().Get("language"))
		require.Equal(t, "0", r.URL.Query().Get("depth"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		end := min(skip+2, len(all))
		next := ""
		if end < len(all) {
			next = "next"
		}
		writeJSON(t, w, itemsResponse{
			Items:      all[skip:end],
			Pagination: Pagination{Skip: skip, Limit: 2, Count: end - skip, NextPage: next},
		})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(testDeliveryConfig(srv.URL))
	require.NoError(t, err)

	items, err := client.Items(context.Background(), "cz")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "c", items[2].System.Codename)
	require.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestHTTPClient_SendsAuthAndCustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer preview-key", r.Header.Get("Authorization"))
		require.Equal(t, "yes", r.Header.Get("X-Custom"))
		require.Equal(t, "/project-1/types", r.URL.Path)
		writeJSON(t, w, typesResponse{Types: []ContentType{{System: TypeSystem{Codename: "article"}}}})
	}))
	defer srv.Close()

	dc := testDeliveryConfig("https://unused.invalid")
	dc.PreviewURL = srv.URL
	dc.PreviewAPIKey = "preview-key"
	dc.Headers = []config.Header{{Header: "X-Custom", Value: "yes"}}

	client, err := NewHTTPClient(dc)
	require.NoError(t, err)

	types, err := client.Types(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Equal(t, "article", types[0].System.Codename)
}

func TestHTTPClient_TypesDecodeMultipleChoiceOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/project-1/types", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"types":[{"system":{"id":"t1","name":"Article","codename":"article"},` +
			`"elements":{"status":{"type":"multiple_choice","name":"Status","options":[` +
			`{"name":"Draft","codename":"draft"},{"name":"Live","codename":"live"}]}}}],` +
			`"pagination":{"next_page":""}}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(testDeliveryConfig(srv.URL))
	require.NoError(t, err)

	types, err := client.Types(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Equal(t, []TypeOption{
		{Name: "Draft", Codename: "draft"},
		{Name: "Live", Codename: "live"},
	}, types[0].Elements["status"].Options)
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, taxonomiesResponse{Taxonomies: []Taxonomy{{System: TypeSystem{Codename: "personas"}}}})
	}))
	defer srv.Close()

	var observed []int
	client, err := NewHTTPClient(testDeliveryConfig(srv.URL), WithRetryObserver(func(resource string, attempt int, err error) {
		require.Equal(t, "taxonomies", resource)
		observed = append(observed, attempt)
	}))
	require.NoError(t, err)

	taxonomies, err := client.Taxonomies(context.Background())
	require.NoError(t, err)
	require.Len(t, taxonomies, 1)
	require.Equal(t, []int{1}, observed)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestHTTPClient_DoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"project not found","request_id":"r1","error_code":100}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(testDeliveryConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.Items(context.Background(), "default")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	classified, _ := errors.AsClassified(err)
	response, _ := classified.Context().GetString("response")
	require.Equal(t, "project not found", response)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestHTTPClient_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(testDeliveryConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.Types(context.Background())
	require.True(t, errors.HasCategory(err, errors.CategoryAuth))
	require.False(t, errors.IsRetryable(err))
}

func TestNewHTTPClient_RequiresProject(t *testing.T) {
	_, err := NewHTTPClient(config.DeliveryConfig{})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
