package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/bioenergy-org/catalog-core/docs"
	"github.com/bioenergy-org/catalog-core/internal/adapters/driven/memory"
	"github.com/bioenergy-org/catalog-core/internal/config"
	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven/mocks"
	"github.com/bioenergy-org/catalog-core/internal/core/services"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	store   *memory.DatasetStore
	handler http.Handler
}

func newTestEnv(t *testing.T, sequences ...driven.SequenceSearcher) *testEnv {
	t.Helper()

	cat, err := config.Default()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewDatasetStore()
	schemas := cat.SchemaRegistry()
	classifier := query.NewClassifier(cat.CategorySet())

	facets := services.NewFacetAggregator(services.FacetAggregatorConfig{
		Store:  store,
		Topics: classifier.Queries(),
		Logger: logger,
	})
	search := services.NewSearchService(services.SearchServiceConfig{
		Store:     store,
		Compiler:  query.NewCompiler(classifier),
		Facets:    facets,
		Scope:     schemas.Scope(),
		Sequences: sequences,
		Logger:    logger,
	})
	datasets := services.NewDatasetService(services.DatasetServiceConfig{
		Store:   store,
		Schemas: schemas,
		Logger:  logger,
	})

	cfg := DefaultConfig()
	cfg.Logger = logger
	server := NewServer(cfg, Services{
		Search:   search,
		Datasets: datasets,
		Store:    store,
	})
	return &testEnv{store: store, handler: server.Handler()}
}

func (e *testEnv) seed(t *testing.T, version string, docs ...map[string]any) {
	t.Helper()
	for _, doc := range docs {
		ds := &domain.Dataset{
			UID:           domain.DatasetUID(doc["brc"].(string), doc["identifier"].(string)),
			SchemaVersion: version,
			Document:      doc,
		}
		require.NoError(t, e.store.Upsert(context.Background(), ds))
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sampleDocs() []map[string]any {
	return []map[string]any{
		{
			"brc":          "JBEI",
			"identifier":   "10.1/a",
			"title":        "Maize genome assembly",
			"date":         "2021-03-01",
			"species":      []any{map[string]any{"scientificName": "Zea mays"}},
			"analysisType": "Genomics",
		},
		{
			"brc":                   "GLBRC",
			"identifier":            "10.1/b",
			"title":                 "Sorghum fermentation yields",
			"date":                  "2019",
			"bibliographicCitation": "Doe et al. 2019",
		},
		{
			"brc":        "CABBI",
			"identifier": "10.1/c",
			"title":      "Switchgrass field trial",
		},
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[StatusResponse](t, rec).Status)

	rec = env.do(t, http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", decode[VersionResponse](t, rec).Version)
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	server := NewServer(DefaultConfig(), Services{
		Store: memory.NewDatasetStore(),
		Cache: failingPinger{},
	})
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "cache unavailable", decode[ErrorResponse](t, rec).Error)
}

func TestAPIDoc(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api-docs/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode[map[string]any](t, rec)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/datasets")
}

func TestSearch_All(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodGet, "/api/datasets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.SearchResult](t, rec)
	assert.Equal(t, 3, result.TotalResults)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "JBEI_10.1/a", result.Items[0]["uid"])
	assert.Equal(t, "0.1.0", result.Items[0]["schema_version"])

	var total int
	for _, fc := range result.Facets["brc"] {
		total += fc.Count
	}
	assert.Equal(t, 3, total)
}

func TestSearch_QueryAndFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	params := url.Values{}
	params.Set("q", "maize OR sorghum")
	params.Set("filters", `{"brc":"JBEI"}`)
	rec := env.do(t, http.MethodGet, "/api/datasets?"+params.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.SearchResult](t, rec)
	assert.Equal(t, 1, result.TotalResults)
	assert.Equal(t, "maize OR sorghum", result.Query.Query)
	assert.Equal(t, domain.FilterValue{"JBEI"}, result.Query.Filters.BRC)
}

func TestSearch_SkipFacets(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	for _, v := range []string{"1", "true", "YES"} {
		rec := env.do(t, http.MethodGet, "/api/datasets?skipFacets="+v, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.NotContains(t, body, "facets", v)
	}
}

func TestSearch_BadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		target string
	}{
		{"bad filters json", "/api/datasets?filters=" + url.QueryEscape("{brc")},
		{"bad filter value", "/api/datasets?filters=" + url.QueryEscape(`{"brc":{"x":1}}`)},
		{"bad page", "/api/datasets?page=two"},
		{"bad rows", "/api/datasets?rows=1.5"},
		{"dangling operator", "/api/datasets?q=" + url.QueryEscape("maize OR")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestSearch_Title(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodGet, "/api/datasets?title=SWITCHGRASS", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.SearchResult](t, rec)
	require.Equal(t, 1, result.TotalResults)
	assert.Equal(t, "CABBI_10.1/c", result.Items[0]["uid"])
	assert.Equal(t, "SWITCHGRASS", result.Query.Title)
}

func TestSearch_Sequence(t *testing.T) {
	ice := mocks.NewMockSequenceSearcher("ice", []domain.SequenceHit{
		{BRC: "JBEI", Identifier: "10.1/a", Document: map[string]any{"title": "pMaize", "repository": "ICE"}},
		{BRC: "JBEI", Identifier: "JPUB_404", Document: map[string]any{"title": "unknown part"}},
	}, nil)
	env := newTestEnv(t, ice)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodPost, "/api/datasets/search", map[string]any{"sequence": "atgc"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.NotContains(t, body, "facets")
	result := decode[domain.SearchResult](t, rec)
	require.Equal(t, 1, result.TotalResults)
	assert.Equal(t, "JBEI_10.1/a", result.Items[0]["uid"])
	assert.Equal(t, "pMaize", result.Items[0]["title"])
	assert.Equal(t, []string{"ATGC"}, ice.Sequences())

	rec = env.do(t, http.MethodGet, "/api/datasets?sequence="+url.QueryEscape("AT G1"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchPost(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodPost, "/api/datasets/search", map[string]any{
		"filters": map[string]any{"species": "Not Specified"},
		"rows":    1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[domain.SearchResult](t, rec)
	assert.Equal(t, 2, result.TotalResults)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Items, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/search", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_ScopeHidesUnsupportedVersions(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.0.8", sampleDocs()[0])

	rec := env.do(t, http.MethodGet, "/api/datasets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[domain.SearchResult](t, rec).TotalResults)

	rec = env.do(t, http.MethodGet, "/api/datasets/"+url.PathEscape("JBEI_10.1/a"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDataset(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodGet, "/api/datasets/CABBI_10.1%2Fc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Switchgrass field trial", body["title"])
	assert.Equal(t, "CABBI_10.1/c", body["uid"])

	rec = env.do(t, http.MethodGet, "/api/datasets/JBEI_missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot find Dataset with identifier: JBEI_missing", decode[MessageResponse](t, rec).Message)
}

func TestListPublished(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "0.1.0", sampleDocs()...)

	rec := env.do(t, http.MethodGet, "/api/datasets/published", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "GLBRC_10.1/b", items[0]["uid"])
}

func TestListPublished_Empty(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/datasets/published", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestContribute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/datasets", map[string]any{
		"schema_version": "0.1.0",
		"dataset": map[string]any{
			"brc":        "JBEI",
			"identifier": "new-1",
			"title":      "Contributed",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "JBEI_new-1", decode[map[string]any](t, rec)["uid"])
	assert.Equal(t, 1, env.store.Len())

	rec = env.do(t, http.MethodGet, "/api/datasets/JBEI_new-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContribute_Rejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing dataset", map[string]any{}},
		{"missing identifier", map[string]any{"dataset": map[string]any{"brc": "JBEI"}}},
		{"unknown version", map[string]any{
			"schema_version": "9.9.9",
			"dataset":        map[string]any{"brc": "JBEI", "identifier": "x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/datasets", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Equal(t, 0, env.store.Len())
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{
		"1": true, "true": true, "TRUE": true, "yes": true, " Yes ": true,
		"": false, "0": false, "false": false, "no": false, "on": false,
	} {
		assert.Equal(t, want, parseBool(in), in)
	}
}
