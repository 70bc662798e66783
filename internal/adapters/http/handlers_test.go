package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"

	handler "github.com/souzafcharles/spatialdata/internal/adapters/http"
	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/core/usecases"
)

// ---- Mock repository ----

type mockSpatialRepo struct {
	createFn  func(ctx context.Context, rec *domain.SpatialRecord) error
	getByIDFn func(ctx context.Context, id int64) (*domain.SpatialRecord, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.SpatialRecord, error)
	countFn   func(ctx context.Context) (int, error)

	created []*domain.SpatialRecord
}

func (m *mockSpatialRepo) Create(ctx context.Context, rec *domain.SpatialRecord) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, rec); err != nil {
			return err
		}
	}
	rec.ID = int64(len(m.created) + 1)
	rec.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.created = append(m.created, rec)
	return nil
}

func (m *mockSpatialRepo) GetByID(ctx context.Context, id int64) (*domain.SpatialRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSpatialRepo) List(ctx context.Context, offset, limit int) ([]domain.SpatialRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockSpatialRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// ---- Test helpers ----

var square = orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(repo *mockSpatialRepo, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		SpatialData: usecases.NewSpatialDataService(repo, nil, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func storedRecord(id int64) func(context.Context, int64) (*domain.SpatialRecord, error) {
	return func(_ context.Context, got int64) (*domain.SpatialRecord, error) {
		if got != id {
			return nil, domain.ErrNotFound
		}
		p := orb.Point{1, 2}
		poly := square
		return &domain.SpatialRecord{ID: id, Point: &p, Polygon: &poly}, nil
	}
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte, map[string]string) {
	t.Helper()
	return do(t, app, httptest.NewRequest("GET", path, nil))
}

func do(t *testing.T, app *fiber.App, req *stdhttp.Request) (int, []byte, map[string]string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, b, headers
}

func decodeRecord(t *testing.T, body []byte) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode record: %v (%s)", err, body)
	}
	return m
}

func decodeAPIError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var e handler.APIError
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error: %v (%s)", err, body)
	}
	return e
}

// ---- Create ----

func TestCreateSpatialData_Success(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, body, headers := postJSON(t, app, "/v1/spatial-data",
		`{"point":[1,2],"polygon":[[[0,0],[1,0],[1,1],[0,0]]]}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if headers["Location"] != "/v1/spatial-data/1" {
		t.Errorf("unexpected Location %q", headers["Location"])
	}

	rec := decodeRecord(t, body)
	if got := string(rec["point"]); got != `{"type":"Point","coordinates":[1,2]}` {
		t.Errorf("unexpected point %s", got)
	}
	if got := string(rec["polygon"]); got != `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}` {
		t.Errorf("unexpected polygon %s", got)
	}
	for _, slot := range []string{"multiPoint", "lineString", "multiLineString", "multiPolygon"} {
		if string(rec[slot]) != "null" {
			t.Errorf("expected %s to be null, got %s", slot, rec[slot])
		}
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored record, got %d", len(repo.created))
	}
}

func TestCreateSpatialData_ShortRing(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, body, _ := postJSON(t, app, "/v1/spatial-data",
		`{"point":[1,2],"polygon":[[[0,0],[1,0],[0,0]]]}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	apiErr := decodeAPIError(t, body)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "at least 4 coordinates") {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be stored for a rejected request")
	}
}

func TestCreate_MalformedJSONStoresNothing(t *testing.T) {
	paths := []string{
		"/v1/spatial-data",
		"/v1/spatial-data/serializer",
		"/v1/spatial-data/deserializer",
		"/api/spatial-data",
		"/api/spatial-data/serializer",
		"/api/spatial-data/deserializer",
	}
	bodies := []string{`{"point":`, `[1,2]`, ``}

	for _, path := range paths {
		for _, body := range bodies {
			repo := &mockSpatialRepo{}
			app := setupApp(makeDeps(repo))

			status, resp, _ := postJSON(t, app, path, body)
			if status != 400 {
				t.Fatalf("%s %q: expected 400, got %d", path, body, status)
			}
			apiErr := decodeAPIError(t, resp)
			if apiErr.Message != "Invalid JSON format or structure" {
				t.Errorf("%s %q: unexpected message %q", path, body, apiErr.Message)
			}
			if apiErr.Code != "bad_request" {
				t.Errorf("%s %q: unexpected code %q", path, body, apiErr.Code)
			}
			if len(repo.created) != 0 {
				t.Errorf("%s %q: stored %d records, want none", path, body, len(repo.created))
			}
		}
	}
}

func TestCreateSpatialData_Conflict(t *testing.T) {
	repo := &mockSpatialRepo{
		createFn: func(context.Context, *domain.SpatialRecord) error {
			return fmt.Errorf("%w: duplicate key", domain.ErrConflict)
		},
	}
	app := setupApp(makeDeps(repo))

	status, body, _ := postJSON(t, app, "/v1/spatial-data", `{"point":[1,2]}`)
	if status != 409 {
		t.Fatalf("expected 409, got %d", status)
	}
	if code := decodeAPIError(t, body).Code; code != "conflict" {
		t.Errorf("expected conflict, got %s", code)
	}
}

func TestCreateSerialized_AllKinds(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := postJSON(t, app, "/v1/spatial-data/serializer", `{
		"point": [1, 2],
		"multipoint": [[1, 2], [3, 4]],
		"linestring": [[0, 0], [1, 1]],
		"multilinestring": [[[0, 0], [1, 1]], [[2, 2], [3, 3]]],
		"polygon": [[[0, 0], [1, 0], [1, 1], [0, 0]]],
		"multipolygon": [[[[0, 0], [1, 0], [1, 1], [0, 0]]]]
	}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	rec := decodeRecord(t, body)
	want := map[string]string{
		"point":           "Point",
		"multiPoint":      "MultiPoint",
		"lineString":      "LineString",
		"multiLineString": "MultiLineString",
		"polygon":         "Polygon",
		"multiPolygon":    "MultiPolygon",
	}
	for slot, typ := range want {
		var doc struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(rec[slot], &doc); err != nil {
			t.Fatalf("%s: %v", slot, err)
		}
		if doc.Type != typ {
			t.Errorf("%s: expected %s, got %s", slot, typ, doc.Type)
		}
	}
}

func TestCreateSerialized_EmptyFieldsAreAbsent(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, body, _ := postJSON(t, app, "/v1/spatial-data/serializer",
		`{"point":[],"multipoint":[],"linestring":[[0,0],[1,1]]}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	rec := repo.created[0]
	if rec.Point != nil || rec.MultiPoint != nil {
		t.Error("empty arrays must leave their slots absent")
	}
	if rec.LineString == nil {
		t.Error("linestring should be stored")
	}
}

func TestCreateSerialized_BadMemberFailsWholeRequest(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, _, _ := postJSON(t, app, "/v1/spatial-data/serializer",
		`{"point":[1,2],"multipolygon":[[[[0,0],[1,0],[1,1],[0,0]]],[[[0,0],[1,1]]]]}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestCreateDeserialized_Success(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, body, _ := postJSON(t, app, "/v1/spatial-data/deserializer", `{
		"point": {"type": "Point", "coordinates": [1, 2]},
		"linestring": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
		"polygon": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]},
		"multipoint": null
	}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	rec := repo.created[0]
	if rec.Point == nil || *rec.Point != (orb.Point{1, 2}) {
		t.Errorf("unexpected point %v", rec.Point)
	}
	if rec.LineString == nil || len(*rec.LineString) != 2 {
		t.Errorf("unexpected linestring %v", rec.LineString)
	}
	if rec.Polygon == nil || len((*rec.Polygon)[0]) != 4 {
		t.Errorf("unexpected polygon %v", rec.Polygon)
	}
	if rec.MultiPoint != nil {
		t.Error("null document must be absent")
	}
}

func TestCreateDeserialized_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"unsupported tag", `{"multipoint":{"type":"MultiPoint","coordinates":[[1,2]]}}`, "unsupported geometry type: MultiPoint"},
		{"missing type", `{"point":{"coordinates":[1,2]}}`, "geometry type is required"},
		{"kind mismatch", `{"point":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`, "does not match"},
		{"short ring", `{"polygon":{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}}`, "at least 4 coordinates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := setupApp(makeDeps(&mockSpatialRepo{}))
			status, body, _ := postJSON(t, app, "/v1/spatial-data/deserializer", tc.body)
			if status != 400 {
				t.Fatalf("expected 400, got %d", status)
			}
			if msg := decodeAPIError(t, body).Message; !strings.Contains(msg, tc.message) {
				t.Errorf("expected message containing %q, got %q", tc.message, msg)
			}
		})
	}
}

// ---- Read ----

func TestGetSpatialData_Success(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(7)}))

	status, body, _ := get(t, app, "/v1/spatial-data/7")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	rec := decodeRecord(t, body)
	if string(rec["id"]) != "7" {
		t.Errorf("expected id 7, got %s", rec["id"])
	}
	if string(rec["point"]) != `{"type":"Point","coordinates":[1,2]}` {
		t.Errorf("unexpected point %s", rec["point"])
	}
}

func TestGetSpatialData_NotFound(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := get(t, app, "/v1/spatial-data/42")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	apiErr := decodeAPIError(t, body)
	if apiErr.Message != "spatial data not found with id: 42" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestGetSpatialData_BadID(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := get(t, app, "/v1/spatial-data/abc")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if msg := decodeAPIError(t, body).Message; msg != "Invalid parameter type for 'id'. Expected: integer" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestGetSpatialData_StoreErrorIsHidden(t *testing.T) {
	repo := &mockSpatialRepo{
		getByIDFn: func(context.Context, int64) (*domain.SpatialRecord, error) {
			return nil, errors.New("connection refused on 10.0.0.5")
		},
	}
	app := setupApp(makeDeps(repo))

	status, body, _ := get(t, app, "/v1/spatial-data/1")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(body), "10.0.0.5") {
		t.Error("internal error details leaked to the client")
	}
}

func TestPolygonGeoJSON_Success(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(3)}))

	status, body, headers := get(t, app, "/v1/spatial-data/3/geojson")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.HasPrefix(headers["Content-Type"], "application/geo+json") {
		t.Errorf("unexpected content type %q", headers["Content-Type"])
	}

	var feature struct {
		Type       string         `json:"type"`
		Geometry   map[string]any `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(body, &feature); err != nil {
		t.Fatal(err)
	}
	if feature.Type != "Feature" || feature.Geometry["type"] != "Polygon" {
		t.Errorf("unexpected feature %s", body)
	}
	if feature.Properties["description"] != "Polygon from database" || feature.Properties["id"] != float64(3) {
		t.Errorf("unexpected properties %v", feature.Properties)
	}
}

func TestPolygonGeoJSON_NoPolygon(t *testing.T) {
	repo := &mockSpatialRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.SpatialRecord, error) {
			p := orb.Point{1, 2}
			return &domain.SpatialRecord{ID: id, Point: &p}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	status, body, _ := get(t, app, "/v1/spatial-data/9/geojson")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if msg := decodeAPIError(t, body).Message; !strings.Contains(msg, "does not contain a polygon") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestListSpatialData_Pagination(t *testing.T) {
	repo := &mockSpatialRepo{
		countFn: func(context.Context) (int, error) { return 5, nil },
		listFn: func(_ context.Context, offset, limit int) ([]domain.SpatialRecord, error) {
			if offset != 2 || limit != 2 {
				t.Errorf("expected offset 2 limit 2, got %d %d", offset, limit)
			}
			return []domain.SpatialRecord{{ID: 3}, {ID: 4}}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	status, body, headers := get(t, app, "/v1/spatial-data?offset=2&limit=2")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data       []map[string]any   `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != 2 || result.Pagination.Total != 5 || result.Pagination.Offset != 2 {
		t.Errorf("unexpected page %+v", result)
	}
	if !strings.Contains(headers["Link"], `rel="next"`) || !strings.Contains(headers["Link"], `rel="prev"`) {
		t.Errorf("expected next and prev links, got %q", headers["Link"])
	}
}

// ---- Legacy routes ----

func TestLegacyRoutes_AreDeprecated(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(3)}))

	status, _, headers := get(t, app, "/api/spatial-data/3")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if headers["Deprecation"] != "true" {
		t.Error("expected Deprecation header")
	}
	if headers["Sunset"] == "" {
		t.Error("expected Sunset header")
	}
	if headers["Link"] != `</v1/spatial-data/3>; rel="successor-version"` {
		t.Errorf("unexpected Link %q", headers["Link"])
	}
}

func TestLegacyList_ReturnsBareArray(t *testing.T) {
	repo := &mockSpatialRepo{
		countFn: func(context.Context) (int, error) { return 1, nil },
		listFn: func(context.Context, int, int) ([]domain.SpatialRecord, error) {
			return []domain.SpatialRecord{{ID: 1}}, nil
		},
	}
	app := setupApp(makeDeps(repo))

	status, body, _ := get(t, app, "/api/spatial-data")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestLegacyCreate(t *testing.T) {
	repo := &mockSpatialRepo{}
	app := setupApp(makeDeps(repo))

	status, _, headers := postJSON(t, app, "/api/spatial-data/serializer", `{"point":[1,2]}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d", status)
	}
	if headers["Deprecation"] != "true" {
		t.Error("expected Deprecation header")
	}
}

// ---- System endpoints ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := get(t, app, "/v1/health")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"healthy"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name string
		db   handler.Pinger
		want int
	}{
		{"no database", nil, 503},
		{"database down", stubPinger{err: errors.New("down")}, 503},
		{"database up", stubPinger{}, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := setupApp(makeDeps(&mockSpatialRepo{}, func(d *handler.Dependencies) {
				d.DB = tc.db
			}))
			status, _, _ := get(t, app, "/v1/ready")
			if status != tc.want {
				t.Errorf("expected %d, got %d", tc.want, status)
			}
		})
	}
}

func TestReady_CacheDownFails(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}, func(d *handler.Dependencies) {
		d.DB = stubPinger{}
		d.Cache = stubPinger{err: errors.New("refused")}
	}))
	status, body, _ := get(t, app, "/v1/ready")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if !strings.Contains(string(body), "refused") {
		t.Errorf("expected cache error in checks, got %s", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := get(t, app, "/v1/nope")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	if code := decodeAPIError(t, body).Code; code != "not_found" {
		t.Errorf("expected not_found, got %s", code)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(1)}))

	status, _, headers := get(t, app, "/v1/spatial-data/1")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	etag := headers["Etag"]
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	req := httptest.NewRequest("GET", "/v1/spatial-data/1", nil)
	req.Header.Set("If-None-Match", etag)
	status, _, _ = do(t, app, req)
	if status != 304 {
		t.Errorf("expected 304, got %d", status)
	}
}

// ---- GraphQL ----

func TestGraphQL_SpatialData(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(5)}))

	status, body, _ := postJSON(t, app, "/graphql",
		`{"query":"{ spatialData(id: \"5\") { id point polygon multiPoint } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data struct {
			SpatialData struct {
				ID         string          `json:"id"`
				Point      json.RawMessage `json:"point"`
				Polygon    map[string]any  `json:"polygon"`
				MultiPoint json.RawMessage `json:"multiPoint"`
			} `json:"spatialData"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	got := result.Data.SpatialData
	if got.ID != "5" || got.Polygon["type"] != "Polygon" || string(got.MultiPoint) != "null" {
		t.Errorf("unexpected record %s", body)
	}
}

func TestGraphQL_PolygonFeature(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{getByIDFn: storedRecord(2)}))

	status, body, _ := postJSON(t, app, "/graphql",
		`{"query":"{ polygonFeature(id: \"2\") { type description geometry } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"description":"Polygon from database"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestGraphQL_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, _, _ := postJSON(t, app, "/graphql", `{}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestGraphQL_MalformedBody(t *testing.T) {
	app := setupApp(makeDeps(&mockSpatialRepo{}))

	status, body, _ := postJSON(t, app, "/graphql", `{"query":`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if msg := decodeAPIError(t, body).Message; msg != "Invalid JSON format or structure" {
		t.Errorf("unexpected message %q", msg)
	}
}
