package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	base := dataset.New([]dataset.AddressRecord{
		{Address: "加古川市Town A", Households: 1200, Latitude: dataset.Coord(34.0), Longitude: dataset.Coord(135.0)},
		{Address: "加古川市Town B", Households: 300, Latitude: dataset.Coord(34.01), Longitude: dataset.Coord(135.0)},
		{Address: "姫路市Town D", Households: 70},
	})
	cfg := DefaultConfig()
	cfg.Cities = []string{"加古川市", "姫路市"}
	srv := NewServer(cfg, session.NewRegistry(base), &dataset.LoadReport{Rows: base.Len()})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID   string `json:"id"`
		Rows int    `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Rows)
	return body.ID
}

// withQuery appends URL-encoded key/value pairs to path
func withQuery(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Add(kv[i], kv[i+1])
	}
	return path + "?" + q.Encode()
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postSelection(t *testing.T, url string, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSelectionFlow(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/api/sessions/" + id

	var list struct {
		Candidates []struct {
			Address    string `json:"address"`
			Households int    `json:"households"`
			Selected   bool   `json:"selected"`
		} `json:"candidates"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, withQuery(base+"/candidates", "city", "加古川市"), &list))
	require.Len(t, list.Candidates, 2)

	status, out := postSelection(t, base+"/selection", `{"op":"select_visible","city":"加古川市"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["changed"])
	assert.Equal(t, float64(2), out["count"])

	status, out = postSelection(t, base+"/selection", `{"op":"toggle","address":"加古川市Town B","selected":false}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), out["count"])

	status, out = postSelection(t, base+"/selection", `{"op":"toggle","address":"加古川市Town B","selected":false}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, out["changed"])

	var agg map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/selection?unit_price=10", &agg))
	assert.Equal(t, float64(1200), agg["total_households"])
	assert.Equal(t, float64(12000), agg["estimated_amount"])
	assert.Equal(t, false, agg["empty"])

	status, out = postSelection(t, base+"/selection", `{"op":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "op", out["field"])

	status, _ = postSelection(t, base+"/selection", `{"op":"select_city","city":"all"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDirectionFilterRequiresDirections(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	var body map[string]interface{}
	assert.Equal(t, http.StatusBadRequest, getJSON(t, withQuery(base+"/candidates", "reference", "加古川市Town A"), &body))
	assert.Equal(t, http.StatusOK, getJSON(t, withQuery(base+"/candidates", "reference", "加古川市Town A", "directions", "north"), nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, withQuery(base+"/candidates", "reference", "加古川市Town A", "directions", "up"), nil))
}

func TestRadiusEndpoint(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	var res struct {
		TotalHouseholds int     `json:"total_households"`
		EstimatedAmount float64 `json:"estimated_amount"`
		MatchedRows     int     `json:"matched_rows"`
		Rows            []struct {
			Address string `json:"address"`
		} `json:"rows"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, withQuery(base+"/radius", "center", "加古川市Town A", "radius_km", "2", "unit_price", "10"), &res))
	assert.Equal(t, 1500, res.TotalHouseholds)
	assert.Equal(t, 15000.0, res.EstimatedAmount)
	assert.Equal(t, 2, res.MatchedRows)

	assert.Equal(t, http.StatusNotFound, getJSON(t, base+"/radius?center=Nowhere", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, withQuery(base+"/radius", "center", "加古川市Town A", "radius_km", "0"), nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, withQuery(base+"/radius", "center", "加古川市Town A", "radius_km", "abc"), nil))
}

func TestExportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	resp, err := http.Get(withQuery(base+"/export", "mode", "radius", "center", "加古川市Town A", "radius_km", "2", "format", "csv"))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "radius_")
	assert.True(t, strings.HasPrefix(string(body), "address,households,latitude,longitude\n"))

	resp, err = http.Get(base + "/export?mode=selection")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "nothing selected")

	postSelection(t, base+"/selection", `{"op":"select_city","city":"姫路市"}`)
	resp, err = http.Get(base + "/export?mode=selection&format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	areas, err := f.GetRows("Selected Areas")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Selected area"}, {"姫路市Town D"}}, areas)
}

func TestMergeIsolatedPerSession(t *testing.T) {
	ts := newTestServer(t)
	a := ts.URL + "/api/sessions/" + createSession(t, ts)
	b := ts.URL + "/api/sessions/" + createSession(t, ts)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	fw.Write([]byte("address,households\n明石市Town E,80\n"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(a+"/dataset/merge", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	var merged session.MergeResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&merged))
	resp.Body.Close()
	assert.Equal(t, session.MergeResult{Before: 3, After: 4, Added: 1}, merged)

	var ov struct {
		Rows int `json:"rows"`
	}
	getJSON(t, a+"/dataset", &ov)
	assert.Equal(t, 4, ov.Rows)
	getJSON(t, b+"/dataset", &ov)
	assert.Equal(t, 3, ov.Rows)
}

func TestMergeRejectsBadUpload(t *testing.T) {
	ts := newTestServer(t)
	a := ts.URL + "/api/sessions/" + createSession(t, ts)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	fw.Write([]byte("name,count\nTown,1\n"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(a+"/dataset/merge", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/sessions/nope/candidates", nil))

	id := createSession(t, ts)
	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/sessions/"+id+"/dataset", nil))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/sessions", "/api/sessions/abc/selection"} {
		t.Run(path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, ts.URL+path, nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "http://maps.example")
			req.Header.Set("Access-Control-Request-Method", "POST")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
		})
	}

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
