package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/adrgraph/internal/adrservice"
	"github.com/starford/adrgraph/internal/parser"
	"github.com/starford/adrgraph/internal/report"
	"github.com/starford/adrgraph/internal/testutil"
	"github.com/starford/adrgraph/internal/validator"
)

// testEnv sets up a temp corpus, service, and router for testing.
// An empty token means auth is disabled.
func testEnv(t *testing.T, token string, opts RouterOptions) (string, http.Handler) {
	t.Helper()
	root, store := testutil.TestCorpus(t, testutil.SampleCorpus)
	v := validator.New(store, parser.New(parser.NewMatcher("")), nil, validator.Options{})
	svc := adrservice.NewService(v, testutil.TestDB(t), nil, nil)

	opts.AuthEnabled = token != ""
	opts.Token = token
	return root, NewRouter(svc, opts)
}

func do(t *testing.T, h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetReport_JSON(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/report")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var rep report.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, report.VerdictPass, rep.Verdict)
	assert.Equal(t, 3, rep.Stats.Documents)
}

func TestGetReport_Text(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/report?format=text")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Check 1: bidirectional consistency")
	assert.Contains(t, w.Body.String(), "✓ PASS")
}

func TestValidate_RefreshesAndNotifies(t *testing.T) {
	var notified []*report.Report
	root, router := testEnv(t, "", RouterOptions{OnReport: func(r *report.Report) { notified = append(notified, r) }})

	w := do(t, router, http.MethodGet, "/report")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, os.WriteFile(filepath.Join(root, "ADR-0004.md"),
		[]byte("## Relationships\n\n**Supersedes**:\n- ADR-0001\n"), 0o644))

	w = do(t, router, http.MethodPost, "/validate")
	require.Equal(t, http.StatusOK, w.Code)

	var rep report.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, report.VerdictFail, rep.Verdict)
	assert.Equal(t, 1, rep.ErrorCount)

	require.Len(t, notified, 1)
	assert.Equal(t, report.VerdictFail, notified[0].Verdict)

	w = do(t, router, http.MethodGet, "/report")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, report.VerdictFail, rep.Verdict)
}

func TestListDocuments(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/documents")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DocumentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Documents, 3)
	assert.Equal(t, "ADR-0001", resp.Documents[0].Label)
}

func TestGetDocument(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/documents/ADR-0003")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc DocumentDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "ADR-0003", doc.Label)
	assert.Equal(t, "runtime/ADR-0003-otel.md", doc.Path)
	assert.Len(t, doc.Relations, 2)
}

func TestGetDocument_NotFound(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/documents/ADR-0404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestGraphEndpoint(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/graph")
	require.Equal(t, http.StatusOK, w.Code)

	var g GraphResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Links, 5)
}

func TestMapEndpoint(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})

	w := do(t, router, http.MethodGet, "/map")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.True(t, strings.HasPrefix(w.Body.String(), "# ADR Relationship Map"))
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123", RouterOptions{})
	w := do(t, router, http.MethodGet, "/report", "Authorization", "Bearer secret123")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123", RouterOptions{})
	w := do(t, router, http.MethodGet, "/report")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123", RouterOptions{})
	w := do(t, router, http.MethodPost, "/validate", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})
	w := do(t, router, http.MethodGet, "/documents")
	assert.Equal(t, http.StatusOK, w.Code)
}

// dummyEvents stands in for the SSE broker to test auth on /events.
var dummyEvents = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestEvents_AuthProtected(t *testing.T) {
	_, router := testEnv(t, "tok", RouterOptions{Events: dummyEvents})
	w := do(t, router, http.MethodGet, "/events")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvents_ValidToken(t *testing.T) {
	_, router := testEnv(t, "tok", RouterOptions{Events: dummyEvents})
	w := do(t, router, http.MethodGet, "/events", "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEvents_QueryToken(t *testing.T) {
	_, router := testEnv(t, "tok", RouterOptions{Events: dummyEvents})
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/events?access_token=tok").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/events?access_token=nope").Code)
}

func TestAuth_QueryTokenRejectedForPost(t *testing.T) {
	_, router := testEnv(t, "tok", RouterOptions{})
	w := do(t, router, http.MethodPost, "/validate?access_token=tok")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestEvents_NotMountedWithoutHandler(t *testing.T) {
	_, router := testEnv(t, "", RouterOptions{})
	w := do(t, router, http.MethodGet, "/events")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
