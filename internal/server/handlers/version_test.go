package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionHandler(t *testing.T) {
	SetVersionInfo("0.2.0", "abcd123", "2026-08-01T12:00:00Z")

	rec := httptest.NewRecorder()
	VersionHandler(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp VersionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Equal(t, "handlescout", resp.Name)
	require.Equal(t, "0.2.0", resp.Version)
	require.Equal(t, "abcd123", resp.Commit)
	require.Equal(t, runtime.Version(), resp.GoVersion)
	require.NotEmpty(t, resp.Libraries["gofulmen"])
	require.NotEmpty(t, resp.Libraries["crucible"])
	require.Positive(t, resp.Runtime.CPUs)
}
