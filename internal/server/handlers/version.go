package handlers

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
)

// build holds the ldflags-injected build metadata. Defaults apply when the
// binary was built without the release script.
var build = struct {
	Version string
	Commit  string
	Date    string
}{Version: "dev", Commit: "unknown", Date: "unknown"}

// SetVersionInfo records build metadata for the /version endpoint.
func SetVersionInfo(version, commit, buildDate string) {
	build.Version = version
	build.Commit = commit
	build.Date = buildDate
}

// VersionResponse is the /version payload.
type VersionResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Commit    string            `json:"git_commit"`
	BuildDate string            `json:"build_date"`
	GoVersion string            `json:"go_version"`
	Libraries map[string]string `json:"libraries"`
	Runtime   VersionRuntime    `json:"runtime"`
}

// VersionRuntime describes the process environment.
type VersionRuntime struct {
	Platform   string `json:"platform"`
	CPUs       int    `json:"num_cpu"`
	Goroutines int    `json:"num_goroutines"`
}

// VersionHandler reports build and runtime metadata.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	deps := crucible.GetVersion()

	resp := VersionResponse{
		Name:      "handlescout",
		Version:   build.Version,
		Commit:    build.Commit,
		BuildDate: build.Date,
		GoVersion: runtime.Version(),
		Libraries: map[string]string{
			"gofulmen": deps.Gofulmen,
			"crucible": deps.Crucible,
		},
		Runtime: VersionRuntime{
			Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			CPUs:       runtime.NumCPU(),
			Goroutines: runtime.NumGoroutine(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
