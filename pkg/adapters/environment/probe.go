// Package environment detects whether the process may persist to local disk.
package environment

import (
	"os"
	"runtime"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

// ServerlessMarkers are environment variables set by serverless platforms.
var ServerlessMarkers = []string{"VERCEL", "NETLIFY", "AWS_LAMBDA_FUNCTION_NAME"}

type Prober struct {
	dir    string
	getenv func(string) string
}

// NewProber probes dir for write access. An empty or missing dir falls
// back to the working directory.
func NewProber(dir string) *Prober {
	return &Prober{dir: dir, getenv: os.Getenv}
}

// WithGetenv swaps the environment lookup, for tests.
func (p *Prober) WithGetenv(getenv func(string) string) *Prober {
	p.getenv = getenv
	return p
}

func (p *Prober) Probe() domain.Environment {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	dir := cwd
	if p.dir != "" {
		if info, err := os.Stat(p.dir); err == nil && info.IsDir() {
			dir = p.dir
		}
	}

	vars := make(map[string]string, len(ServerlessMarkers)+1)
	serverless := false
	for _, key := range ServerlessMarkers {
		v := p.getenv(key)
		vars[key] = v
		if v != "" {
			serverless = true
		}
	}
	vars["APP_ENV"] = p.getenv("APP_ENV")

	return domain.Environment{
		IsServerless:       serverless,
		HasWritePermission: canWrite(dir),
		Cwd:                cwd,
		ProbeDir:           dir,
		GoVersion:          runtime.Version(),
		Platform:           runtime.GOOS + "/" + runtime.GOARCH,
		Variables:          vars,
	}
}

// canWrite creates and removes a temp file in dir.
func canWrite(dir string) bool {
	f, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return false
	}
	return os.Remove(name) == nil
}
