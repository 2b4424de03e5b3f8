package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotenv-formatted variables linked in at build time:
//
//	go build -ldflags "-X 'codeberg.org/fleetdesk/console/internal/config.buildEnv=VITE_API_URL=https://api.example.com/api'"
//
// multiple variables are separated by newlines or semicolons.
var buildEnv string

// resolves named configuration values from two sources: the process
// environment first, then variables injected at build time.
type Resolver struct {
	lookup func(string) (string, bool)
	build  map[string]string
}

// creates a resolver over an explicit lookup function and build-time map.
// a nil lookup disables the process source.
func NewResolver(lookup func(string) (string, bool), build map[string]string) *Resolver {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	if build == nil {
		build = map[string]string{}
	}

	return &Resolver{lookup: lookup, build: build}
}

// creates the resolver used by the binaries: os.LookupEnv plus the
// build-time variables layered over the given dotenv file
func DefaultResolver(dotenvPath string) *Resolver {
	return NewResolver(os.LookupEnv, BuildVariables(dotenvPath))
}

// returns the first non-empty value for key, or defaultValue
func (r *Resolver) Resolve(key, defaultValue string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}

	if v, ok := r.build[key]; ok && v != "" {
		return v
	}

	return defaultValue
}

// reads the dotenv file (if any) and overlays the variables linked in with
// -ldflags. nothing is written into the process environment.
func BuildVariables(dotenvPath string) map[string]string {
	vars := map[string]string{}

	if dotenvPath != "" {
		if fileVars, err := godotenv.Read(dotenvPath); err == nil {
			for k, v := range fileVars {
				vars[k] = v
			}
		}
	}

	for k, v := range parseBuildEnv(buildEnv) {
		vars[k] = v
	}

	return vars
}

func parseBuildEnv(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	vars, err := godotenv.Unmarshal(strings.ReplaceAll(raw, ";", "\n"))
	if err != nil {
		return nil
	}

	return vars
}
