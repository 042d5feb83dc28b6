package core

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/shared"
	"cgt-buildtools/internal/types"
)

var pipRequirementPattern = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(.*?)\s*$`)

type condaPin struct {
	name    string
	version string
	build   string
}

// parseCondaPin splits `name=version=build`.
func parseCondaPin(value string) condaPin {
	parts := strings.SplitN(strings.TrimSpace(value), "=", 3)
	pin := condaPin{name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		pin.version = parts[1]
	}
	if len(parts) > 2 {
		pin.build = parts[2]
	}
	return pin
}

type pipPin struct {
	name      string
	specifier string
}

func parsePipPin(value string) (pipPin, bool) {
	match := pipRequirementPattern.FindStringSubmatch(value)
	if match == nil {
		return pipPin{}, false
	}
	return pipPin{name: shared.NormalizePipName(match[1]), specifier: match[2]}, true
}

// CheckEnvironment compares the declared environment against the exported
// one and returns every unsatisfied requirement.
func CheckEnvironment(ctx context.Context, spec types.CondaSpec, exported types.CondaSpec) []types.PackageIssue {
	logger := log.Ctx(ctx)
	cache := newVersionCache()
	installedConda := map[string]condaPin{}
	installedPip := map[string]string{}
	for _, dep := range exported.Dependencies {
		if dep.Pip != nil {
			for _, entry := range dep.Pip {
				if pin, ok := parsePipPin(entry); ok {
					installedPip[pin.name] = strings.TrimPrefix(pin.specifier, "==")
				}
			}
			continue
		}
		pin := parseCondaPin(dep.Package)
		installedConda[pin.name] = pin
	}

	var issues []types.PackageIssue
	for _, dep := range spec.Dependencies {
		if dep.Pip != nil {
			for _, entry := range dep.Pip {
				if issue, ok := checkPip(entry, installedPip, cache); !ok {
					logger.Warn().Str("package", entry).Msg(issue.Reason)
					issues = append(issues, issue)
					continue
				}
				logger.Debug().Str("package", entry).Msg("found")
			}
			continue
		}
		if issue, ok := checkConda(dep.Package, installedConda, cache); !ok {
			logger.Warn().Str("package", dep.Package).Msg(issue.Reason)
			issues = append(issues, issue)
			continue
		}
		logger.Debug().Str("package", dep.Package).Msg("found")
	}
	return issues
}

func checkConda(entry string, installed map[string]condaPin, cache *versionCache) (types.PackageIssue, bool) {
	want := parseCondaPin(entry)
	issue := types.PackageIssue{Source: types.PackageSourceConda, Package: entry}
	have, ok := installed[want.name]
	if !ok {
		issue.Reason = fmt.Sprintf("Could not find %s", want.name)
		return issue, false
	}
	if want.version != "" && !condaVersionMatches(want.version, have.version, cache) {
		issue.Reason = fmt.Sprintf("%s: version %s installed, %s required", want.name, have.version, want.version)
		return issue, false
	}
	if want.build != "" && want.build != have.build {
		issue.Reason = fmt.Sprintf("%s: build %s installed, %s required", want.name, have.build, want.build)
		return issue, false
	}
	return issue, true
}

func condaVersionMatches(want string, have string, cache *versionCache) bool {
	if prefix, ok := strings.CutSuffix(want, "*"); ok {
		return strings.HasPrefix(have, prefix)
	}
	return cache.sameCondaVersion(want, have)
}

func checkPip(entry string, installed map[string]string, cache *versionCache) (types.PackageIssue, bool) {
	issue := types.PackageIssue{Source: types.PackageSourcePip, Package: entry}
	want, ok := parsePipPin(entry)
	if !ok {
		issue.Reason = fmt.Sprintf("invalid pip requirement %q", entry)
		return issue, false
	}
	have, ok := installed[want.name]
	if !ok {
		issue.Reason = fmt.Sprintf("Could not find %s", want.name)
		return issue, false
	}
	if want.specifier == "" {
		return issue, true
	}
	if exact, isExact := strings.CutPrefix(want.specifier, "=="); isExact && exact == have {
		return issue, true
	}
	satisfied, err := cache.satisfiesPip(have, want.specifier)
	if err != nil {
		issue.Reason = fmt.Sprintf("%s: cannot compare %s with %s: %v", want.name, have, want.specifier, err)
		return issue, false
	}
	if !satisfied {
		issue.Reason = fmt.Sprintf("%s: version %s installed, %s required", want.name, have, want.specifier)
		return issue, false
	}
	return issue, true
}

// FindDevelEnv returns the path of the environment with the given name.
func FindDevelEnv(envs []string, name string) (string, error) {
	for _, env := range envs {
		if strings.HasSuffix(strings.ToLower(env), strings.ToLower(name)) {
			return env, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("Development environment '%s' not found.", name))
}

// CheckActiveInterpreter verifies that the running interpreter and the
// configured one both belong to the development environment.
func CheckActiveInterpreter(name string, executable string, python string, envPath string, windows bool) error {
	expected := filepath.Join(strings.ToLower(envPath), "python")
	active := executable == python && executable == expected
	if windows {
		expected = filepath.Join(strings.ToLower(envPath), "python.exe")
		active = strings.EqualFold(executable, python) && strings.ToLower(executable) == expected
	}
	if active {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("The development environment %s is not active. "+
			"Run 'conda activate %s' and configure the project again.", name, name))
}
