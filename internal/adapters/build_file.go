package adapters

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

type BuildFileAdapter struct{}

func NewBuildFileAdapter() BuildFileAdapter {
	return BuildFileAdapter{}
}

func (a BuildFileAdapter) LoadBuildDescription(path string) (types.BuildDescription, error) {
	var desc types.BuildDescription
	if err := loadYAML(path, "build description", &desc); err != nil {
		return types.BuildDescription{}, err
	}
	if strings.TrimSpace(desc.Version) == "" {
		return types.BuildDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build description: version is required")
	}
	seen := map[string]struct{}{}
	for _, target := range targetNames(desc) {
		if _, ok := seen[target]; ok {
			return types.BuildDescription{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("build description: duplicate target %s", target))
		}
		seen[target] = struct{}{}
	}
	return desc, nil
}

func targetNames(desc types.BuildDescription) []string {
	names := make([]string, 0, len(desc.Programs)+len(desc.Libraries))
	for _, program := range desc.Programs {
		names = append(names, program.Target)
	}
	for _, library := range desc.Libraries {
		names = append(names, library.Target)
	}
	return names
}

var _ ports.BuildDescriptionPort = BuildFileAdapter{}
