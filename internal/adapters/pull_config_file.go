package adapters

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

// PullConfigFileAdapter reads the JSON object mapping symbols to the object
// files they must be pulled from.
type PullConfigFileAdapter struct{}

func NewPullConfigFileAdapter() PullConfigFileAdapter {
	return PullConfigFileAdapter{}
}

func (a PullConfigFileAdapter) LoadPulls(path string) (types.LinkerPulls, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("linker pull file not found: %s", path)).
			WithCause(err)
	}
	pulls := types.LinkerPulls{}
	if err := json.Unmarshal(data, &pulls); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse linker pull file %s", path)).
			WithCause(err)
	}
	return pulls, nil
}

var _ ports.PullConfigPort = PullConfigFileAdapter{}
