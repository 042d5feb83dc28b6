package ports

import (
	"context"

	"cgt-buildtools/internal/types"
)

type CondaPort interface {
	ListEnvs(ctx context.Context, conda string) (types.CondaEnvList, error)
	Export(ctx context.Context, conda string, envName string) ([]byte, error)
}

type CondaSpecPort interface {
	LoadCondaSpec(path string) (types.CondaSpec, error)
	ParseCondaSpec(data []byte) (types.CondaSpec, error)
}
