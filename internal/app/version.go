package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/types"
)

// Version derives the version of the project and optionally writes the
// generated C source pair.
func (s Service) Version(ctx context.Context, req VersionRequest) (VersionResult, error) {
	root := defaultRoot(req.Root)
	fallback := strings.TrimSpace(req.Version)
	if fallback == "" {
		desc, err := s.Builds.LoadBuildDescription(buildFilePath(root, req.BuildFile))
		if err != nil {
			return VersionResult{}, err
		}
		fallback = desc.Version
	}
	descriptor, err := s.versionDescriptor(ctx, root, fallback, true)
	if err != nil {
		return VersionResult{}, err
	}
	result := VersionResult{Descriptor: descriptor}
	if req.OutputDir == "" {
		return result, nil
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return VersionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	task := types.Task{
		Name: "create_version_source " + core.VersionSourceName,
		Outputs: []string{
			filepath.Join(req.OutputDir, core.VersionSourceName),
			filepath.Join(req.OutputDir, core.VersionHeaderName),
		},
	}
	if err := core.VersionSourceAction(descriptor)(ctx, task); err != nil {
		return VersionResult{}, err
	}
	result.Files = task.Outputs
	return result, nil
}

// versionDescriptor queries source control once. Without a repository the
// working tree counts as dirty.
func (s Service) versionDescriptor(ctx context.Context, root string, fallback string, warn bool) (types.VersionDescriptor, error) {
	logger := log.Ctx(ctx)
	descriptor := types.VersionDescriptor{IsDirty: true, RemoteURL: core.NoRemote}
	describe := ""
	if s.SourceControl.IsRepository(ctx, root) {
		descriptor.UnderVersionControl = true
		out, err := s.SourceControl.Describe(ctx, root)
		if err != nil {
			return types.VersionDescriptor{}, err
		}
		describe = out
		if remote, err := s.SourceControl.PushRemote(ctx, root); err != nil {
			logger.Debug().Err(err).Msg("no push remote configured")
		} else if remote != "" {
			descriptor.RemoteURL = remote
		}
		dirty, err := s.SourceControl.IsDirty(ctx, root)
		if err != nil {
			return types.VersionDescriptor{}, err
		}
		descriptor.IsDirty = dirty
	} else if warn {
		logger.Warn().Msg("Not a git repository. Proceeding without version information.")
	}
	derived, err := core.DeriveVersion(describe, fallback)
	if err != nil {
		return types.VersionDescriptor{}, err
	}
	descriptor.DerivedVersion = derived
	logger.Debug().
		Str("version", derived.Version).
		Str("tag", derived.Tag).
		Bool("dirty", descriptor.IsDirty).
		Msg("version derived")
	return descriptor, nil
}
