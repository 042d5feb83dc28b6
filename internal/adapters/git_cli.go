package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/shared"
)

// GitCLIAdapter answers source control queries with the git binary.
type GitCLIAdapter struct {
	Binary  string
	process ports.ProcessRunnerPort
}

func NewGitCLIAdapter(process ports.ProcessRunnerPort) GitCLIAdapter {
	return GitCLIAdapter{Binary: "git", process: process}
}

func (a GitCLIAdapter) IsRepository(ctx context.Context, root string) bool {
	out, err := a.git(ctx, root, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("root", root).Msg("not a git repository")
		return false
	}
	return strings.TrimSpace(out) == "true"
}

// Describe returns `git describe --dirty --tags --long --always --match *.*`.
func (a GitCLIAdapter) Describe(ctx context.Context, root string) (string, error) {
	out, err := a.git(ctx, root, "describe", "--dirty", "--tags", "--long", "--always", "--match", "*.*")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (a GitCLIAdapter) PushRemote(ctx context.Context, root string) (string, error) {
	out, err := a.git(ctx, root, "remote", "get-url", "--push", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (a GitCLIAdapter) IsDirty(ctx context.Context, root string) (bool, error) {
	out, err := a.git(ctx, root, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return true, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (a GitCLIAdapter) git(ctx context.Context, root string, args ...string) (string, error) {
	binary := a.Binary
	if binary == "" {
		binary = "git"
	}
	res, err := a.process.Run(ctx, ports.ProcessRequest{Args: append([]string{binary}, args...), Dir: root})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("git " + args[0] + " failed").
			WithCause(shared.CommandError([]byte(res.Stderr), err))
	}
	return res.Stdout, nil
}

var _ ports.SourceControlPort = GitCLIAdapter{}
