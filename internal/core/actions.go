package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/types"
)

// CopyFileAction copies Inputs[0] to Outputs[0] and keeps its mode bits.
func CopyFileAction(_ context.Context, task types.Task) error {
	src, err := os.Open(task.Inputs[0])
	if err != nil {
		return ioError("open", task.Inputs[0], err)
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return ioError("stat", task.Inputs[0], err)
	}
	dst, err := os.OpenFile(task.Outputs[0], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return ioError("create", task.Outputs[0], err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return ioError("copy to", task.Outputs[0], err)
	}
	if err := dst.Close(); err != nil {
		return ioError("close", task.Outputs[0], err)
	}
	return os.Chtimes(task.Outputs[0], info.ModTime(), info.ModTime())
}

// CleanPreprocessedAction writes the .ppr and .pprs files of a .pp file.
func CleanPreprocessedAction(_ context.Context, task types.Task) error {
	data, err := os.ReadFile(task.Inputs[0])
	if err != nil {
		return ioError("read", task.Inputs[0], err)
	}
	ppr, pprs := CleanPreprocessed(string(data))
	if err := os.WriteFile(task.Outputs[0], []byte(ppr), 0o644); err != nil {
		return ioError("write", task.Outputs[0], err)
	}
	if err := os.WriteFile(task.Outputs[1], []byte(pprs), 0o644); err != nil {
		return ioError("write", task.Outputs[1], err)
	}
	return nil
}

// VersionSourceAction writes version_cfg.c and version_cfg.h.
func VersionSourceAction(desc types.VersionDescriptor) types.TaskAction {
	return func(ctx context.Context, task types.Task) error {
		header := task.Outputs[1]
		source := RenderVersionSource(desc, VersionHeaderName)
		if err := os.WriteFile(task.Outputs[0], []byte(source), 0o644); err != nil {
			return ioError("write", task.Outputs[0], err)
		}
		if err := os.WriteFile(header, []byte(RenderVersionHeader(desc, VersionHeaderName)), 0o644); err != nil {
			return ioError("write", header, err)
		}
		log.Ctx(ctx).Debug().
			Str("version", desc.Version).
			Bool("dirty", desc.IsDirty).
			Msg("version source written")
		return nil
	}
}

func ioError(op string, path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to %s %s", op, path)).
		WithCause(err)
}
