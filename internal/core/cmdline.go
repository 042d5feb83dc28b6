package core

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/types"
)

var (
	placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	nodePattern        = regexp.MustCompile(`^(SRC|TGT)(?:\[(\d+)\])?(\.parent)?$`)
)

// ExpandCommand expands a run template into an argument vector.
//
// A token that consists of a single placeholder expands to one argument
// per value. Placeholders embedded in a larger token are replaced by their
// space-joined values. `${PAT_ST:VAR}` applies the pattern stored in PAT_ST
// to every value of VAR.
func ExpandCommand(tmpl string, env types.Env, src []string, tgt []string) ([]string, error) {
	var args []string
	for _, token := range strings.Fields(tmpl) {
		matches := placeholderPattern.FindAllStringSubmatchIndex(token, -1)
		if len(matches) == 0 {
			args = append(args, token)
			continue
		}
		if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(token) {
			values, err := expandPlaceholder(token[matches[0][2]:matches[0][3]], env, src, tgt)
			if err != nil {
				return nil, err
			}
			args = append(args, values...)
			continue
		}
		var b strings.Builder
		last := 0
		for _, m := range matches {
			b.WriteString(token[last:m[0]])
			values, err := expandPlaceholder(token[m[2]:m[3]], env, src, tgt)
			if err != nil {
				return nil, err
			}
			b.WriteString(strings.Join(values, " "))
			last = m[1]
		}
		b.WriteString(token[last:])
		if b.Len() > 0 {
			args = append(args, b.String())
		}
	}
	return args, nil
}

func expandPlaceholder(expr string, env types.Env, src []string, tgt []string) ([]string, error) {
	if m := nodePattern.FindStringSubmatch(expr); m != nil {
		nodes := src
		if m[1] == "TGT" {
			nodes = tgt
		}
		if m[2] == "" {
			if m[3] != "" {
				return nil, invalidTemplate(expr, "parent requires an index")
			}
			return nodes, nil
		}
		idx, _ := strconv.Atoi(m[2])
		if idx >= len(nodes) {
			return nil, invalidTemplate(expr, fmt.Sprintf("index %d out of range (%d nodes)", idx, len(nodes)))
		}
		node := nodes[idx]
		if m[3] != "" {
			node = filepath.Dir(node)
		}
		return []string{node}, nil
	}
	if pattern, key, ok := strings.Cut(expr, ":"); ok {
		format := env.First(pattern)
		if format == "" {
			format = "%s"
		}
		values := env.Get(key)
		out := make([]string, 0, len(values))
		for _, value := range values {
			out = append(out, strings.ReplaceAll(format, "%s", value))
		}
		return out, nil
	}
	return env.Get(expr), nil
}

func invalidTemplate(expr string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid command template placeholder ${%s}: %s", expr, reason))
}
