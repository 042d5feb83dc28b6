package types

import (
	"sort"
	"strings"
)

// Env is the flag environment shared by all tasks of a build. Every entry
// is a list; scalar settings are single-element lists.
type Env map[string][]string

func NewEnv() Env {
	return Env{}
}

func (e Env) Get(key string) []string {
	return e[key]
}

// GetFlat returns the values of key joined by single spaces.
func (e Env) GetFlat(key string) string {
	return strings.Join(e[key], " ")
}

// First returns the first value of key or an empty string.
func (e Env) First(key string) string {
	values := e[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (e Env) Set(key string, values ...string) {
	e[key] = append([]string(nil), values...)
}

func (e Env) Append(key string, values ...string) {
	e[key] = append(e[key], values...)
}

// AppendUnique appends the values that are not yet present for key.
func (e Env) AppendUnique(key string, values ...string) {
	seen := make(map[string]struct{}, len(e[key]))
	for _, value := range e[key] {
		seen[value] = struct{}{}
	}
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		e[key] = append(e[key], value)
	}
}

func (e Env) Has(key string) bool {
	return len(e[key]) > 0
}

func (e Env) Clone() Env {
	out := make(Env, len(e))
	for key, values := range e {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// Keys returns all keys in sorted order.
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
