package ports

// ProgramFinderPort locates executables, optionally restricted to a list of
// directories searched before PATH.
type ProgramFinderPort interface {
	Find(names []string, pathList []string) (string, error)
}
