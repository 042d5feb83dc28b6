package types

type DerivedVersion struct {
	Version  string
	Tag      string
	Distance *int
	CommitID string
	Dirty    bool
}

// VersionDescriptor is computed once per build invocation and embedded into
// the generated version source pair.
type VersionDescriptor struct {
	DerivedVersion
	UnderVersionControl bool
	IsDirty             bool
	RemoteURL           string
}
