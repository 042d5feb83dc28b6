package ports

// PragmaScannerPort lists the arguments of all `#pragma` directives in a C
// source file, in source order. Pragmas inside comments are not reported.
type PragmaScannerPort interface {
	ScanPragmas(path string) ([]string, error)
}
