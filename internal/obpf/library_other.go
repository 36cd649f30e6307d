//go:build !(darwin || linux || freebsd)

package obpf

// DefaultLibraryName returns the file name the library is usually installed as.
func DefaultLibraryName() string {
	return "obpf.dll"
}

func load(string) (uintptr, error) {
	return 0, ErrUnsupported
}

func lookup(uintptr, string) (uintptr, error) {
	return 0, ErrUnsupported
}

func unload(uintptr) error {
	return nil
}

func bind(any, uintptr) {}

func newCallback(any) uintptr {
	panic(ErrUnsupported)
}
