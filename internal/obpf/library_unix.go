//go:build darwin || linux || freebsd

package obpf

import (
	"runtime"

	"github.com/ebitengine/purego"
)

// DefaultLibraryName returns the file name the library is usually installed as.
func DefaultLibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libobpf.dylib"
	}
	return "libobpf.so"
}

func load(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookup(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func unload(handle uintptr) error {
	return purego.Dlclose(handle)
}

func bind(fn any, ptr uintptr) {
	purego.RegisterFunc(fn, ptr)
}

func newCallback(fn any) uintptr {
	return purego.NewCallback(fn)
}
