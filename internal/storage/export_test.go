package storage

// SetRename replaces the file rename used by JSONStorage until restore is called.
func SetRename(f func(oldpath, newpath string) error) (restore func()) {
	prev := rename
	rename = f
	return func() { rename = prev }
}
