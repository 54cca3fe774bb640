package buildsys

// ModuleSearcher is implemented by systems whose build trees hold compiled
// module interfaces usable as include paths during direct compilation.
type ModuleSearcher interface {
	BuildDirectories() []string
}
