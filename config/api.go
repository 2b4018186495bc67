package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public read-only paths (dashboard GraphQL has no mutations, no auth)
	return []string{"/graphql", "/playground", "/health"}
}
