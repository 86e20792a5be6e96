package core

// DefaultTargetAudience is assumed when a repository does not state who its
// doc comments are written for.
const DefaultTargetAudience = "experienced practitioners of the repository's primary language"

// RepoConfig represents the structure of the .comment-warden.yml file.
type RepoConfig struct {
	// TargetAudience describes who the repository's doc comments are written
	// for. Doc comments are judged against this readership.
	TargetAudience string `yaml:"target_audience"`

	// Custom instructions appended to the audit prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// High-performance exclusion of entire directories by name.
	// Example: ["dist", "build", "vendor"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`

	// PlaceholderMarkers are the tokens that mark a comment as planned work.
	PlaceholderMarkers []string `yaml:"placeholder_markers"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		TargetAudience:     DefaultTargetAudience,
		CustomInstructions: []string{},
		ExcludeDirs:        []string{"vendor", "node_modules", "dist", "build"},
		ExcludeExts:        []string{},
		PlaceholderMarkers: []string{"TODO", "FIXME", "XXX", "HACK"},
	}
}
