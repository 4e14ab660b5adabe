package cmd

// Options holds the shared command-line options for the ghc CLI.
type Options struct {
	ConfigPath     string
	Since          string
	Until          string
	Format         string
	IncludeMembers bool
	Verbosity      int
}
