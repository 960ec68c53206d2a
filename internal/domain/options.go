package domain

// CommonOptions contains shared options for commands and orchestration.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
	Force   bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{}
}
