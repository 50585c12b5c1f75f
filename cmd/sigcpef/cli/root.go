package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates the root command tree and runs it.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigcpef",
		Short: "SIGCPEF personnel API",
		Long: `SIGCPEF personnel API: JWT authentication, role-based access control and
the RRHH, Operaciones and ICAP personnel records.

Configuration is read from environment variables (JWT_SECRET, MONGO_URI, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newUserCmd())

	return cmd
}
