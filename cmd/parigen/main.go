package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/parigen/cmd/parigen/commands"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "parigen",
	Short: "parigen - Cython wrapper generator for the PARI library",
	Long: `parigen - Cython wrapper generator for the PARI library.

parigen reads the PARI function database (pari.desc), keeps the functions
that can be wrapped and writes one Cython method per function into
auto_gen.pxi (methods of gen) and auto_instance.pxi (methods of PariInstance).

Available commands:
  generate - Generate both .pxi files
  check    - Verify the .pxi files are up to date
  desc     - Inspect or import the function database
  am       - Manage parigen configuration ("I am")
  version  - Show version information

Examples:
  parigen generate                     # Generate using ./parigen.toml
  parigen generate --watch             # Regenerate whenever an input changes
  parigen check                        # Fail if the generated files are stale
  parigen desc list --eligible         # Functions that would be generated`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: parigen.toml found from the working directory)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DescCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
