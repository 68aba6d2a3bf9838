package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/gen"
	"github.com/teranos/parigen/logger"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the generated files are up to date",
	Long: `Generate into a temporary directory and compare the result with the
files on disk. Exits non-zero when they differ. Nothing is written.`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().String("desc", "", "Path to pari.desc (overrides desc.path)")
	CheckCmd.Flags().String("output-dir", "", "Directory of the generated files (overrides output.dir)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, nil, logger.ComponentLogger("check"))
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := gen.Check(p.opts)
	if err != nil {
		return err
	}
	if result.UpToDate {
		pterm.Success.Println("Generated files are up to date")
		return nil
	}

	for _, path := range result.Differences {
		pterm.Error.Printfln("%s is out of date", path)
	}
	return errors.WithHint(
		errors.Newf("%d generated files are out of date", len(result.Differences)),
		"run 'parigen generate' and commit the result",
	)
}
