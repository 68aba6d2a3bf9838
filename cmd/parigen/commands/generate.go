package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/parigen/am"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/gen"
	"github.com/teranos/parigen/logger"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate auto_gen.pxi and auto_instance.pxi",
	Long: `Generate one Cython method per wrappable PARI function.

Functions whose first argument is a GEN become methods of gen, all others
become methods of PariInstance. Both files are replaced together at the end
of the run; if anything fails, neither is touched.

Examples:
  parigen generate
  parigen generate --desc /usr/share/pari/pari.desc --output-dir src/cypari
  parigen generate --report report.yaml
  parigen generate --watch`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().String("desc", "", "Path to pari.desc (overrides desc.path)")
	GenerateCmd.Flags().String("output-dir", "", "Directory of the generated files (overrides output.dir)")
	GenerateCmd.Flags().String("report", "", "Write a YAML run report to this path (overrides output.report)")
	GenerateCmd.Flags().Bool("watch", false, "Regenerate whenever the config or an input file changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := generateOnce(cmd, cfg); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}
	return watchAndGenerate(cmd, cfg)
}

func generateOnce(cmd *cobra.Command, cfg *am.Config) error {
	log := logger.ComponentLogger("generate")
	p, err := newPipeline(cfg, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}
	defer p.Close()

	g, err := gen.New(p.opts)
	if err != nil {
		return err
	}
	res, err := g.Run()
	if cfg.Output.Report != "" && res != nil {
		if reportErr := gen.WriteReport(cfg.Output.Report, res); reportErr != nil {
			log.Warnw("Failed to write run report", logger.FieldPath, cfg.Output.Report, logger.FieldError, reportErr)
		}
	}
	if err != nil {
		return err
	}

	printSummary(cfg, res)
	return nil
}

func printSummary(cfg *am.Config, res *gen.Result) {
	pterm.Success.Printfln("Generated %d methods: %d in %s, %d in %s",
		len(res.Accepted), res.ValueMethods, cfg.GenPath(), res.EngineMethods, cfg.InstancePath())
	pterm.Info.Printfln("%d functions rejected by the filter", len(res.Rejected))

	if len(res.Skipped) == 0 {
		return
	}
	pterm.Warning.Printfln("%d functions skipped (unsupported prototype)", len(res.Skipped))
	if logger.JSONOutput {
		return
	}
	data := pterm.TableData{{"Function", "Prototype", "Error"}}
	for _, s := range res.Skipped {
		data = append(data, []string{s.Name, s.Prototype, s.Error})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func watchAndGenerate(cmd *cobra.Command, cfg *am.Config) error {
	paths := append([]string{cfg.Desc.Path}, cfg.Decl.Paths...)
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		paths = append(paths, configPath)
	} else if projectPath := am.ProjectConfigPath(); projectPath != "" {
		paths = append(paths, projectPath)
	}

	w, err := am.NewWatcher(func() (*am.Config, error) { return loadConfig(cmd) }, paths...)
	if err != nil {
		return errors.Wrap(err, "failed to start watcher")
	}
	defer w.Stop()

	w.OnReload(func(newCfg *am.Config) error {
		return generateOnce(cmd, newCfg)
	})
	w.Start()

	pterm.Info.Printfln("Watching %d files, press Ctrl-C to stop", len(paths))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
