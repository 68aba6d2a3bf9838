package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/parigen/db"
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/gen"
	"github.com/teranos/parigen/logger"
	"github.com/teranos/parigen/proto"
)

// DescCmd represents the desc command
var DescCmd = &cobra.Command{
	Use:   "desc",
	Short: "Inspect or import the PARI function database",
	Long: `Inspect or import the PARI function database (pari.desc).

Examples:
  parigen desc list                         # Every function with its verdict
  parigen desc list --eligible              # Only functions that pass the filter
  parigen desc import pari.desc --db pari.db`,
}

var descImportCmd = &cobra.Command{
	Use:   "import <pari.desc>",
	Short: "Import pari.desc into a SQLite descriptor database",
	Long: `Parse pari.desc and replace the contents of the descriptor database with it.
Set store.backend = "sqlite" to generate from the database afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescImport,
}

var descListCmd = &cobra.Command{
	Use:   "list",
	Short: "List functions in the configured descriptor store",
	RunE:  runDescList,
}

func init() {
	descImportCmd.Flags().String("db", "parigen.db", "SQLite database to import into")
	descListCmd.Flags().Bool("eligible", false, "Only list functions that pass the filter")

	DescCmd.AddCommand(descImportCmd)
	DescCmd.AddCommand(descListCmd)
}

func runDescImport(cmd *cobra.Command, args []string) error {
	log := logger.ComponentLogger("desc")
	dbPath, _ := cmd.Flags().GetString("db")

	records, err := desc.NewFileStore(args[0], log).ReadAll()
	if err != nil {
		return err
	}

	conn, err := db.OpenWithMigrations(dbPath, log)
	if err != nil {
		return errors.WrapStoreFailure(err, "opening descriptor database")
	}
	defer conn.Close()

	if err := desc.NewSQLiteStore(conn, log).Import(records); err != nil {
		return err
	}
	pterm.Success.Printfln("Imported %d functions into %s", len(records), dbPath)
	return nil
}

func runDescList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.ComponentLogger("desc")
	p, err := newPipeline(cfg, nil, log)
	if err != nil {
		return err
	}
	defer p.Close()

	records, err := p.store.ReadAll()
	if err != nil {
		return err
	}
	ds, err := desc.FromRecords(records, log)
	if err != nil {
		return err
	}
	eligibleOnly, _ := cmd.Flags().GetBool("eligible")
	deprecations := cfg.DeprecationMap()

	data := pterm.TableData{{"Function", "C name", "Prototype", "Class", "Verdict"}}
	for _, d := range desc.Sorted(ds) {
		verdict := p.filter.Check(d)
		if eligibleOnly && !verdict.Eligible() {
			continue
		}
		data = append(data, []string{d.Name, d.CName, d.Prototype, string(d.Class), describeVerdict(d, verdict.Eligible(), string(verdict.Reason), deprecations[d.Name])})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// describeVerdict says where an eligible function goes, or why it does not
func describeVerdict(d desc.Descriptor, eligible bool, reason string, deprecated map[string]proto.Deprecation) string {
	if !eligible {
		return "rejected: " + reason
	}
	r, err := gen.Route(d, proto.Options{Deprecated: deprecated})
	if err != nil {
		return "skipped: unsupported prototype"
	}
	return gen.ClassName(r.Receiver)
}
