package cmd

import (
	"fmt"

	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import time entries from CSV or JSONL exports",
	Long:  "Import time entries from a .csv or .jsonl file, or every such file under a directory. Files unchanged since the last import are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import files even if unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	warnf("  Scanning %s...\n", args[0])
	res, err := pipeline.Import(cmd.Context(), args[0], s, pipeline.ImportOptions{
		Force:    flagImportForce,
		UserName: cfg.General.UserName,
		Progress: func(current, total int) {
			if current%10 == 0 || current == total {
				warnf("\r  Parsing [%d/%d]", current, total)
			}
		},
	})
	if err != nil {
		return err
	}
	if res.Imported+res.FileErrors > 0 {
		warnf("\n")
	}

	for _, e := range res.Errors {
		fmt.Println(cli.RenderWarning(e.Error()))
	}

	if res.TotalFiles == 0 {
		fmt.Println("  No .csv or .jsonl files found.")
		return nil
	}

	fmt.Printf("  Imported %s entries from %d files (%d unchanged, batch %s)\n",
		cli.FormatNumber(int64(res.Entries)), res.Imported, res.Skipped, res.BatchID)
	if res.ParseErrors > 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d malformed lines skipped", res.ParseErrors)))
	}
	if res.FileErrors > 0 {
		return fmt.Errorf("%d files failed to import", res.FileErrors)
	}
	return nil
}
