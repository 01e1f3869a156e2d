package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/hburn/internal/apiclient"
	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagReportJSON   bool
	flagReportFormat string
	flagReportRemote string
)

var reportCmd = &cobra.Command{
	Use:   "report <contractID>",
	Short: "Consumption and burn-rate report for one contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Reports for every active contract",
	Args:  cobra.NoArgs,
	RunE:  runContracts,
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, contractsCmd} {
		c.Flags().BoolVar(&flagReportJSON, "json", false, "Print JSON instead of a table")
		c.Flags().StringVar(&flagReportFormat, "format", "", "Machine-readable output: json or yaml")
		c.Flags().StringVar(&flagReportRemote, "remote", "", "Fetch from a running daemon at this address")
	}
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(contractsCmd)
}

// outputFormat is the machine format requested, or "" for the styled table.
func outputFormat() (string, error) {
	switch {
	case flagReportFormat == cli.FormatJSON || flagReportFormat == cli.FormatYAML:
		return flagReportFormat, nil
	case flagReportFormat != "":
		return "", fmt.Errorf("unknown format %q (want json or yaml)", flagReportFormat)
	case flagReportJSON:
		return cli.FormatJSON, nil
	}
	return "", nil
}

func runReport(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	var (
		rep     model.ContractReport
		skipped int
	)
	if flagReportRemote != "" {
		rep, err = apiclient.New(flagReportRemote).FetchReport(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fetching report: %w", err)
		}
	} else {
		res, err := localReport(cmd.Context(), id)
		if err != nil {
			return err
		}
		rep, skipped = res.Report, len(res.Skipped)
	}

	if format != "" {
		return cli.Encode(os.Stdout, format, rep)
	}

	fmt.Println()
	fmt.Print(cli.RenderReport(rep, 30))
	if skipped > 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d invalid entries excluded", skipped)))
	}
	fmt.Println()
	return nil
}

func localReport(ctx context.Context, id int64) (pipeline.Result, error) {
	now, err := sampleNow()
	if err != nil {
		return pipeline.Result{}, err
	}
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer func() { _ = s.Close() }()

	res, err := newReporter(cfg, s).Contract(ctx, id, now)
	if err != nil {
		var inv *burn.InvalidEntryError
		if errors.As(err, &inv) {
			return res, fmt.Errorf("%w (rerun with --skip-invalid to exclude it)", err)
		}
		return res, err
	}
	return res, nil
}

func runContracts(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	var (
		reports  []model.ContractReport
		failures []error
	)
	if flagReportRemote != "" {
		reports, err = apiclient.New(flagReportRemote).FetchReports(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching reports: %w", err)
		}
	} else {
		now, err := sampleNow()
		if err != nil {
			return err
		}
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		var results []pipeline.Result
		results, failures = newReporter(cfg, s).Active(cmd.Context(), now)
		reports = pipeline.Reports(results)
	}

	if format != "" {
		for _, e := range failures {
			warnf("  ! %v\n", e)
		}
		if reports == nil {
			reports = []model.ContractReport{}
		}
		return cli.Encode(os.Stdout, format, reports)
	}

	if len(reports) == 0 && len(failures) == 0 {
		fmt.Println("\n  No active contracts. Add one with `hburn contract add`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACTIVE CONTRACTS"))
	fmt.Println()

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, cli.ReportRow(r, 20))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  cli.ReportHeaders,
		Rows:     rows,
		LeftCols: 3,
	}))

	for _, e := range failures {
		fmt.Println(cli.RenderWarning(e.Error()))
	}
	return nil
}
