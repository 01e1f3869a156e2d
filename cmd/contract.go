package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagCompanyCNPJ  string
	flagCompanyEmail string

	flagContractCompany int64
	flagContractTitle   string
	flagContractType    string
	flagContractHours   float64
	flagContractStart   string
	flagContractEnd     string
	flagContractAll     bool
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage client companies",
}

var companyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a company",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompanyAdd,
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Args:  cobra.NoArgs,
	RunE:  runCompanyList,
}

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage fixed-hour contracts",
}

var contractAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contract",
	Args:  cobra.NoArgs,
	RunE:  runContractAdd,
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts",
	Args:  cobra.NoArgs,
	RunE:  runContractList,
}

var contractDeactivateCmd = &cobra.Command{
	Use:   "deactivate <contractID>",
	Short: "Deactivate a contract so it leaves active reports",
	Args:  cobra.ExactArgs(1),
	RunE:  runContractDeactivate,
}

func init() {
	companyAddCmd.Flags().StringVar(&flagCompanyCNPJ, "cnpj", "", "Company tax id")
	companyAddCmd.Flags().StringVar(&flagCompanyEmail, "email", "", "Contact email")
	companyCmd.AddCommand(companyAddCmd, companyListCmd)

	f := contractAddCmd.Flags()
	f.Int64Var(&flagContractCompany, "company", 0, "Owning company id")
	f.StringVar(&flagContractTitle, "title", "", "Contract title (default \"<company> - <type>\")")
	f.StringVar(&flagContractType, "type", "", "Contract type, e.g. Support")
	f.Float64Var(&flagContractHours, "hours", 0, "Total contracted hours")
	f.StringVar(&flagContractStart, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&flagContractEnd, "end", "", "End date (YYYY-MM-DD)")
	_ = contractAddCmd.MarkFlagRequired("company")
	_ = contractAddCmd.MarkFlagRequired("hours")
	_ = contractAddCmd.MarkFlagRequired("start")
	_ = contractAddCmd.MarkFlagRequired("end")

	contractListCmd.Flags().BoolVarP(&flagContractAll, "all", "a", false, "Include inactive contracts")
	contractCmd.AddCommand(contractAddCmd, contractListCmd, contractDeactivateCmd)

	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(contractCmd)
}

func runCompanyAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := s.AddCompany(cmd.Context(), model.Company{
		Name:         strings.Join(args, " "),
		CNPJ:         flagCompanyCNPJ,
		ContactEmail: flagCompanyEmail,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Added company %d\n", id)
	return nil
}

func runCompanyList(cmd *cobra.Command, _ []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	companies, err := s.ListCompanies(cmd.Context())
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		fmt.Println("\n  No companies. Add one with `hburn company add <name>`.")
		return nil
	}

	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{cli.FormatID(c.ID), c.Name, dash(c.CNPJ), dash(c.ContactEmail)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Name", "CNPJ", "Email"},
		Rows:     rows,
		LeftCols: 4,
	}))
	return nil
}

func runContractAdd(cmd *cobra.Command, _ []string) error {
	start, err := parseInstant(flagContractStart, nil)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end, err := parseInstant(flagContractEnd, nil)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := s.AddContract(cmd.Context(), model.Contract{
		CompanyID:    flagContractCompany,
		Title:        flagContractTitle,
		ContractType: flagContractType,
		TotalHours:   flagContractHours,
		StartDate:    start,
		EndDate:      end,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrInvalidRange) {
		return fmt.Errorf("--end %s is before --start %s", flagContractEnd, flagContractStart)
	}
	if err != nil {
		return err
	}
	fmt.Printf("  Added contract %d\n", id)
	return nil
}

func runContractList(cmd *cobra.Command, _ []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	contracts, err := s.ListContracts(cmd.Context(), !flagContractAll)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		fmt.Println("\n  No contracts. Add one with `hburn contract add`.")
		return nil
	}

	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		state := "active"
		if !c.IsActive {
			state = "inactive"
		}
		rows = append(rows, []string{
			cli.FormatID(c.ID),
			c.DisplayTitle(),
			dash(c.CompanyName),
			cli.FormatDate(c.StartDate),
			cli.FormatDate(c.EndDate),
			cli.FormatHours(c.TotalHours),
			state,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Contract", "Company", "Start", "End", "Hours", "State"},
		Rows:     rows,
		LeftCols: 5,
	}))
	return nil
}

func runContractDeactivate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeactivateContract(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("contract %d not found", id)
		}
		return err
	}
	fmt.Printf("  Deactivated contract %d\n", id)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
