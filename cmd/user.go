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
	flagUserEmail string
	flagUserRole  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the people who log time",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a user",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

func init() {
	userAddCmd.Flags().StringVar(&flagUserEmail, "email", "", "Email address")
	userAddCmd.Flags().StringVar(&flagUserRole, "role", "member", "Role, e.g. member or lead")
	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	name := strings.Join(args, " ")
	id, err := s.AddUser(cmd.Context(), model.User{Name: name, Email: flagUserEmail, Role: flagUserRole})
	if errors.Is(err, store.ErrDuplicateUser) {
		return fmt.Errorf("user %q already exists", name)
	}
	if err != nil {
		return err
	}
	fmt.Printf("  Added user %d\n", id)
	return nil
}

func runUserList(cmd *cobra.Command, _ []string) error {
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	users, err := s.ListUsers(cmd.Context())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("\n  No users. Add one with `hburn user add <name>`.")
		return nil
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{cli.FormatID(u.ID), u.Name, dash(u.Email), u.Role})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Name", "Email", "Role"},
		Rows:     rows,
		LeftCols: 4,
	}))
	return nil
}

// warnUnknownUser notes, without failing, that a logged user name has no users row.
func warnUnknownUser(cmd *cobra.Command, s *store.Store, name string) {
	if name == "" {
		return
	}
	if ok, err := s.HasUser(cmd.Context(), name); err == nil && !ok {
		warnf("  Note: %q is not a registered user (see `hburn user add`)\n", name)
	}
}
