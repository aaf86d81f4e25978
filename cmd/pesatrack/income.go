package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/model"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income sources",
	}

	cmd.AddCommand(incomeAddCmd())
	cmd.AddCommand(incomeListCmd())

	return cmd
}

func incomeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an income source",
		Long: `Add a salary or other expected inflow. --day is the day of the
month it pays out; --month pins a once-a-year source (a bonus, say)
to a single calendar month.`,
		Args: cobra.ExactArgs(1),
		RunE: runIncomeAdd,
	}

	cmd.Flags().String("amount", "", "amount per payout")
	cmd.Flags().Int("day", 0, "day of the month it pays out (1-31)")
	cmd.Flags().Int("month", 0, "calendar month for once-a-year sources (1-12)")
	cmd.Flags().Bool("inactive", false, "record the source but exclude it from projections")

	return cmd
}

func runIncomeAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amountStr, _ := cmd.Flags().GetString("amount")
	day, _ := cmd.Flags().GetInt("day")
	month, _ := cmd.Flags().GetInt("month")
	inactive, _ := cmd.Flags().GetBool("inactive")

	amount, err := parseAmountFlag("amount", amountStr)
	if err != nil {
		return err
	}

	source := model.IncomeSource{
		Name:      args[0],
		Amount:    amount,
		PaydayDay: day,
		IsActive:  !inactive,
	}
	if month != 0 {
		source.PaydayMonth = &month
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveIncomeSource(ctx, &source); err != nil {
		return fmt.Errorf("failed to save income source: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"added %q: %s on day %d", source.Name, cli.FormatKES(source.Amount), source.PaydayDay)))
	return nil
}

func incomeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List income sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			sources, err := store.ListIncomeSources(ctx, false)
			if err != nil {
				return fmt.Errorf("failed to list income sources: %w", err)
			}
			if len(sources) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no income sources yet; add one with `pesatrack income add`"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Income sources"))
			for _, src := range sources {
				when := fmt.Sprintf("day %d", src.PaydayDay)
				if src.PaydayMonth != nil {
					when = fmt.Sprintf("%s %d", monthName(*src.PaydayMonth), src.PaydayDay)
				}
				line := fmt.Sprintf("%-20s %14s  %s", src.Name, cli.FormatKES(src.Amount), when)
				if !src.IsActive {
					line = cli.SubtleStyle.Render(line + "  (inactive)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func monthName(m int) string {
	names := [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if m < 1 || m > 12 {
		return fmt.Sprintf("month %d", m)
	}
	return names[m-1]
}
