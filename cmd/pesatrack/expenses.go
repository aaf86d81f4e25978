package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Browse saved expenses",
	}

	cmd.AddCommand(expensesListCmd())

	return cmd
}

func expensesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved expenses",
		RunE:  runExpensesList,
	}

	cmd.Flags().Int("limit", 20, "number of recent expenses to show")
	cmd.Flags().String("month", "", "show one calendar month instead (YYYY-MM)")

	return cmd
}

func runExpensesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit, _ := cmd.Flags().GetInt("limit")
	month, _ := cmd.Flags().GetString("month")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	var expenses []model.Expense
	if month != "" {
		start, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --month %q, want YYYY-MM: %w", month, err)
		}
		expenses, err = store.GetExpensesByPeriod(ctx, start, start.AddDate(0, 1, 0))
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
	} else {
		expenses, err = store.GetRecentExpenses(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
	}

	if len(expenses) == 0 {
		fmt.Println(cli.SubtleStyle.Render("no expenses recorded"))
		return nil
	}

	fmt.Println(cli.FormatTitle("Expenses"))
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		category := e.Category
		if category == "" {
			category = cli.SubtleStyle.Render("uncategorized")
		}
		fmt.Printf("%s  %14s  %-25s %s\n",
			e.Date.Format("2006-01-02"),
			cli.FormatKES(e.Amount),
			e.Recipient,
			category)
	}
	fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("total: %s across %d expenses",
		cli.FormatKES(total), len(expenses))))

	return nil
}
