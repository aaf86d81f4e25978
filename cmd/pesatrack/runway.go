package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/pesatrack/pesatrack/internal/runway"
	"github.com/pesatrack/pesatrack/internal/service"
)

func runwayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runway",
		Short: "Will your cash last until the next payday?",
		Long: `Project your current cash against the month's observed spend rate
to see whether it lasts until the next payday. Payments recorded with
` + "`pesatrack debt pay`" + ` count toward the spend rate via --debt-paid.`,
		RunE: runRunway,
	}

	cmd.Flags().String("cash", "", "cash on hand right now")
	cmd.Flags().String("debt-paid", "0", "debt payments made this month")

	return cmd
}

func runRunway(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cashStr, _ := cmd.Flags().GetString("cash")
	cash, err := parseAmountFlag("cash", cashStr)
	if err != nil {
		return err
	}
	debtPaidStr, _ := cmd.Flags().GetString("debt-paid")
	debtPaid, err := decimal.NewFromString(debtPaidStr)
	if err != nil {
		return fmt.Errorf("invalid --debt-paid %q: %w", debtPaidStr, err)
	}

	now := time.Now()
	sources, expenses, err := loadProjectionInputs(ctx, now)
	if err != nil {
		return err
	}

	report := runway.CashRunway(cash, sources, expenses, debtPaid, now)

	fmt.Println(cli.FormatTitle("Cash runway"))
	if !report.HasIncome {
		fmt.Println(cli.FormatWarning("no active income sources; add one with `pesatrack income add` to project a payday"))
		return nil
	}

	fmt.Printf("next payday:     %s (%d days)\n",
		report.NextPayday.Format("Mon 02 Jan"), report.DaysToPayday)
	fmt.Printf("daily spend:     %s\n", cli.FormatKES(report.DailyAverageSpend))
	fmt.Printf("projected cash:  %s\n", cli.FormatKES(report.ProjectedBalance))
	fmt.Printf("daily budget:    %s to arrive at zero\n", cli.FormatKES(report.ProjectedDailyBudget))
	fmt.Printf("discipline:      %s\n", disciplineLabel(report.Discipline))

	fmt.Println()
	if report.WillMakeIt {
		fmt.Printf("%s  you make it to payday (%s)\n",
			cli.SuccessIcon, cli.StyleRunwayStatus(report.Status))
	} else {
		fmt.Printf("%s  at this rate you run out before payday (%s)\n",
			cli.ErrorIcon, cli.StyleRunwayStatus(report.Status))
	}
	return nil
}

func cashflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cashflow",
		Short: "This month's income vs spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			now := time.Now()

			sources, expenses, err := loadProjectionInputs(ctx, now)
			if err != nil {
				return err
			}

			report := runway.CashFlowHealth(sources, expenses, now)

			fmt.Println(cli.FormatTitle("Cash flow — " + now.Format("January 2006")))
			if !report.HasIncome {
				fmt.Println(cli.FormatWarning("no active income sources this month"))
				fmt.Printf("spent so far: %s\n", cli.FormatKES(report.Expenses))
				return nil
			}

			fmt.Printf("income:           %s\n", cli.FormatKES(report.Income))
			fmt.Printf("spent:            %s (%.0f%%)\n", cli.FormatKES(report.Expenses), report.SpentPercent)
			fmt.Printf("remaining:        %s\n", cli.FormatKES(report.RemainingBalance))
			fmt.Printf("daily allowance:  %s\n", cli.FormatKES(report.DailyAllowance))
			fmt.Printf("discipline:       %s\n", disciplineLabel(report.Discipline))
			fmt.Printf("status:           %s\n", cli.StyleHealthStatus(report.Status))
			return nil
		},
	}
}

// loadProjectionInputs pulls active income sources plus this month's
// and last month's expenses, which is the window both projections
// compare against.
func loadProjectionInputs(ctx context.Context, now time.Time) ([]model.IncomeSource, []model.Expense, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	return loadProjectionInputsFrom(ctx, store, now)
}

func loadProjectionInputsFrom(ctx context.Context, store service.Storage, now time.Time) ([]model.IncomeSource, []model.Expense, error) {
	sources, err := store.ListIncomeSources(ctx, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load income sources: %w", err)
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	end := start.AddDate(0, 2, 0)
	expenses, err := store.GetExpensesByPeriod(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	return sources, expenses, nil
}

func disciplineLabel(trend runway.Trend) string {
	switch trend {
	case runway.TrendUp:
		return cli.ErrorStyle.Render("slipping")
	case runway.TrendDown:
		return cli.SuccessStyle.Render("improving")
	default:
		return cli.SubtleStyle.Render("steady")
	}
}
