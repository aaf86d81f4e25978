package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/debt"
	"github.com/pesatrack/pesatrack/internal/model"
)

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Simulate and track debts",
	}

	cmd.AddCommand(debtCalcCmd())
	cmd.AddCommand(debtPaymentCmd())
	cmd.AddCommand(debtAddCmd())
	cmd.AddCommand(debtListCmd())
	cmd.AddCommand(debtPayCmd())

	return cmd
}

func debtFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", string(model.DebtAmortizing), "debt type (one-time, interest-push, amortizing)")
	cmd.Flags().String("principal", "", "starting balance")
	cmd.Flags().String("rate", "0", "annual interest rate, percent")
	cmd.Flags().String("payment", "", "monthly payment")
	cmd.Flags().String("compounding", string(model.CompoundMonthly), "compounding (monthly, quarterly, annually)")
}

func debtFromFlags(cmd *cobra.Command) (model.Debt, error) {
	debtType, _ := cmd.Flags().GetString("type")
	principalStr, _ := cmd.Flags().GetString("principal")
	rateStr, _ := cmd.Flags().GetString("rate")
	paymentStr, _ := cmd.Flags().GetString("payment")
	compounding, _ := cmd.Flags().GetString("compounding")

	principal, err := parseAmountFlag("principal", principalStr)
	if err != nil {
		return model.Debt{}, err
	}
	payment, err := parseAmountFlag("payment", paymentStr)
	if err != nil {
		return model.Debt{}, err
	}
	rate, err := parseRateFlag(rateStr)
	if err != nil {
		return model.Debt{}, err
	}

	d := model.Debt{
		Type:              model.DebtType(debtType),
		Compounding:       model.Compounding(compounding),
		Principal:         principal,
		AnnualRatePercent: rate,
		MonthlyPayment:    payment,
	}
	if d.Type == model.DebtOneTime {
		d.Compounding = ""
	}
	return d, nil
}

func debtCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Simulate a debt repayment schedule",
		RunE:  runDebtCalc,
	}

	debtFlags(cmd)
	cmd.Flags().Bool("schedule", false, "print the full month-by-month schedule")

	return cmd
}

func runDebtCalc(cmd *cobra.Command, _ []string) error {
	d, err := debtFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := debt.Calculate(d)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Debt repayment"))
	if result.NonConvergent {
		fmt.Println(cli.FormatWarning(
			"this debt never pays off: the payment does not cover the accruing interest"))
		fmt.Printf("balance after %d months: still growing\n", result.PayoffMonths)
		return nil
	}

	years := result.PayoffMonths / 12
	months := result.PayoffMonths % 12
	fmt.Printf("paid off in:    %d months (%dy %dm)\n", result.PayoffMonths, years, months)
	fmt.Printf("monthly:        %s\n", cli.FormatKES(result.MonthlyPayment))
	fmt.Printf("total interest: %s\n", cli.FormatKES(result.TotalInterest))
	fmt.Printf("total paid:     %s\n", cli.FormatKES(result.TotalPayment))

	showSchedule, _ := cmd.Flags().GetBool("schedule")
	if showSchedule && len(result.Schedule) > 0 {
		fmt.Println()
		fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf(
			"%5s  %14s  %14s  %14s  %14s", "month", "payment", "principal", "interest", "balance")))
		for _, entry := range result.Schedule {
			fmt.Printf("%5d  %14s  %14s  %14s  %14s\n",
				entry.Month,
				entry.Payment.StringFixed(2),
				entry.Principal.StringFixed(2),
				entry.Interest.StringFixed(2),
				entry.Balance.StringFixed(2))
		}
	}

	return nil
}

func debtPaymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Monthly payment needed to clear a debt in a target number of months",
		RunE:  runDebtPayment,
	}

	cmd.Flags().String("principal", "", "starting balance")
	cmd.Flags().String("rate", "0", "annual interest rate, percent")
	cmd.Flags().Int("months", 0, "target payoff horizon in months")

	return cmd
}

func runDebtPayment(cmd *cobra.Command, _ []string) error {
	principalStr, _ := cmd.Flags().GetString("principal")
	rateStr, _ := cmd.Flags().GetString("rate")
	months, _ := cmd.Flags().GetInt("months")

	principal, err := parseAmountFlag("principal", principalStr)
	if err != nil {
		return err
	}
	rate, err := parseRateFlag(rateStr)
	if err != nil {
		return err
	}

	payment, err := debt.RequiredPayment(principal, rate, months)
	if err != nil {
		return err
	}

	fmt.Printf("pay %s per month to clear %s in %d months at %s%% p.a.\n",
		cli.BoldStyle.Render(cli.FormatKES(payment)),
		cli.FormatKES(principal), months, rate.String())
	return nil
}

func debtAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Track a debt in the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebtAdd,
	}

	debtFlags(cmd)

	return cmd
}

func runDebtAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := debtFromFlags(cmd)
	if err != nil {
		return err
	}
	d.Name = args[0]

	// Validate before touching the database so the engine will accept
	// the same record later.
	if _, err := debt.Calculate(d); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveDebt(ctx, &d); err != nil {
		return fmt.Errorf("failed to save debt: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("tracking %q (%s)", d.Name, d.ID)))
	return nil
}

func debtListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked debts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			debts, err := store.ListDebts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list debts: %w", err)
			}
			if len(debts) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no debts tracked"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Debts"))
			for _, d := range debts {
				fmt.Printf("%s  %-20s %-14s balance %s of %s\n",
					cli.SubtleStyle.Render(d.ID),
					d.Name, d.Type,
					cli.FormatKES(d.CurrentBalance),
					cli.FormatKES(d.Principal))
			}
			return nil
		},
	}
}

func debtPayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay ID",
		Short: "Record a payment against a tracked debt",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebtPay,
	}

	cmd.Flags().String("amount", "", "payment amount")

	return cmd
}

func runDebtPay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := parseAmountFlag("amount", amountStr)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	debts, err := store.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list debts: %w", err)
	}

	for _, d := range debts {
		if d.ID != args[0] && d.Name != args[0] {
			continue
		}
		balance := d.CurrentBalance.Sub(amount)
		if err := store.UpdateDebtBalance(ctx, d.ID, balance); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if balance.IsPositive() {
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"%q balance is now %s", d.Name, cli.FormatKES(balance))))
		} else {
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%q is paid off 🎉", d.Name)))
		}
		return nil
	}

	return fmt.Errorf("%w: no debt named or with id %q", common.ErrNotFound, args[0])
}
