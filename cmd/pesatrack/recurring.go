package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/model"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring bill templates",
	}

	cmd.AddCommand(recurringAddCmd())
	cmd.AddCommand(recurringListCmd())

	return cmd
}

func recurringAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a recurring bill template",
		Long: `Add a template the parser matches new transactions against.
Identify the bill by --paybill (optionally with --account), by
--till, or by --recipient; paybill and till are mutually exclusive.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecurringAdd,
	}

	cmd.Flags().String("amount", "", "expected amount")
	cmd.Flags().String("recipient", "", "recipient name as it appears in messages")
	cmd.Flags().String("paybill", "", "paybill business number")
	cmd.Flags().String("till", "", "till number")
	cmd.Flags().String("account", "", "account number (paybill only)")

	return cmd
}

func runRecurringAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := parseAmountFlag("amount", amountStr)
	if err != nil {
		return err
	}

	recipient, _ := cmd.Flags().GetString("recipient")
	paybill, _ := cmd.Flags().GetString("paybill")
	till, _ := cmd.Flags().GetString("till")
	account, _ := cmd.Flags().GetString("account")

	template := model.RecurringTransaction{
		Name:          args[0],
		Recipient:     recipient,
		PaybillNumber: paybill,
		TillNumber:    till,
		AccountNumber: account,
		Amount:        amount,
		IsActive:      true,
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveRecurringTransaction(ctx, &template); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"added %q: %s", template.Name, cli.FormatKES(template.Amount))))
	return nil
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring bill templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			templates, err := store.ListRecurringTransactions(ctx, false)
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			if len(templates) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no recurring bills yet; add one with `pesatrack recurring add`"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Recurring bills"))
			for _, tpl := range templates {
				var how string
				switch {
				case tpl.PaybillNumber != "" && tpl.AccountNumber != "":
					how = fmt.Sprintf("paybill %s acct %s", tpl.PaybillNumber, tpl.AccountNumber)
				case tpl.PaybillNumber != "":
					how = "paybill " + tpl.PaybillNumber
				case tpl.TillNumber != "":
					how = "till " + tpl.TillNumber
				default:
					how = tpl.Recipient
				}
				line := fmt.Sprintf("%-20s %14s  %s", tpl.Name, cli.FormatKES(tpl.Amount), how)
				if !tpl.IsActive {
					line = cli.SubtleStyle.Render(line + "  (inactive)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
