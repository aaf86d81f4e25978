package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pesatrack/pesatrack/internal/category"
	"github.com/pesatrack/pesatrack/internal/cli"
	"github.com/pesatrack/pesatrack/internal/common"
	"github.com/pesatrack/pesatrack/internal/dedupe"
	"github.com/pesatrack/pesatrack/internal/model"
	"github.com/pesatrack/pesatrack/internal/mpesa"
	"github.com/pesatrack/pesatrack/internal/recurring"
)

// historyWindow is how many recent expenses feed duplicate detection
// and category suggestions.
const historyWindow = 1000

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [message...]",
		Short: "Parse M-Pesa confirmation messages",
		Long: `Parse one or more M-Pesa confirmation messages into structured
transactions. Each argument is treated as one message; with --file,
the file is read one message per line instead.

Parsed transactions are checked against stored expenses for likely
duplicates and against your recurring bill templates, and a category
is suggested from your history. Nothing is saved unless --save is
given.`,
		RunE: runParse,
	}

	cmd.Flags().StringP("file", "f", "", "read messages from a file, one per line")
	cmd.Flags().Bool("save", false, "save parsed transactions as expenses")
	cmd.Flags().Bool("json", false, "emit machine-readable JSON instead of styled output")

	return cmd
}

// parseResult is the JSON shape for one input line.
type parseResult struct {
	Error       string                    `json:"error,omitempty"`
	Category    string                    `json:"suggested_category,omitempty"`
	Transaction *model.ParsedTransaction  `json:"transaction,omitempty"`
	Recurring   *recurring.Match          `json:"recurring,omitempty"`
	Duplicates  []dedupe.Match            `json:"duplicates,omitempty"`
	Line        int                       `json:"line"`
	Saved       bool                      `json:"saved,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filePath, _ := cmd.Flags().GetString("file")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	messages, err := collectMessages(args, filePath)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return errors.New("nothing to parse: pass messages as arguments or use --file")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	history, err := store.GetRecentExpenses(ctx, historyWindow)
	if err != nil {
		return fmt.Errorf("failed to load expense history: %w", err)
	}
	rules, err := store.ListRecurringTransactions(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load recurring templates: %w", err)
	}

	var bar *progressbar.ProgressBar
	if filePath != "" && !asJSON && len(messages) > 1 {
		bar = progressbar.NewOptions(len(messages),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Parsing messages..."),
		)
	}

	parser := mpesa.NewParser()
	detector := dedupe.NewDetector()

	results := make([]parseResult, 0, len(messages))
	for _, lr := range parser.ParseBatch(messages) {
		res := parseResult{Line: lr.Index + 1}

		if !lr.OK() {
			res.Error = lr.Err.Error()
			results = append(results, res)
			if bar != nil {
				_ = bar.Add(1)
			}
			continue
		}

		txn := lr.Transaction
		res.Transaction = &txn
		res.Duplicates = detector.Detect(txn, history)

		expense := model.FromParsed(txn)
		res.Recurring = recurring.Best(expense, rules)
		res.Category = category.Suggest(txn.Recipient, history)
		if res.Category == "" && res.Recurring != nil && res.Recurring.Action == recurring.ActionAutoLink {
			res.Category = res.Recurring.Rule.Name
		}

		if save {
			expense.Category = res.Category
			err := store.SaveExpense(ctx, &expense)
			switch {
			case errors.Is(err, common.ErrDuplicateEntry):
				res.Error = "already saved: identical expense exists"
			case err != nil:
				return fmt.Errorf("failed to save expense: %w", err)
			default:
				res.Saved = true
				// Keep later lines in this batch aware of what was
				// just saved.
				history = append(history, expense)
			}
		}

		results = append(results, res)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	displayParseResults(results)
	return nil
}

// collectMessages gathers input lines from args or from --file.
func collectMessages(args []string, filePath string) ([]string, error) {
	if filePath == "" {
		return args, nil
	}
	if len(args) > 0 {
		return nil, errors.New("pass messages as arguments or with --file, not both")
	}

	f, err := os.Open(filePath) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return lines, nil
}

func displayParseResults(results []parseResult) {
	var parsed, failed, saved int

	for _, res := range results {
		if res.Transaction == nil {
			failed++
			fmt.Println(cli.FormatError(fmt.Sprintf("line %d: %s", res.Line, res.Error)))
			continue
		}
		parsed++

		txn := res.Transaction
		fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("line %d: %s %s", res.Line, txn.Type, cli.FormatKES(txn.Amount))))
		if txn.Recipient != "" {
			fmt.Printf("  recipient: %s\n", txn.Recipient)
		}
		if txn.Reference != "" {
			fmt.Printf("  reference: %s\n", txn.Reference)
		}
		fmt.Printf("  date:      %s\n", txn.Timestamp.Format("2006-01-02 15:04"))
		if txn.TransactionCost != nil {
			fmt.Printf("  cost:      %s\n", cli.FormatKES(*txn.TransactionCost))
		}
		if txn.Balance != nil {
			fmt.Printf("  balance:   %s\n", cli.FormatKES(*txn.Balance))
		}
		if res.Category != "" {
			fmt.Printf("  category:  %s\n", cli.SuccessStyle.Render(res.Category))
		}

		if m := res.Recurring; m != nil {
			label := fmt.Sprintf("recurring bill %q (%s, score %d)", m.Rule.Name, m.Confidence, m.Score)
			if m.Action == recurring.ActionAutoLink {
				fmt.Println("  " + cli.FormatSuccess("linked to "+label))
			} else {
				fmt.Println("  " + cli.SubtleStyle.Render("might be "+label))
			}
		}

		for _, dup := range res.Duplicates {
			fmt.Println("  " + cli.FormatWarning(fmt.Sprintf(
				"%s duplicate of %s to %s on %s (%s)",
				dup.Confidence,
				cli.FormatKES(dup.Expense.Amount),
				dup.Expense.Recipient,
				dup.Expense.Date.Format("2006-01-02"),
				strings.Join(dup.Reasons, ", "))))
		}

		switch {
		case res.Saved:
			saved++
			fmt.Println("  " + cli.FormatSuccess("saved"))
		case res.Error != "":
			fmt.Println("  " + cli.FormatWarning(res.Error))
		}
	}

	summary := fmt.Sprintf("%d parsed, %d failed", parsed, failed)
	if saved > 0 {
		summary += fmt.Sprintf(", %d saved", saved)
	}
	fmt.Println(cli.SubtleStyle.Render(summary))
}
