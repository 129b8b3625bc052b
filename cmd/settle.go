package cmd

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"melbgo/balance"
	"melbgo/trip"
)

var inputPath string
var outputPath string
var settleRate float64

func settleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settle",
		Short:   "settle a CSV expense ledger",
		Long:    `reads an expense ledger CSV (title,amount,currency,payer,involved), computes each user's net position in AUD, and writes the settlement plan to the output file`,
		Example: `melbgo settle --input expenses.csv --output plan.txt --rate 21.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" || outputPath == "" {
				return cmd.Help()
			}

			inputFile, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer func(inputFile *os.File) {
				err := inputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close input file: %v", err)
				}
			}(inputFile)

			csvContent, err := csv.NewReader(inputFile).ReadAll()
			if err != nil {
				return err
			}

			expenses, err := ParseCSVToExpenses(csvContent)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			if len(expenses) == 0 {
				return fmt.Errorf("no valid expenses found in the CSV")
			}

			balances := balance.Balances(expenses, settleRate)
			plan, err := balance.Plan(balances)
			if err != nil {
				return fmt.Errorf("failed to build settlement plan: %w", err)
			}

			outputFile, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer func(outputFile *os.File) {
				err := outputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close output file: %v", err)
				}
			}(outputFile)

			var b strings.Builder
			b.WriteString("Balances (AUD):\n")
			for _, user := range trip.Users {
				fmt.Fprintf(&b, "  %s: %+.2f\n", user, balances[user])
			}
			b.WriteString("Plan:\n")
			for _, t := range plan {
				fmt.Fprintf(&b, "  %s -> %s: $%.2f AUD (≈ NT$%.0f)\n",
					t.From, t.To, t.Amount, balance.ToTWD(t.Amount, settleRate))
			}
			if s := balance.TwoUserSettlement(balances, settleRate); s != nil {
				fmt.Fprintf(&b, "Summary: %s\n", s)
			}

			_, err = outputFile.WriteString(b.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "csv input file path (required)")
	err := cmd.MarkFlagRequired("input")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "plan output file path (required)")
	err = cmd.MarkFlagRequired("output")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().Float64VarP(&settleRate, "rate", "r", balance.DefaultRate, "TWD per AUD exchange rate")

	return cmd
}

// ParseCSVToExpenses parses a ledger CSV into trip.Expense records.
// Columns: title, amount, currency (AUD|TWD), payer, involved users
// separated by commas inside the last cell.
func ParseCSVToExpenses(csvContent [][]string) ([]trip.Expense, error) {
	if len(csvContent) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	// skip the header row
	dataRows := csvContent[1:]

	var expenses []trip.Expense
	for i, row := range dataRows {
		if len(row) != 5 {
			return nil, fmt.Errorf("row %d: expected 5 columns, but got %d", i+2, len(row)) // +2 to account for the header row
		}

		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to convert amount '%s' to float: %w", i+2, row[1], err)
		}

		currency := trip.Currency(strings.ToUpper(strings.TrimSpace(row[2])))
		if currency != trip.AUD && currency != trip.TWD {
			return nil, fmt.Errorf("row %d: currency must be AUD or TWD, got '%s'", i+2, row[2])
		}

		involved := strings.Split(row[4], ",")
		for j := range involved {
			involved[j] = strings.TrimSpace(involved[j])
		}

		expenses = append(expenses, trip.Expense{
			ID:       fmt.Sprintf("csv-%d", i+1),
			Title:    row[0],
			Amount:   amount,
			Currency: currency,
			Payer:    strings.TrimSpace(row[3]),
			Involved: involved,
		})
	}

	return expenses, nil
}
