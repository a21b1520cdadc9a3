package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
	"tax-engine/internal/form1040"
	"tax-engine/internal/gateway"
	"tax-engine/internal/logger"
	"tax-engine/internal/usecase"
)

func main() {
	// Define command-line flags
	documents := flag.String("documents", "", "Comma-separated list of processed document files, CSV or JSON (required)")
	filingStatus := flag.String("filing-status", "single", "Filing status: single, married-jointly, married-separately, head-of-household, qualifying-widow")
	itemized := flag.Bool("itemized", false, "Use itemized deductions instead of the standard deduction")
	itemizedAmountStr := flag.String("itemized-amount", "0", "Total itemized deductions")
	estimatedStr := flag.String("estimated-payments", "0", "Estimated tax payments made for the year")
	taxYear := flag.Int("year", 0, "Tax year (defaults to the latest supported year)")
	showForm := flag.Bool("form1040", false, "Print the Form 1040 mapping instead of the full report")
	xlsxPath := flag.String("xlsx", "", "Also write the Form 1040 workbook to this path")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	// Validate required flags
	if *documents == "" {
		fmt.Println("Error: the -documents flag is required.")
		flag.Usage()
		os.Exit(1)
	}

	// Parse amounts
	itemizedAmount, err := decimal.NewFromString(*itemizedAmountStr)
	if err != nil {
		log.Fatalf("Error parsing itemized amount: %v", err)
	}
	estimated, err := decimal.NewFromString(*estimatedStr)
	if err != nil {
		log.Fatalf("Error parsing estimated payments: %v", err)
	}
	if err := domain.CheckAmount(itemizedAmount); err != nil {
		log.Fatalf("Invalid itemized amount: %v", err)
	}
	if err := domain.CheckAmount(estimated); err != nil {
		log.Fatalf("Invalid estimated payments: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: *logLevel})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- Dependency Injection (Wiring the application) ---

	// 1. Create the repository (the outermost layer)
	fileRepo := gateway.NewFileDocumentRepository(zapLogger.Named("gateway"))

	// 2. Create the usecase and inject the repository. Local runs are not persisted.
	taxUseCase := usecase.NewTaxCalculationUseCase(fileRepo, nil, zapLogger.Named("usecase"))

	// --- Execute the Usecase ---
	report, err := taxUseCase.Calculate(context.Background(), *documents, domain.CalculationRequest{
		FilingStatus:            domain.ParseFilingStatus(*filingStatus),
		UseItemizedDeductions:   *itemized,
		ItemizedDeductionAmount: itemizedAmount,
		EstimatedTaxPayments:    estimated,
		TaxYear:                 *taxYear,
	})
	if err != nil {
		log.Fatalf("Tax calculation failed: %v", err)
	}

	ret := form1040.Map(report.Result, report.ExtractedData, report.Documents)
	if *xlsxPath != "" {
		data, err := form1040.XLSX(ret)
		if err != nil {
			log.Fatalf("Failed to generate Form 1040 workbook: %v", err)
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *xlsxPath, err)
		}
	}

	// --- Present the Output ---
	var output []byte
	if *showForm {
		output, err = json.MarshalIndent(ret, "", "  ")
	} else {
		output, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		log.Fatalf("Failed to generate JSON report: %v", err)
	}

	fmt.Println(string(output))
	printSummary(report)
}

// printSummary writes a human-readable digest to stderr so stdout stays valid JSON.
func printSummary(report *domain.TaxReport) {
	final := report.Result.Phases.Phase11FinalBalance
	fmt.Fprintf(os.Stderr, "%d document(s), tax year %d, %s\n",
		report.DocumentCount, report.Result.Metadata.TaxYear, report.Result.Metadata.FilingStatus.UIToken())
	fmt.Fprintf(os.Stderr, "Taxable income: $%s\n", dollars(report.Overview.TaxableIncome))
	fmt.Fprintf(os.Stderr, "Total tax:      $%s (effective %s%%)\n",
		dollars(report.Overview.EstimatedTax), report.Overview.EffectiveTaxRate.StringFixed(2))
	if final.FinalStatus == domain.BalanceStatusRefund {
		fmt.Fprintf(os.Stderr, "Refund:         $%s\n", dollars(final.RefundAmount))
	} else {
		fmt.Fprintf(os.Stderr, "Balance due:    $%s\n", dollars(final.BalanceDue))
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", w.DocumentID, w.FieldName, w.Message)
	}
}

func dollars(d decimal.Decimal) string {
	f, _ := d.Float64()
	return humanize.FormatFloat("#,###.##", f)
}
