package run

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/jiaming2012/spread-trader/src/eventmodels"
)

func ExportToCsv(inDir string, results []*eventmodels.OptionOrderSpreadResult, outFilePrefix string) (string, error) {
	now := time.Now()
	outFilePath := path.Join(inDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(inDir); os.IsNotExist(err) {
		if err := os.MkdirAll(inDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("ExportToCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to create file: %w", err)
	}
	defer file.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = ','
		return gocsv.NewSafeCSVWriter(writer)
	})

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return "", fmt.Errorf("ExportToCsv: failed to write to file: %w", err)
	}

	return outFilePath, nil
}

// Summary renders aggregate trade statistics for the settled orders.
func Summary(results []*eventmodels.OptionOrderSpreadResult) (string, error) {
	var profits []float64
	wins := 0

	for _, result := range results {
		if !result.IsClosed {
			continue
		}

		profits = append(profits, result.Profit)
		if result.Profit > 0 {
			wins++
		}
	}

	if len(profits) == 0 {
		return "no settled orders\n", nil
	}

	total, err := stats.Sum(profits)
	if err != nil {
		return "", fmt.Errorf("Summary: failed to sum profits: %w", err)
	}

	mean, err := stats.Mean(profits)
	if err != nil {
		return "", fmt.Errorf("Summary: failed to calculate mean profit: %w", err)
	}

	median, err := stats.Median(profits)
	if err != nil {
		return "", fmt.Errorf("Summary: failed to calculate median profit: %w", err)
	}

	display := &strings.Builder{}
	table := tablewriter.NewWriter(display)

	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	table.Append([]string{"settled orders", fmt.Sprintf("%d", len(profits))})
	table.Append([]string{"win rate", fmt.Sprintf("%.0f%%", float64(wins)/float64(len(profits))*100)})
	table.Append([]string{"total profit", fmt.Sprintf("$%.2f", total)})
	table.Append([]string{"mean profit", fmt.Sprintf("$%.2f", mean)})
	table.Append([]string{"median profit", fmt.Sprintf("$%.2f", median)})

	table.Render()

	return display.String(), nil
}
