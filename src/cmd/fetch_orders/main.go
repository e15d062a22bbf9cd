package main

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/spread-trader/src/cmd/fetch_orders/run"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/fetch_orders/main.go --orderIDs 12890162,12848807",
	Short: "Fetch results of multiple spread trades by order ID",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		orderIDs, err := cmd.Flags().GetIntSlice("orderIDs")
		if err != nil {
			log.Fatalf("error getting orderIDs: %v", err)
		}

		result, err := run.Run(context.Background(), run.RunArgs{
			OrderIDs: orderIDs,
			GoEnv:    goEnv,
			OutDir:   outDir,
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if outDir == "" {
			orderJSON, err := json.MarshalIndent(result.Orders, "", "  ")
			if err != nil {
				log.Errorf("Failed to marshal orders: %v", err)
			} else {
				fmt.Println(string(orderJSON))
			}
		} else {
			csvPath, err := run.ExportToCsv(outDir, result.Orders, "fetch_orders")
			if err != nil {
				log.Errorf("Failed to export to CSV: %v", err)
			} else {
				fmt.Println("CSV file written to: ", csvPath)
			}
		}

		summary, err := run.Summary(result.Orders)
		if err != nil {
			log.Errorf("Failed to build summary: %v", err)
		} else {
			fmt.Print(summary)
		}
	},
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().IntSlice("orderIDs", []int{}, "The tradier order ids.")
	runCmd.PersistentFlags().String("outDir", "", "The directory to write the output to.")

	runCmd.MarkPersistentFlagRequired("orderIDs")

	runCmd.Execute()
}
