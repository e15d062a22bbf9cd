package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/spread-trader/src/eventconsumers"
	"github.com/jiaming2012/spread-trader/src/eventmodels"
	"github.com/jiaming2012/spread-trader/src/eventpubsub"
	"github.com/jiaming2012/spread-trader/src/eventservices"
	"github.com/jiaming2012/spread-trader/src/router"
	"github.com/jiaming2012/spread-trader/src/strategy"
	"github.com/jiaming2012/spread-trader/src/utils"
)

type RunArgs struct {
	ConfigPath   string
	Symbol       string
	GoEnv        string
	DryRun       bool
	PollInterval time.Duration
	Port         string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/trader/main.go --config spreads.yaml",
	Short: "Open and manage a same-day credit spread against the configured underlying",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}

		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			log.Fatalf("error getting dry-run: %v", err)
		}

		pollInterval, err := cmd.Flags().GetDuration("poll-interval")
		if err != nil {
			log.Fatalf("error getting poll-interval: %v", err)
		}

		port, err := cmd.Flags().GetString("port")
		if err != nil {
			log.Fatalf("error getting port: %v", err)
		}

		if err := Run(RunArgs{
			ConfigPath:   configPath,
			Symbol:       symbol,
			GoEnv:        goEnv,
			DryRun:       dryRun,
			PollInterval: pollInterval,
			Port:         port,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func loadSpreadConfig(configPath, symbol string) (*eventmodels.SpreadYAML, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loadSpreadConfig: failed to read %s: %w", configPath, err)
	}

	var config eventmodels.SpreadsConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("loadSpreadConfig: failed to parse %s: %w", configPath, err)
	}

	if len(config.Spreads) == 0 {
		return nil, fmt.Errorf("loadSpreadConfig: no spreads configured in %s", configPath)
	}

	var spread *eventmodels.SpreadYAML
	if symbol == "" {
		spread = &config.Spreads[0]
	} else {
		spread, err = config.GetSpread(eventmodels.NewStockSymbol(symbol))
		if err != nil {
			return nil, fmt.Errorf("loadSpreadConfig: %w", err)
		}
	}

	spread.ApplyDefaults()

	if err := spread.Validate(); err != nil {
		return nil, fmt.Errorf("loadSpreadConfig: %w", err)
	}

	return spread, nil
}

func Run(args RunArgs) error {
	projectsDir, err := utils.GetEnv("PROJECTS_DIR")
	if err != nil {
		return fmt.Errorf("Run: PROJECTS_DIR not set: %w", err)
	}

	if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
		return fmt.Errorf("Run: failed to load environment variables: %w", err)
	}

	baseURL, err := utils.GetEnv("TRADIER_BASE_URL")
	if err != nil {
		return fmt.Errorf("Run: $TRADIER_BASE_URL not set: %w", err)
	}

	accountID, err := utils.GetEnv("TRADIER_TRADES_ACCOUNT_ID")
	if err != nil {
		return fmt.Errorf("Run: $TRADIER_TRADES_ACCOUNT_ID not set: %w", err)
	}

	bearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
	if err != nil {
		return fmt.Errorf("Run: $TRADIER_BEARER_TOKEN not set: %w", err)
	}

	config, err := loadSpreadConfig(args.ConfigPath, args.Symbol)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	log.SetOutput(os.Stdout)
	log.Infof("Run: trading %s %s spreads, dry run: %v", config.Symbol, config.SpreadType, args.DryRun)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := sync.WaitGroup{}

	eventpubsub.Init()

	broker := eventservices.NewTradierBroker(baseURL, accountID, bearerToken, args.DryRun)

	executor := strategy.NewOrderExecutor(broker, config)
	if err := executor.RegisterEventHandlers(); err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	eventconsumers.NewTradierOrdersMonitoringWorker(&wg, broker, args.PollInterval).Start(ctx)

	trader := strategy.NewTrader(&wg, broker, config, executor, 0)
	trader.Start(ctx)

	r := mux.NewRouter()
	router.SetupHandler(r, trader, broker)

	srv := &http.Server{
		Handler: r,
		Addr:    fmt.Sprintf(":%s", args.Port),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Infof("listening on :%s", args.Port)
		if err := srv.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Info("Run: init complete")

	<-stop

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Run: server shutdown: %v", err)
	}

	wg.Wait()

	log.Info("Run: gracefully stopped!")

	return nil
}

func main() {
	runCmd.PersistentFlags().String("config", "spreads.yaml", "Path to the spreads configuration file.")
	runCmd.PersistentFlags().String("symbol", "", "The underlying symbol to trade. Defaults to the first configured spread.")
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().Bool("dry-run", false, "Preview orders instead of placing them.")
	runCmd.PersistentFlags().Duration("poll-interval", 5*time.Second, "How often to poll the broker for order updates.")
	runCmd.PersistentFlags().String("port", "8080", "The port to serve the status API on.")

	runCmd.Execute()
}
