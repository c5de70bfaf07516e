package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tradeforge/etf-direction/internal/monitoring"
	"github.com/tradeforge/etf-direction/pkg/config"
	"github.com/tradeforge/etf-direction/pkg/orchestrator"
)

const (
	AppName    = "ETF Direction Pipeline"
	AppVersion = "1.0.0"
)

func main() {
	var (
		configFile  = flag.String("config", "", "JSON configuration file (optional, env and flags override)")
		dataFile    = flag.String("data", "", "Input CSV file with daily bars")
		asset       = flag.String("asset", "", "Target asset ticker (e.g. SPY)")
		startDate   = flag.String("start", "", "Start date filter (YYYY-MM-DD)")
		endDate     = flag.String("end", "", "End date filter (YYYY-MM-DD)")
		maWindow    = flag.Int("ma-window", 0, "Close moving-average window")
		volWindow   = flag.Int("volume-ma-window", 0, "Volume moving-average window")
		rsiWindow   = flag.Int("rsi-window", 0, "RSI window")
		testFrac    = flag.Float64("test-fraction", 0, "Held-out test fraction in (0, 1)")
		folds       = flag.Int("folds", 0, "Walk-forward fold count")
		kGrid       = flag.String("k-grid", "", "Comma-separated neighbor counts to search (e.g. 3,5,9)")
		scoring     = flag.String("scoring", "", "Model-selection metric: accuracy or f1")
		workers     = flag.Int("workers", 0, "Parallel grid workers (0 = one per CPU)")
		jsonFile    = flag.String("json", "", "Write JSON report to file")
		excelFile   = flag.String("excel", "", "Write Excel report to file")
		parquetFile = flag.String("parquet", "", "Export assembled dataset as Parquet")
		metricsPort = flag.Int("metrics-port", 0, "Expose Prometheus metrics on this port")
		envFile     = flag.String("env", ".env", "Environment file to load")
		quiet       = flag.Bool("quiet", false, "Suppress console report output")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	loadEnvironment(*envFile)

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	applyFlagOverrides(cfg, *dataFile, *asset, *startDate, *endDate,
		*maWindow, *volWindow, *rsiWindow, *testFrac, *folds, *kGrid,
		*scoring, *workers, *jsonFile, *excelFile, *parquetFile, *metricsPort)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if cfg.PrometheusPort > 0 {
		go func() {
			log.Printf("📈 Metrics listening on :%d/metrics", cfg.PrometheusPort)
			if err := monitoring.Serve(cfg.PrometheusPort); err != nil {
				log.Printf("⚠️ Metrics server stopped: %v", err)
			}
		}()
	}

	pipeline := orchestrator.New(cfg)
	if *quiet {
		pipeline.Quiet()
	}

	if _, err := pipeline.Run(); err != nil {
		log.Fatalf("❌ Pipeline failed: %v", err)
	}
}

// loadEnvironment loads the env file if present. A missing default .env is
// fine; a missing explicitly requested file is not.
func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		if envFile != ".env" {
			log.Fatalf("❌ Error loading env file %s: %v", envFile, err)
		}
	} else {
		log.Printf("📄 Loaded environment from %s", envFile)
	}
}

func resolveConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	cfg := config.Default()
	cfg.ApplyEnv()
	return cfg, nil
}

// applyFlagOverrides lets explicit flags win over file and env values
func applyFlagOverrides(cfg *config.Config, dataFile, asset, startDate, endDate string,
	maWindow, volWindow, rsiWindow int, testFrac float64, folds int, kGrid,
	scoring string, workers int, jsonFile, excelFile, parquetFile string, metricsPort int) {

	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if asset != "" {
		cfg.TargetAsset = asset
	}
	if startDate != "" {
		cfg.StartDate = startDate
	}
	if endDate != "" {
		cfg.EndDate = endDate
	}
	if maWindow > 0 {
		cfg.MAWindow = maWindow
	}
	if volWindow > 0 {
		cfg.VolumeMAWindow = volWindow
	}
	if rsiWindow > 0 {
		cfg.RSIWindow = rsiWindow
	}
	if testFrac > 0 {
		cfg.TestFraction = testFrac
	}
	if folds > 0 {
		cfg.Folds = folds
	}
	if kGrid != "" {
		if ks, err := parseKGrid(kGrid); err != nil {
			log.Fatalf("❌ Invalid -k-grid: %v", err)
		} else {
			cfg.KGrid = ks
		}
	}
	if scoring != "" {
		cfg.Scoring = scoring
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if jsonFile != "" {
		cfg.JSONFile = jsonFile
	}
	if excelFile != "" {
		cfg.ExcelFile = excelFile
	}
	if parquetFile != "" {
		cfg.ParquetFile = parquetFile
	}
	if metricsPort > 0 {
		cfg.PrometheusPort = metricsPort
	}
}

func parseKGrid(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	ks := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		ks = append(ks, v)
	}
	if len(ks) == 0 {
		return nil, fmt.Errorf("no values in %q", raw)
	}
	return ks, nil
}
