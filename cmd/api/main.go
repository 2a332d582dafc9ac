package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiPeriods "fact_resolution/pkg/api/periods"
	apiTTM "fact_resolution/pkg/api/ttm"
	"fact_resolution/pkg/core/store"
)

// Config is the engine service configuration loaded from
// config/engine.yaml. Everything has a working default so the service
// can start with no config file at all.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"store"`
}

func loadConfig() Config {
	var cfg Config
	cfg.Server.Port = 8080

	data, err := os.ReadFile("config/engine.yaml")
	if err != nil {
		fmt.Println("[CONFIG] No config/engine.yaml found, using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] Failed to parse config/engine.yaml: %v (using defaults)\n", err)
		cfg = Config{}
		cfg.Server.Port = 8080
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	return cfg
}

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := loadConfig()

	// Optional persistence: the engine runs fine without it.
	if cfg.Store.Enabled {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Store disabled: %v\n", err)
		} else {
			fmt.Println("[STORE] Database pool initialized")
			defer store.Close()
		}
	}

	// TTM endpoints
	http.HandleFunc("/api/ttm/calculate", apiTTM.HandleCalculate)
	http.HandleFunc("/api/ttm/trend", apiTTM.HandleTrend)
	http.HandleFunc("/api/ttm/trend/report", apiTTM.HandleTrendReport)

	// Period selection endpoints
	http.HandleFunc("/api/periods/select", apiPeriods.HandleSelect)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Fact resolution API starting on %s...\n", addr)
	fmt.Println("  - POST /api/ttm/calculate")
	fmt.Println("  - POST /api/ttm/trend")
	fmt.Println("  - POST /api/ttm/trend/report  (markdown/html)")
	fmt.Println("  - POST /api/periods/select")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("[ERROR] Server failed: %v\n", err)
		os.Exit(1)
	}
}
