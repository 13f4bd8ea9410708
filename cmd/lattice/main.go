// Command lattice ingests personal documents into a property graph and
// serves it over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/latticekb/lattice/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

var (
	flagBackend string
	flagDB      string
	flagDBURL   string
	flagFmt     string
	flagVerbose bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("lattice version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("lattice version %s-dev", config.Version)
}

// configFile is the optional ~/.lattice/config.yaml. Flags win over env
// vars, which win over the file.
type configFile struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "lattice",
		Short:   "Lattice document-to-graph ingestion pipeline",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite|postgres (env: LATTICE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (env: SQLITE_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagDBURL, "database-url", "", "PostgreSQL connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newNodeCmd())
	rootCmd.AddCommand(newEdgeCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills unset flags from the environment, then from
// ~/.lattice/config.yaml, then from defaults.
func resolveConfig() {
	if flagBackend == "" {
		flagBackend = os.Getenv("LATTICE_BACKEND")
	}
	if flagDB == "" {
		flagDB = os.Getenv("SQLITE_PATH")
	}
	if flagDBURL == "" {
		flagDBURL = os.Getenv("DATABASE_URL")
	}

	if cfg, ok := readConfigFile(); ok {
		if flagBackend == "" {
			flagBackend = cfg.Backend
		}
		if flagDB == "" {
			flagDB = cfg.SQLitePath
		}
		if flagDBURL == "" {
			flagDBURL = cfg.DatabaseURL
		}
	}

	if flagBackend == "" {
		// Postgres when a URL is configured, local SQLite otherwise.
		if flagDBURL != "" {
			flagBackend = config.BackendPostgres
		} else {
			flagBackend = config.BackendSQLite
		}
	}
	if flagDB == "" {
		flagDB = defaultSQLitePath()
	}
}

func readConfigFile() (configFile, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return configFile{}, false
	}

	data, err := os.ReadFile(filepath.Join(home, ".lattice", "config.yaml"))
	if err != nil {
		return configFile{}, false
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return configFile{}, false
	}

	return cfg, true
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lattice.db"
	}
	return filepath.Join(home, ".lattice", "lattice.db")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
