package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aziis98/striplines/internal/config"
	"github.com/aziis98/striplines/internal/database"
	"github.com/aziis98/striplines/internal/util"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	db         *database.DB
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "striplines",
	Short: "Strip common indentation from text blocks",
	Long: util.MustDedent(`
		A small tool around a single operation: remove the leading whitespace
		prefix shared by every line of an indented block of text.

		A block may start with an empty line and must end with a line-feed
		followed only by whitespace. The prefix is taken from the first
		non-blank line unless one is configured.
	`),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize configuration
		cfg = config.New()
		cfg.Verbose = verbose

		// Setup logging
		if cfg.Verbose {
			log.SetFlags(log.Ltime | log.Lshortfile)
			log.SetOutput(os.Stderr)
		} else {
			log.SetFlags(0)
			log.SetOutput(io.Discard)
		}

		if configPath != "" {
			if err := cfg.LoadFile(configPath); err != nil {
				return err
			}
		} else if err := cfg.Load(); err != nil {
			return err
		}

		// Only the cache commands need a database
		switch cmd.Name() {
		case "check":
			if err := cfg.FindOrCreateDBPath(); err != nil {
				return fmt.Errorf("finding or creating database path: %w", err)
			}
		case "reset-cache":
			if err := cfg.FindExistingDBPath(); err != nil {
				return fmt.Errorf("no database found - please run 'check' first to create it")
			}
		default:
			return nil
		}

		if cfg.Verbose {
			log.Printf("Using database at: %s", cfg.DBPath)
		}

		var err error
		db, err = database.New(cfg.DBPath, cfg.Verbose)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .striplines.toml file (default: searched up from the working directory)")
}
