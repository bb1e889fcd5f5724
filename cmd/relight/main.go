package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gradient-relighter/internal/config"

	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var (
	configFile string
	baseDir    string
)

var rootCmd = &cobra.Command{
	Use:           "relight",
	Short:         "Two-light gradient photometric stereo and relighting",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Ctrl+C stops dispatching frames; finished frames are kept
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (.json or .yaml)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base", "", "Base directory for relative paths")
}

// loadConfig reads --config when given. Subcommands apply their own flags
// before calling Resolve.
func loadConfig() (config.Config, error) {
	if configFile == "" {
		return config.Config{}, nil
	}
	return config.Load(configFile)
}

func printRule() {
	fmt.Println("------------------------------------------------------------")
}
