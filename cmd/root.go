package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/pluma/internal/bird"
	"github.com/user/pluma/internal/config"
	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/generate"
	"github.com/user/pluma/internal/logger"
	"github.com/user/pluma/internal/store"
	"github.com/user/pluma/internal/topics"
)

var rootCmd = &cobra.Command{
	Use:   "pluma",
	Short: "Content discovery and newsletter generation engine",
	Long: "Discover viral AI content, analyze it for a LATAM audience, " +
		"and generate publication-ready newsletter guides in Irina's voice.",
}

func Execute() {
	logger.Init()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the wired components every command needs.
type app struct {
	cfg  *config.Config
	st   *store.Store
	bird *bird.Client
	eng  *discovery.Engine
	bank *topics.Bank
	svc  *generate.Service
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st := store.NewStore(cfg.DataDir)
	gen := gateway.NewClient(cfg.Gateway)
	brd := bird.New(cfg.Bird)
	eng := discovery.NewEngine(st, brd, gen)
	bank := topics.NewBank(st, gen)
	svc := generate.NewService(cfg, gen, bank, eng)

	return &app{cfg: cfg, st: st, bird: brd, eng: eng, bank: bank, svc: svc}, nil
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.pluma)")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}
