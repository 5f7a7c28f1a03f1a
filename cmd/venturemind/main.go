package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/venturemind/internal/profile"
	"github.com/hrygo/venturemind/internal/version"
	"github.com/hrygo/venturemind/server"
	"github.com/hrygo/venturemind/server/memory"
	"github.com/hrygo/venturemind/store"
	"github.com/hrygo/venturemind/store/db"
)

const (
	greetingBanner = `venturemind - learn from every venture, decide with evidence.`
)

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "venturemind",
		Short: "A memory engine for autonomous business experiments",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			storeInstance, err := newStore(ctx)
			if err != nil {
				cancel()
				slog.Error("failed to create store", "error", err)
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				return
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-c
				slog.Info("received signal, shutting down", "signal", sig.String())
				s.Shutdown(ctx)
				cancel()
			}()

			printGreetings()

			if err := s.Start(ctx); err != nil {
				if ctx.Err() == nil {
					slog.Error("failed to start server", "error", err)
					cancel()
				}
			}

			<-ctx.Done()
		},
	}

	insightsCmd = &cobra.Command{
		Use:   "insights",
		Short: "Print a performance snapshot of the experience journal and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			storeInstance, err := newStore(ctx)
			if err != nil {
				return err
			}
			defer storeInstance.Close()

			engine := memory.NewEngine(storeInstance)
			snapshot, err := engine.Insights(ctx)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(snapshot)
		},
	}
)

func newStore(ctx context.Context) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, err
	}
	return storeInstance, nil
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("venturemind")
	viper.AutomaticEnv()

	rootCmd.AddCommand(insightsCmd)

	cobra.OnInitialize(initProfile)
}

func initProfile() {
	instanceProfile = &profile.Profile{
		Mode:   viper.GetString("mode"),
		Addr:   viper.GetString("addr"),
		Port:   viper.GetInt("port"),
		Data:   viper.GetString("data"),
		Driver: viper.GetString("driver"),
		DSN:    viper.GetString("dsn"),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		fmt.Printf("failed to validate profile: %+v\n", err)
		os.Exit(1)
	}
	instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)
}

func printGreetings() {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s has been started on port %d\n", instanceProfile.Version, instanceProfile.Port)
	fmt.Printf("mode %s, driver %s\n", instanceProfile.Mode, instanceProfile.Driver)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
