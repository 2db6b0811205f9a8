package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petroplus2966/petroplus-menu-board/config"
	"github.com/petroplus2966/petroplus-menu-board/internal/api"
	"github.com/petroplus2966/petroplus-menu-board/internal/board"
	"github.com/petroplus2966/petroplus-menu-board/internal/display"
	"github.com/petroplus2966/petroplus-menu-board/internal/headlines"
	"github.com/petroplus2966/petroplus-menu-board/internal/mqtt"
	"github.com/petroplus2966/petroplus-menu-board/internal/promo"
	"github.com/petroplus2966/petroplus-menu-board/internal/weather"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "menu-board",
		Short: "Storefront menu board service",
		Long:  "Drives a storefront display: clock, weather ticker, headlines and promo rotation",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(probeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the menu board service",
		Long:  "Start the pollers, the display API server, and the optional MQTT publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			state := display.NewState(cfg.Location.Label)
			brd := board.New(cfg, state)

			publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
				Broker:      cfg.MQTT.Broker,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				Enabled:     cfg.MQTT.Enabled,
			})
			if err != nil {
				log.Printf("Warning: MQTT connection failed: %v", err)
			} else if cfg.MQTT.Enabled {
				log.Printf("MQTT connected to %s", cfg.MQTT.Broker)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			brd.Start(ctx)

			if publisher != nil && publisher.IsConnected() {
				subID, updates := state.Subscribe()
				defer state.Unsubscribe(subID)
				go publisher.Follow(updates)
			}

			if cfg.API.Enabled {
				server := api.NewServer(api.ServerConfig{
					Port:   cfg.API.Port,
					State:  state,
					Board:  brd,
					Config: cfg,
				})

				go func() {
					log.Printf("Display API listening on port %d", cfg.API.Port)
					if err := server.Start(); err != nil {
						log.Printf("API server error: %v", err)
					}
				}()
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					_ = server.Stop(shutdownCtx)
				}()
			}

			log.Println("Menu board started. Press Ctrl+C to stop.")

			<-sigChan
			log.Println("Shutting down...")
			cancel()
			brd.Stop()
			if publisher != nil {
				publisher.Close()
			}

			return nil
		},
	}
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch weather and headlines once",
		Long:  "Fetch the current forecast and every configured headline feed once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			loc := cfg.TimezoneLocation()
			client := weather.NewClient(cfg.Location.Latitude, cfg.Location.Longitude, cfg.Location.Timezone, cfg.Weather.ForecastDays, loc)

			reading, err := client.Fetch(ctx)
			if err != nil {
				fmt.Println(weather.Placeholder)
				log.Printf("Weather fetch failed: %v", err)
			} else {
				output, _ := json.MarshalIndent(reading, "", "  ")
				fmt.Println(string(output))
				fmt.Println(reading.TickerLine())
			}

			feeds := make([]headlines.Feed, 0, len(cfg.Headlines.Feeds))
			for _, f := range cfg.Headlines.Feeds {
				feeds = append(feeds, headlines.Feed{Category: f.Category, URL: f.URL, Fallbacks: f.Fallbacks})
			}
			if len(feeds) > 0 {
				fetcher := headlines.NewFetcher(feeds, cfg.Headlines.MaxItems)
				for _, set := range fetcher.FetchAll(ctx) {
					fmt.Println(headlines.Line(set))
				}
			}

			return nil
		},
	}
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe promo image candidates",
		Long:  "Check every configured promo candidate for reachability and print the resulting playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			prober := promo.NewProber(cfg.Promo.BaseURL, cfg.Promo.ProbeRPS, cfg.Promo.ProbeBurst)
			scheduler := promo.NewScheduler(promo.SchedulerConfig{
				Prober:        prober,
				State:         display.NewState(cfg.Location.Label),
				Location:      cfg.TimezoneLocation(),
				Interval:      cfg.Promo.Interval,
				Candidates:    cfg.Promo.Candidates,
				DayCandidates: cfg.Promo.DayCandidates,
			})

			candidates := scheduler.CandidatesFor(time.Now())
			fmt.Printf("Probing %d candidates...\n", len(candidates))

			reachable := prober.Probe(ctx, candidates)
			if len(reachable) == 0 {
				fmt.Println("No reachable promo images")
				return nil
			}

			for i, c := range reachable {
				fmt.Printf("  %d. %s -> %s\n", i+1, c, prober.Resolve(c))
			}

			return nil
		},
	}
}
