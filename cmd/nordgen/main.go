package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nordwg/nordgen/pkg/gen"
	"github.com/nordwg/nordgen/pkg/logging"
	"github.com/nordwg/nordgen/pkg/nordapi"
	"github.com/nordwg/nordgen/pkg/prefs"
	"github.com/nordwg/nordgen/pkg/server"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "generate":
		if err := cmdGenerate(); err != nil {
			slog.Error("generate failed", "err", err)
			os.Exit(1)
		}
	case "locations":
		if err := cmdLocations(); err != nil {
			slog.Error("locations failed", "err", err)
			os.Exit(1)
		}
	case "version":
		fmt.Println("nordgen", version)
	default:
		fmt.Println("unknown command:", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("nordgen - NordVPN WireGuard config generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nordgen generate    # fetch servers and write config files")
	fmt.Println("  nordgen locations   # list server types, regions, countries and cities")
	fmt.Println("  nordgen version     # print version")
	fmt.Println()
	fmt.Println("Configuration is read from NORDGEN_* environment variables")
	fmt.Println("(or a .env file): TOKEN, DNS, KEEPALIVE, USE_IP_ENDPOINT,")
	fmt.Println("MAX_LOAD, TYPES, REGIONS, COUNTRIES, CITIES, OUTPUT_DIR.")
}

func cmdGenerate() error {
	p, rc, err := prefs.FromEnv()
	if err != nil {
		return err
	}
	logging.Setup(rc.LogLevel)

	if rc.Token == "" {
		return fmt.Errorf("NORDGEN_TOKEN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slog.Info("fetching credentials, servers and geolocation")
	snap, err := nordapi.New().FetchAll(ctx, rc.Token)
	if err != nil {
		return err
	}
	slog.Info("data fetched", "records", len(snap.Servers),
		"lat", snap.User.Latitude, "lon", snap.User.Longitude)

	if pub, err := prefs.PublicKey(snap.PrivateKey); err == nil {
		slog.Info("using client identity", "public_key", pub)
	}

	start := time.Now()
	res, err := gen.Generate(snap.Servers, snap.User, snap.PrivateKey, p, gen.Options{
		OutputDir:        rc.OutputDir,
		WriteConcurrency: rc.WriteConcurrency,
	})
	if err != nil {
		return err
	}

	slog.Info("run complete",
		"run_id", res.Stats.RunID,
		"output", res.OutputDir,
		"configs", res.Stats.TotalConfigs,
		"best", res.Stats.BestConfigs,
		"rejected", res.Stats.RejectedCount,
		"duplicates", res.Stats.Duplicates,
		"write_failures", res.Stats.WriteFailures,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func cmdLocations() error {
	p, rc, err := prefs.FromEnv()
	if err != nil {
		return err
	}
	logging.Setup(rc.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := nordapi.New().Servers(ctx)
	if err != nil {
		return err
	}

	filtered := server.FilterRecords(records, server.NewFilter(p))
	md := server.BuildMetadata(filtered)

	fmt.Println("Server types:")
	for _, t := range md.Types {
		fmt.Printf("  %-20s %6d\n", t.DisplayName, t.Count)
	}
	fmt.Println()
	fmt.Println("Regions:")
	for _, r := range md.Regions {
		fmt.Printf("  %s\n", r.DisplayName)
	}
	fmt.Println()
	fmt.Printf("Countries (%d):\n", len(md.Countries))
	for _, c := range md.Countries {
		fmt.Printf("  %s (%s)\n", c.Name, c.Code)
	}
	fmt.Println()
	fmt.Printf("Cities: %d\n", len(md.Cities))
	return nil
}
