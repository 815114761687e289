package main

import (
	"context"
	"flag"
	"log"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/budget"
	"main/internal/ops"
	"main/internal/oracle"
	"main/internal/recorder"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "testdata/config.json", "Path to JSON config")
	live := flag.Bool("live", false, "Feed oracle prices from the Binance book ticker stream")
	allOrNone := flag.Bool("all-or-none", false, "Zero any candidate that cannot be fully funded")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "budgetd",
			ServerAddress:   *pyroscopeAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx := context.Background()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	table := oracle.NewStatic(loaded.Prices)
	if *live {
		if err := startFeed(ctx, table, loaded.Pairs); err != nil {
			log.Fatalf("price feed failed: %v", err)
		}
	}

	venue, err := loaded.Fees.Venue(loaded.Venue)
	if err != nil {
		log.Fatalf("fee schedule missing: %v", err)
	}

	provider := budget.Provider{
		FeeModel:                venue,
		PriceOracle:             table,
		CollateralTokenResolver: venue,
	}

	checker := budget.NewChecker(provider, loaded.Balances)
	if loaded.Audit.Enabled {
		audit, err := openAudit(loaded)
		if err != nil {
			log.Fatalf("audit open failed: %v", err)
		}
		checker.WithAudit(audit)
	}

	adjusted, err := checker.AdjustCandidates(loaded.Orders, *allOrNone)
	if err != nil {
		log.Fatalf("adjust candidates failed: %v", err)
	}

	for i, o := range adjusted {
		intent := o.Intent()
		switch {
		case o.IsZero():
			logs.Warnf("candidate %d %s %s %s: zeroed (requested %s)",
				i, intent.Pair, intent.Side, intent.Variant, intent.Amount)
		case o.Resized:
			logs.Infof("candidate %d %s %s %s: resized %s -> %s",
				i, intent.Pair, intent.Side, intent.Variant, intent.Amount, o.Amount)
		default:
			logs.Infof("candidate %d %s %s %s: fully funded at %s",
				i, intent.Pair, intent.Side, intent.Variant, o.Amount)
		}
	}
}

func startFeed(ctx context.Context, table *oracle.Static, pairs []string) error {
	feed := oracle.NewBinanceFeed(ctx, nil, table)
	if err := feed.StartWebsocket(ctx); err != nil {
		return err
	}

	for _, pair := range pairs {
		if err := feed.SubscribeBookTicker(ctx, pair); err != nil {
			return err
		}
	}

	if err := feed.Snapshot(ctx); err != nil {
		return err
	}

	feed.Observe(ctx)
	return nil
}

func openAudit(loaded ops.Loaded) (*recorder.Audit, error) {
	client, err := conn.New(conn.Option{
		Host:     loaded.Audit.Host,
		Port:     loaded.Audit.Port,
		User:     loaded.Audit.User,
		Password: loaded.Audit.Password,
		Database: loaded.Audit.Database,
		SSLMode:  loaded.Audit.SSLMode,
	})
	if err != nil {
		return nil, err
	}

	return recorder.NewAudit(client, loaded.Venue.String())
}
