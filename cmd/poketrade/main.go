// Command poketrade wires the trade mediator's collaborators together:
// configuration, static data tables, the cartridge link adapter, the
// relay client, and the per-generation Mediator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gblink/tradecore/internal/config"
	"github.com/gblink/tradecore/internal/data"
	"github.com/gblink/tradecore/internal/negotiate"
	"github.com/gblink/tradecore/internal/relay"
	"github.com/gblink/tradecore/internal/trade"
	"github.com/gblink/tradecore/pkg/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("POKETRADE_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	logger := log.New()

	gen, err := generationFromString(cfg.Generation)
	if err != nil {
		logger.Errorf("poketrade: %v", err)
		os.Exit(1)
	}

	tables, err := data.Load(cfg.DataRoot, gen)
	if err != nil {
		logger.Errorf("poketrade: loading static data: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, err := openAdapter(cfg.SerialPort)
	if err != nil {
		logger.Errorf("poketrade: opening link adapter: %v", err)
		os.Exit(1)
	}
	defer adapter.Close()

	conn, err := dialRelay(ctx, cfg.RelayAddress, cfg.RoomName)
	if err != nil {
		logger.Errorf("poketrade: dialing relay: %v", err)
		os.Exit(1)
	}
	peer := relay.Dial(conn, logger)
	defer peer.Close()

	mediator := trade.NewMediator(adapter, peer, tables, int(gen)+1, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mode := negotiate.ModeSynchronous
		if gen != data.Gen3 {
			mode = mediator.RunModeNegotiation(gctx, negotiate.ModeSynchronous, nil)
			logger.Infof("poketrade: negotiated mode %v", mode)
		}
		if err := mediator.RunStartingSequence(gctx); err != nil {
			return err
		}
		if gen == data.Gen3 {
			_, record, err := mediator.RunMenuCycleGen3(gctx)
			if err != nil {
				return err
			}
			if record != nil {
				logger.Infof("poketrade: received gen3 record pid=%#x nature=%d", record.PID, record.Nature())
			}
			return nil
		}
		h, err := mediator.RunTradeCycle(gctx, mode, tables)
		if err != nil {
			return err
		}
		if h != nil {
			logger.Infof("poketrade: trade cycle complete, party count=%d", h.Count)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("poketrade: %v", err)
		os.Exit(1)
	}
}

func generationFromString(s string) (data.Generation, error) {
	switch s {
	case "gen1":
		return data.Gen1, nil
	case "gen2":
		return data.Gen2, nil
	case "gen3":
		return data.Gen3, nil
	default:
		return 0, fmt.Errorf("unknown generation %q", s)
	}
}
