// pktdump decodes a capture of framed packets from a file or stdin and logs
// one line per packet, until the goodbye marker or a decode error.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	packetstream "packetstream-go"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pktdump: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 1 {
		return errors.New("usage: pktdump [config.toml]")
	}

	cfg := defaultConfig()
	if len(args) == 1 {
		var err error
		cfg, err = loadConfig(args[0])
		if err != nil {
			return err
		}
	}

	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var in io.Reader = os.Stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return dump(context.Background(), cfg, bufio.NewReader(in))
}

func dump(ctx context.Context, cfg config, in io.Reader) error {
	ps := packetstream.New(in,
		packetstream.WithMaxBodyLen(cfg.MaxBodyLen),
		packetstream.WithLogger(log.Logger),
	)

	count := 0
	for {
		pkt, err := ps.Next(ctx)
		if errors.Is(err, packetstream.ErrFinished) {
			log.Info().Int("packets", count).Msg("stream finished")
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode packet %d: %w", count+1, err)
		}
		count++

		ev := log.Info().
			Int32("id", pkt.ID).
			Bool("stream", pkt.Stream).
			Bool("end", pkt.End).
			Stringer("type", pkt.Type).
			Int("len", len(pkt.Body))
		if n := min(cfg.BodyPreview, len(pkt.Body)); n > 0 {
			ev = ev.Str("body", hex.EncodeToString(pkt.Body[:n]))
		}
		ev.Msg("packet")
	}
}
