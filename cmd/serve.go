package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-reader/pkg/feed"
	"github.com/gregLibert/emv-reader/pkg/reader"
)

// cooldown keeps a card left on the reader from flooding the feed.
const cooldown = 2 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Read cards continuously and stream them over a websocket",
	Long: `Serve reads every card presented and publishes the results on
/ws (websocket) and /api/v1/last (JSON). With --mdns the feed is
advertised on the local network.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		r, err := newReader(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := feed.NewHub(feed.WithLogger(log))
		defer hub.Close()

		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
		}
		srv := &http.Server{Handler: feed.Handler(hub), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("feed server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("shutting down feed server")
			}
		}()

		port := ln.Addr().(*net.TCPAddr).Port
		log.Info().Str("addr", ln.Addr().String()).Msg("feed listening")

		if cfg.MDNS {
			host, _ := os.Hostname()
			withdraw, err := feed.Advertise("emv-reader on "+host, port)
			if err != nil {
				log.Warn().Err(err).Msg("mDNS advertisement disabled")
			} else {
				defer withdraw()
				log.Info().Int("port", port).Msg("mDNS service registered")
			}
		}

		serveLoop(ctx, r, hub, cfg.TimeoutDuration(), log)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&overrides.Listen, "listen", "", "feed address, e.g. :8765")
	serveCmd.Flags().BoolVar(&overrides.MDNS, "mdns", false, "advertise the feed over mDNS")
}

// serveLoop reads cards until ctx is done. Waits that end without a card
// are not published.
func serveLoop(ctx context.Context, r *reader.Reader, hub *feed.Hub, wait time.Duration, log zerolog.Logger) {
	for ctx.Err() == nil {
		readCtx, cancel := context.WithTimeout(ctx, wait)
		summary, err := r.Read(readCtx)
		cancel()

		switch {
		case errors.Is(err, reader.ErrNoCard):
			continue
		case err != nil:
			ev := hub.Publish(feed.ErrorEvent(err))
			log.Warn().Err(err).Str("event", ev.ID).Msg("read failed")
		default:
			ev := hub.Publish(feed.CardEvent(summary))
			log.Info().Str("event", ev.ID).Str("sw", summary.StatusWord).Msg("card read")
		}

		select {
		case <-ctx.Done():
		case <-time.After(cooldown):
		}
	}
}
