package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/ekinok/lingoroom/internal/adapters/http"
	wssignal "github.com/ekinok/lingoroom/internal/adapters/signal"
	"github.com/ekinok/lingoroom/internal/app"
	"github.com/ekinok/lingoroom/internal/config"
	"github.com/ekinok/lingoroom/internal/gateway/translate"
	"github.com/ekinok/lingoroom/internal/gateway/tts"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var translator translate.Translator
	if cfg.GoogleAPIKey != "" {
		translator = translate.NewGoogle(cfg.GoogleAPIKey, translate.WithTimeout(cfg.GatewayTimeout))
	} else {
		// Without credentials the demo phrase table keeps rooms usable.
		log.Warn().Msg("GOOGLE_API_KEY not set, using static demo translator")
		translator = translate.NewStatic()
	}
	synth := tts.NewElevenLabs(cfg.ElevenLabsAPIKey)
	if cfg.ElevenLabsAPIKey == "" {
		log.Warn().Msg("ELEVENLABS_API_KEY not set, synthesis requests will fail fast")
	}

	rooms := app.NewRoomRegistry()
	sessions := app.NewSessionManager(rooms)
	relay := app.NewRelayEngine(sessions, rooms, translator, synth, app.TTSMode(cfg.TTSMode))

	ctl := wssignal.NewController(sessions, relay, cfg.ReadLimit, cfg.PingPeriod)
	api := &router.API{Translator: translator, Synth: synth}

	r := router.SetupRouter(ctx, cfg, ctl, api)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("tts_mode", cfg.TTSMode).Msg("lingoroom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
