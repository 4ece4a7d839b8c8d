package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "Mon Jan 2 15:04:05"}
	log.Logger = zerolog.New(output).With().Caller().Timestamp().Logger()
}

func main() {
	port := pflag.String("port", ":8080", "port to bind the preview server to")
	dir := pflag.String("dir", "", "output directory produced by ytthumb (contains manifest.json, frames/, candidates/)")
	pflag.Parse()

	if *dir == "" {
		log.Fatal().Msg("--dir is required")
	}
	if _, err := os.Stat(*dir); err != nil {
		log.Fatal().Err(err).Msgf("output directory %q is not accessible", *dir)
	}

	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.
		PathPrefix("/").
		Handler(http.FileServer(http.Dir(*dir)))

	log.Info().Msgf("Serving %s on %s", *dir, *port)
	if err := http.ListenAndServe(*port, router); err != nil {
		log.Fatal().Err(err).Msg("preview server failed")
	}
}
