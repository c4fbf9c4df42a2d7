/*
Rpalserve starts the RPAL HTTP service and begins listening for connections.

Usage:

	rpalserve [flags]

Once started, rpalserve listens for HTTP requests and serves the routes
documented in package server: POST /api/v1/token to exchange a shared API
key for a JWT, and POST /api/v1/run (bearer-token authenticated) to execute
RPAL source and get back its Print output.

The flags are:

	-v, --version
		Give the current version of the RPAL server and exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, falls back to the RPALSERVE_LISTEN_ADDRESS
		environment variable, then to the config file, then to ":8080".

	-c, --config FILE
		Path to an rpal TOML config file supplying the JWT signing secret,
		the bcrypt hash of the accepted API key, and the audit DB path.
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dewminawijekoon/rpal/internal/config"
	"github.com/dewminawijekoon/rpal/internal/version"
	"github.com/dewminawijekoon/rpal/server"
)

const (
	// EnvListen overrides the server's listen address when set.
	EnvListen = "RPALSERVE_LISTEN_ADDRESS"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the RPAL server and exit")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address")
	flagConfig  = pflag.StringP("config", "c", "", "Path to an rpal TOML config file")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("rpalserve %s (rpal %s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}

	listenAddr := cfg.Server.ListenAddr
	if envAddr := os.Getenv(EnvListen); envAddr != "" {
		listenAddr = envAddr
	}
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	if !strings.Contains(listenAddr, ":") {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	srv, err := server.New(cfg.Server)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()

	log.Printf("INFO  Starting rpalserve %s on %s...", version.ServerCurrent, listenAddr)
	if err := http.ListenAndServe(listenAddr, srv); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
