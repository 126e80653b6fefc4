// Package main starts the intakedesk shell.
//
// The process owns one signed-in session: it restores the stored token on
// start, keeps it refreshed and serves the routed views on a local address.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	shellcmd "github.com/louisbranch/intakedesk/internal/cmd/shell"
	"github.com/louisbranch/intakedesk/internal/platform/config"
)

func main() {
	cfg, err := shellcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[INTAKEDESK] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := shellcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
