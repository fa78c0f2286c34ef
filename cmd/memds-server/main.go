package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/server"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("memds-server", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "memds-server — in-memory key-value cache speaking RESP3\n\nUsage:\n  memds-server [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	port := fs.Int("port", 6380, "listen port (0 for an OS-assigned port)")
	dbPath := fs.String("db", "memds.rdb", "snapshot file path")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("memds-server %s\n", version)
		return
	}

	if err := run(*port, *dbPath); err != nil {
		log.Fatal(err)
	}
}

func run(port int, dbPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := datastore.Load(dbPath)
	if err != nil {
		log.Printf("memds-server: no usable snapshot at %s: %v (starting empty)", dbPath, err)
		ds = datastore.New(dbPath, nil)
	}

	srv := server.New(port, ds, log.Default())
	addr, terminator, err := srv.Serve()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Printf("memds-server %s listening on %s", version, addr)

	<-ctx.Done()
	log.Printf("memds-server: shutdown signal received")
	terminator.Stop()
	return nil
}
