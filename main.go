package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codetesla51/rawframe/server"
)

func main() {
	config := server.DefaultConfig()
	config.EnableLogging = true

	addr := flag.String("addr", ":8080", "address to listen on")
	policy := flag.String("policy", config.Termination.String(), "when to close a connection: protocol or drained")
	flag.IntVar(&config.BufferSize, "buffer", config.BufferSize, "frame buffer capacity in bytes")
	flag.IntVar(&config.MaxBodySize, "max-body", config.MaxBodySize, "largest accepted Content-Length, 0 uses the default")
	flag.BoolVar(&config.EnableLogging, "log", config.EnableLogging, "log requests and dropped connections")
	flag.Parse()

	termination, err := parsePolicy(*policy)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	config.Termination = termination

	srv := server.NewServerWithConfig(config, reportHandler)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		fmt.Println("Shutting down")
		srv.Close()
	}()

	fmt.Println("Server listening at", *addr)
	if err := srv.ListenAndServe(*addr); err != nil && !errors.Is(err, server.ErrServerClosed) {
		fmt.Println("error listening to server ", err)
		os.Exit(1)
	}
}

func parsePolicy(name string) (server.TerminationPolicy, error) {
	switch name {
	case server.ClosePerProtocol.String():
		return server.ClosePerProtocol, nil
	case server.CloseWhenDrained.String():
		return server.CloseWhenDrained, nil
	default:
		return 0, fmt.Errorf("unknown termination policy %q", name)
	}
}
