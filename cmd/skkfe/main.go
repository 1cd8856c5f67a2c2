package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gg582/skkfe/internal/app"
	"github.com/gg582/skkfe/internal/cli"
)

func main() {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skkfe: %v\n", err)
		fmt.Fprintln(os.Stderr, cli.Usage())
		os.Exit(2)
	}

	if opts.ShowHelp {
		fmt.Println(cli.Usage())
		return
	}

	rt := app.NewRuntime(opts)
	if opts.ListTables {
		names, err := rt.ListTables()
		if err != nil {
			fmt.Fprintf(os.Stderr, "skkfe: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "skkfe: %v\n", err)
		os.Exit(1)
	}
}
