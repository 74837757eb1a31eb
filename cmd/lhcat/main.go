// Command lhcat reads lines from standard input and emits each one through
// a loghub logger, using the same configuration sources as any program
// built on the logger package.
//
//	tail -f app.out | lhcat --config loghub.properties --logger app --level warn
//	lhcat check --set lh.console.level=debug
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
