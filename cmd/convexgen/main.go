// Command convexgen compiles Convex validator schemas: it checks them, emits
// typed Go for them, projects them to JSON Schema and decodes documents
// against them.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	root := newRoot(log)
	root.SetOut(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("convexgen failed")
		stop()
		os.Exit(1)
	}
}
