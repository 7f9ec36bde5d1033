// Command zplgrid-server runs the HTTP service surface: template
// compilation, the reusable template library, print drafts, scoped
// counters, the printer registry, and hosted label previews.
package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zplgrid/zplgrid/counterstore"
	"github.com/zplgrid/zplgrid/draftstore"
	"github.com/zplgrid/zplgrid/httpapi"
	"github.com/zplgrid/zplgrid/library"
	"github.com/zplgrid/zplgrid/preview"
	"github.com/zplgrid/zplgrid/printer"
)

func main() {
	addr := envOr("ZPLGRID_LISTEN_ADDR", ":8080")
	printersPath := envOr("ZPLGRID_PRINTERS_FILE", "printers.yml")
	countersPath := envOr("ZPLGRID_COUNTERS_FILE", "counters.json")

	printers, err := printer.LoadConfig(printersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load printer registry %s: %v\n", printersPath, err)
		os.Exit(1)
	}

	s := &httpapi.Server{
		Library:  library.NewFromEnv(),
		Drafts:   draftstore.NewFromEnv(),
		Counters: counterstore.New(countersPath),
		Printers: printers,
		Preview:  preview.NewClient(),
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	s.Register(e)

	fmt.Printf("zplgrid listening on %s (printers: %s, %d configured)\n", addr, printersPath, len(printers.Printers))
	e.Logger.Fatal(e.Start(addr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
