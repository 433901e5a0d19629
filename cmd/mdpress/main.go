// Command mdpress serves a markdown-backed publishing site with the stock
// views. Configuration comes from environment variables; see SiteConfig.
package main

import (
	"log"

	"github.com/eringen/mdpress"
	"github.com/eringen/mdpress/views"
)

func main() {
	cfg, err := mdpress.ConfigFromEnv()
	if err != nil {
		log.Fatalf("mdpress: load config: %v", err)
	}

	app := mdpress.New(cfg, views.Default())
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
