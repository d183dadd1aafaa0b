package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cli/browser"
	"github.com/urfave/cli/v3"

	"github.com/Apurer/go-gin-pet-catalog/internal/app/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "pet-catalog",
		Usage: "serve the pet adoption catalog page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file read before the environment", Value: ".env"},
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides PORT)"},
			&cli.StringFlag{Name: "catalog-url", Usage: "catalog API base URL (overrides CATALOG_BASE_URL)"},
			&cli.StringFlag{Name: "fixture", Usage: "serve the catalog from a YAML file (overrides CATALOG_FIXTURE)"},
			&cli.DurationFlag{Name: "render-delay", Usage: "minimum card loading time (overrides RENDER_DELAY_MS)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "json or text (overrides LOG_FORMAT)"},
			&cli.BoolFlag{Name: "open", Usage: "open the page in the default browser once serving"},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := web.LoadConfig(cmd.String("env-file"))
	if err != nil {
		return err
	}
	cfg = applyFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var opts []web.RunOption
	if cmd.Bool("open") {
		opts = append(opts, web.WithReady(func(url string) {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "open %s: %v\n", url, err)
			}
		}))
	}
	return web.Run(ctx, cfg, opts...)
}

func applyFlags(cfg web.Config, cmd *cli.Command) web.Config {
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}
	if cmd.IsSet("catalog-url") {
		cfg.CatalogBaseURL = cmd.String("catalog-url")
	}
	if cmd.IsSet("fixture") {
		cfg.CatalogFixture = cmd.String("fixture")
	}
	if cmd.IsSet("render-delay") {
		cfg.RenderDelay = cmd.Duration("render-delay")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}
	return cfg
}

