// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"disinfo-scan/internal/config"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/web"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Long: `Serve starts an HTTP server with a browser UI and a JSON API for analysis,
pattern reference, case studies and per-session history export.

When the configuration came from a file, edits to that file are picked up
without a restart: scoring constants, the minimum length and the /analyze rate
limit are swapped in once the new file validates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			webCfg := c.cfg.Web
			if cmd.Flags().Changed("port") {
				if port < 1 || port > 65535 {
					return fmt.Errorf("--port must be between 1 and 65535, got %d", port)
				}
				webCfg.Port = port
			}

			// A long-running server reports its address and requests at info level
			if !c.debug && !c.cfg.Defaults.Debug {
				if err := logging.InitWithLevel(c.stderr, "info"); err != nil {
					return err
				}
			}

			ws, err := web.NewWebServer(webCfg, c.newService(c.cfg.Defaults.MinLength))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if c.configPath != "" {
				if loader := c.watchConfig(ctx, ws); loader != nil {
					defer loader.Close()
				}
			}

			return ws.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on; the next free port is used when taken")
	return cmd
}

// watchConfig reloads the configuration file into ws until ctx is done.
// Watch failures are logged and leave the server on its startup settings.
func (c *cli) watchConfig(ctx context.Context, ws *web.WebServer) *config.Loader {
	loader := config.NewLoader(c.configPath)
	if _, err := loader.Load(); err != nil {
		logging.Warn("config reload disabled", "error", err)
		loader.Close()
		return nil
	}

	loader.OnChange(func(cfg *config.Config) {
		if c.profile != "" {
			if _, err := cfg.ApplyProfile(c.profile); err != nil {
				logging.Warn("reloaded config dropped", "error", err)
				return
			}
		}
		if err := ws.ApplyConfig(cfg); err != nil {
			logging.Warn("reloaded config rejected", "error", err)
		}
	})

	if err := loader.Watch(); err != nil {
		logging.Warn("config reload disabled", "error", err)
		loader.Close()
		return nil
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-loader.Errors():
				logging.Warn("config reload failed", "error", err)
			}
		}
	}()

	logging.Info("watching configuration", "path", c.configPath)
	return loader
}
