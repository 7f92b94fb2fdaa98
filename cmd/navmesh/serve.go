package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/o0olele/navmesh-go/config"
	"github.com/o0olele/navmesh-go/logger"
	"github.com/o0olele/navmesh-go/server"
	"github.com/o0olele/navmesh-go/store"
)

func ServeCmd() *cobra.Command {
	var addr string
	var memory bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "serve builds and path queries over http and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.GetConfig()
			if addr == "" {
				addr = conf.Server.Addr
			}

			var s *store.Store
			if !memory && conf.Store.Url != "" {
				var err error
				if s, err = store.Open(conf.Store.Url); err != nil {
					return err
				}
				defer s.Close()
			}

			registry := server.NewRegistry(s, conf.Server.CacheSize, conf.PathPreferences())
			srv := server.New(registry, server.Options{
				Addr:           addr,
				AllowedOrigins: conf.Server.AllowedOrigins,
				Settings:       conf.BuildSettings(),
				MaxBodyBytes:   conf.Server.MaxBodyBytes,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := srv.ListenAndServe(ctx)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			if err != nil {
				logger.Error("server stopped: %v", err)
			}
			return err
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (config when empty)")
	c.Flags().BoolVar(&memory, "memory", false, "keep meshes in memory only")
	return c
}
