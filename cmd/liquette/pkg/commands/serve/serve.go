package serve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/config"
	"github.com/raphaelreyna/liquette/internal/server"
	"github.com/raphaelreyna/liquette/pkg/core"
	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// New returns the command running the HTTP preview server until interrupted.
func New() *cobra.Command {
	var (
		addr        string
		storageRoot string
		workerCount int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve template previews over HTTP",
		Args:  cobra.NoArgs,
	}

	fs := cmd.Flags()
	fs.StringVarP(&addr, "addr", "a", server.DefaultAddr, "address to listen on")
	fs.StringVar(&storageRoot, "storage-root", "", "directory file:// template and target uris resolve in (default patterns-dir)")
	fs.IntVarP(&workerCount, "workers", "w", 0, "contexts rendered concurrently per job")

	cmd.RunE = func(cmd *cobra.Command, _ []string) (err error) {
		ctx := cmd.Context()

		engine, err := config.EngineFrom(ctx)
		if err != nil {
			return err
		}

		if storageRoot == "" {
			storageRoot, _ = cmd.Flags().GetString("patterns-dir")
		}
		strg := storage.Storage{}
		if err := strg.RegisterStorageProvider(&storage.Local{Root: storageRoot}, storage.LocalScheme); err != nil {
			return err
		}

		srv := server.NewServer(addr, *log.Logger(ctx))
		stop, err := core.Start(ctx, &core.Config{
			Engine:      engine,
			Ingresses:   []frontend.Ingress{srv},
			Storage:     &strg,
			WorkerCount: workerCount,
		})
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}

		<-ctx.Done()
		log.Info(ctx, "shutting down", nil)

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if e := stop(sctx); e != nil && !errors.Is(e, context.Canceled) {
			return fmt.Errorf("error stopping server: %w", e)
		}

		return nil
	}

	return cmd
}
