package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docchat/internal/config"
	"docchat/internal/infra/logging"
	"docchat/internal/infra/memory"
	"docchat/internal/infra/stub"
)

var stubPort int

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run the local development backend",
	Long: `Run an HTTP backend seeded with the same fixtures mock mode uses.
Point the client at it with:

  api:
    base_url: http://localhost:8780

Sign in with ` + memory.DevEmail + ` / ` + memory.DevPassword + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath, true)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		log := logging.New(cfg.Log)

		if stubPort > 0 {
			cfg.Stub.Port = stubPort
		}
		secret := cfg.Stub.JWTSecret
		if secret == "" {
			secret = "docchat-dev-secret"
			log.Warn().Msg("stub.jwt_secret not set, using the built-in dev secret")
		}

		fx := memory.NewFixtures(cfg.Stub.ReplyDelay)
		srv := stub.New(fx, secret, cfg.Stub.TokenTTL, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(cfg.Stub.Port)
		}()
		fmt.Printf("stub backend listening on :%d (dev account %s)\n", cfg.Stub.Port, memory.DevEmail)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	stubCmd.Flags().IntVar(&stubPort, "port", 0, "Listen port (overrides config)")
	rootCmd.AddCommand(stubCmd)
}
