package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/userdeck/userdeck/internal/server"
	"github.com/userdeck/userdeck/internal/service"
	"github.com/userdeck/userdeck/internal/store"
)

const banner = `
 _   _ ___ ___ ___ ___  ___  ___  ___
| | | / __| __| _ \   \| __|/ __|| |/ /
| |_| \__ \ _||   / |) | _|| (__ |   <
 \___/|___/___|_|_\___/|___|\___||_|\_\
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the userdeck API server",
		Long:  "Start the HTTP server that exposes the login and user management API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	// Set up logger
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// 1. Open the user store (SQLite)
	st, err := store.New(resolveDataDir())
	if err != nil {
		return fmt.Errorf("init user store: %w", err)
	}
	defer st.Close()
	logger.Info("user store initialized", "path", resolveDataDir())

	// 2. Initialize auth service. The signing key is fixed for the process
	// lifetime; if none is configured, generate one and warn, since issued
	// tokens won't survive a restart.
	jwtSecret := viper.GetString("auth.jwt_secret")
	if jwtSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate signing key: %w", err)
		}
		jwtSecret = hex.EncodeToString(buf)
		logger.Warn("auth.jwt_secret not configured; generated an ephemeral signing key for this process")
	}

	tokenTTL := service.DefaultTokenTTL
	if ttlStr := viper.GetString("auth.token_ttl"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return fmt.Errorf("parse auth.token_ttl: %w", err)
		}
		tokenTTL = ttl
	}
	authSvc := service.NewAuthService(st, jwtSecret, tokenTTL)

	// 3. Bootstrap the admin account before accepting requests so the first
	// login can observe it.
	viper.SetDefault("auth.bootstrap_admin", true)
	if viper.GetBool("auth.bootstrap_admin") {
		if err := service.BootstrapAdmin(context.Background(), st, logger); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// 4. Build and start HTTP server
	srvCfg := server.DefaultConfig()
	srvCfg.Host = host
	srvCfg.Port = port
	if origins := viper.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		srvCfg.CORSOrigins = origins
	}

	srv := server.New(srvCfg, st, authSvc, logger)

	users, _ := st.Count(context.Background())
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ Health:  http://%s:%d/healthz\n", host, port)
	fmt.Printf("→ Users:   %d\n", users)
	fmt.Println()

	return srv.ListenAndServe()
}
