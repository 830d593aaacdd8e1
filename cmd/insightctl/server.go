package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ammar-oker/RedisInsight/pkg/config"
	"github.com/ammar-oker/RedisInsight/pkg/crypto"
	"github.com/ammar-oker/RedisInsight/pkg/db"
	"github.com/ammar-oker/RedisInsight/pkg/instance"
	"github.com/ammar-oker/RedisInsight/pkg/server"
	"github.com/ammar-oker/RedisInsight/pkg/server/endpoints"
	gormstore "github.com/ammar-oker/RedisInsight/pkg/server/store/gorm"
	"github.com/ammar-oker/RedisInsight/pkg/streams"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the RedisInsight application server",
	Long: `Run the RedisInsight application server

To run the server requires the environment variables REDISINSIGHT_DATA_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		dataKeyB64, ok := os.LookupEnv("REDISINSIGHT_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "REDISINSIGHT_DATA_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Println("Bad REDISINSIGHT_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := crypto.NewSymmetric(dataKey)
		if err != nil {
			fmt.Println("Unable to initiate cipher:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Println("Invalid configuration:", err)
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{Cipher: cipher})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		databases := gormstore.NewDatabasesStore(gormDB)
		certificates := gormstore.NewCertificatesStore(gormDB)
		health := gormstore.NewHealthStore(gormDB)

		pool := instance.NewPool(databases, certificates, cfg.DialTimeout())
		defer pool.Close()

		instances := instance.NewService(databases, certificates, pool, cfg.DialTimeout())
		streamsService := streams.NewService(pool, cfg.MaxStreamEntriesPerPage)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cipher, gormDB, databases, certificates, health, pool, instances, streamsService, host, port)

		endpoints.RegisterAll(s)

		// `insightctl configuration apply` sends SIGHUP to reload the
		// config file without a restart.
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for range hup {
				if err := config.Reload(); err != nil {
					log.Printf("Configuration reload failed: %v", err)
					continue
				}
				log.Println("Configuration reloaded")
			}
		}()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
