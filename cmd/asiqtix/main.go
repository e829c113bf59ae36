package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Zaki4gg/asiq-tix/internal/auth"
	"github.com/Zaki4gg/asiq-tix/internal/blockchain"
	"github.com/Zaki4gg/asiq-tix/internal/config"
	"github.com/Zaki4gg/asiq-tix/internal/events"
	"github.com/Zaki4gg/asiq-tix/internal/http_api"
	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/internal/notify"
	"github.com/Zaki4gg/asiq-tix/internal/pricing"
	"github.com/Zaki4gg/asiq-tix/internal/repository"
	"github.com/Zaki4gg/asiq-tix/internal/tix"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "asiqtix",
		Usage: "Asiq Tix is an event ticketing service with wallet login",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "API listen port"},
			&cli.StringFlag{Name: "rpc-url", Aliases: []string{"r"}, Usage: "Blockchain RPC URL"},
			&cli.StringFlag{Name: "contract-address", Aliases: []string{"s"}, Usage: "Tickets contract address"},
			&cli.StringFlag{Name: "redis-url", Aliases: []string{"R"}, Usage: "Redis URL for nonces and the event bus"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		stdlog.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("rpc-url") {
		cfg.RPCURL = c.String("rpc-url")
	}
	if c.IsSet("contract-address") {
		cfg.ContractAddress = c.String("contract-address")
	}
	if c.IsSet("redis-url") {
		cfg.RedisURL = c.String("redis-url")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize blockchain client; without one every wallet resolves to
	// customer (promoter checks fail closed).
	var chain models.ChainClient
	if cfg.RPCURL != "" && cfg.ContractAddress != "" {
		ethereum := blockchain.NewEthereum(cfg.RPCURL, cfg.ContractAddress, cfg.ChainCallTimeout, log)
		if err := ethereum.Run(); err != nil {
			return fmt.Errorf("failed to connect to blockchain: %v", err)
		}
		defer ethereum.Close()
		chain = ethereum
	} else {
		log.Warn("RPC_URL or CONTRACT_ADDRESS not set, promoter role checks are disabled")
	}

	// Initialize nonce store and event bus; a single Redis serves both
	var nonces auth.NonceStore
	var publisher models.TxPublisher
	if cfg.RedisURL != "" {
		redisNonces, err := auth.NewRedisNonceStore(context.Background(), cfg.RedisURL, cfg.NonceTTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %v", err)
		}
		defer redisNonces.Close()
		nonces = redisNonces

		streamPublisher, err := events.NewRedisStreamPublisher(redisNonces.Client())
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %v", err)
		}
		defer streamPublisher.Close()
		publisher = streamPublisher
	} else {
		log.Warn("REDIS_URL not set, using in-process nonce store without an event bus")
		nonces = auth.NewMemoryNonceStore(cfg.NonceTTL)
	}

	// Initialize the ops notifier
	var notifier models.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err := notify.NewTelegramNotifier(log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to create telegram notifier: %v", err)
		}
		notifier = telegram
	}

	// Create the application core
	tixApp := tix.NewTix(db, chain, publisher, notifier, log)

	// Login handshake and price quoting
	handshake := auth.NewHandshake(nonces, auth.NewSessionIssuer(cfg.SessionSecret, cfg.SessionTTL), log)
	quotes := pricing.NewService(pricing.DefaultQuoteURL, pricing.DefaultCacheTTL, log)

	// Initialize API server
	apiServer := http_api.NewHTTPServer(tixApp, handshake, quotes, cfg.APIPort, log)
	go apiServer.Start()

	// Block until shutdown is requested
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := apiServer.Shutdown(); err != nil {
		log.Error("Forced shutdown: ", err)
	}
	// Give in-flight notifications a moment to flush
	time.Sleep(100 * time.Millisecond)

	return nil
}
