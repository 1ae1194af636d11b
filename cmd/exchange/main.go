package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/infrastructure/analytics"
	"exchange_sdk/internal/infrastructure/configloader"
	"exchange_sdk/internal/infrastructure/hostwallet"
	"exchange_sdk/internal/infrastructure/restapi"
	"exchange_sdk/internal/pkg/logger"
	"exchange_sdk/internal/pkg/metrics"
	"exchange_sdk/internal/pkg/utils"
	"exchange_sdk/pkg/exchangesdk"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	app := &cli.App{
		Name:  "exchange",
		Usage: "run swap, sell, fund and token approval flows against a host wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration",
				EnvVars: []string{configloader.EnvConfigPath},
			},
			&cli.StringFlag{
				Name:  "host-rpc",
				Usage: "host wallet JSON-RPC URL, overrides hostWallet.rpcURL",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			swapCommand(),
			sellCommand(),
			fundCommand(),
			approveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "exchange: %v\n", err)
		os.Exit(1)
	}
}

// session holds the configuration, the root logger and a ready SDK.
type session struct {
	cfg    *configloader.Config
	zap    *zap.Logger
	sdk    *exchangesdk.SDK
	closer func()
}

func bootstrap(c *cli.Context) (*session, error) {
	cfg, err := configloader.Load(configloader.ResolvePath(c.String("config")))
	if err != nil {
		return nil, err
	}
	if rpc := c.String("host-rpc"); rpc != "" {
		cfg.HostWallet.RPCURL = rpc
	}
	if cfg.HostWallet.RPCURL == "" {
		return nil, errors.New("host wallet RPC URL is not configured")
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	hostTimeout := time.Duration(cfg.HostWallet.RequestTimeoutMillis) * time.Millisecond
	host := hostwallet.NewRPCClient(cfg.HostWallet.RPCURL, hostTimeout, metrics.Default(), zapLogger)

	opts := []exchangesdk.Option{exchangesdk.WithLogger(zapLogger)}
	if cfg.Tracking.EventsURL != "" {
		opts = append(opts, exchangesdk.WithEventSinks(
			analytics.NewLogSink(zapLogger),
			analytics.NewHTTPSink(cfg.Tracking.EventsURL, 10*time.Second, zapLogger),
		))
	}
	if cfg.Tracking.FlagsURL != "" {
		opts = append(opts, exchangesdk.WithFeatureFlags(analytics.NewRemoteFlags(cfg.Tracking.FlagsURL, 10*time.Second, zapLogger)))
	}

	sdk, err := exchangesdk.New(exchangesdk.FromFile(cfg), host, opts...)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg: cfg,
		zap: zapLogger,
		sdk: sdk,
		closer: func() {
			_ = sdk.Close()
		},
	}, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve exchange deep links over HTTP",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.closer()

			gin.SetMode(gin.ReleaseMode)
			dedup := time.Duration(rt.cfg.Server.DedupTTLMinutes) * time.Minute
			handler := restapi.NewExchangeHandler(rt.sdk, rt.cfg.Provider, dedup, rt.zap)
			router := restapi.SetupRouter(handler, prometheus.DefaultGatherer, rt.zap)

			srv := &http.Server{
				Addr:         rt.cfg.Server.Port,
				Handler:      router,
				ReadTimeout:  time.Duration(rt.cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(rt.cfg.Server.WriteTimeout) * time.Second,
			}

			go func() {
				logger.Info("Starting HTTP server", "address", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start HTTP server", "error", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			logger.Info("Shutting down HTTP server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", "error", err)
				return err
			}
			logger.Info("Server exiting")
			return nil
		},
	}
}

func amountFlag() cli.Flag {
	return &cli.StringFlag{Name: "amount", Usage: "amount in human units", Required: true}
}

func feeFlag() cli.Flag {
	return &cli.StringFlag{Name: "fee-strategy", Value: string(entity.FeeStrategyMedium)}
}

func swapCommand() *cli.Command {
	return &cli.Command{
		Name:  "swap",
		Usage: "swap between two host accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quote-id"},
			&cli.StringFlag{Name: "from", Usage: "source account id", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination account id", Required: true},
			amountFlag(),
			feeFlag(),
			&cli.Float64Flag{Name: "rate"},
			&cli.StringFlag{Name: "to-new-token-id"},
		},
		Action: func(c *cli.Context) error {
			amount, err := utils.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}
			req := exchangesdk.SwapRequest{
				QuoteID:       c.String("quote-id"),
				FromAccountID: c.String("from"),
				ToAccountID:   c.String("to"),
				FromAmount:    amount,
				FeeStrategy:   entity.FeeStrategy(c.String("fee-strategy")),
				ToNewTokenID:  c.String("to-new-token-id"),
			}
			if c.IsSet("rate") {
				rate := c.Float64("rate")
				req.Rate = &rate
			}
			return run(c, func(ctx context.Context, sdk *exchangesdk.SDK) (any, error) {
				return sdk.Swap(ctx, req)
			})
		},
	}
}

func sellCommand() *cli.Command {
	return &cli.Command{
		Name:  "sell",
		Usage: "sell crypto for fiat",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quote-id"},
			&cli.StringFlag{Name: "account", Required: true},
			amountFlag(),
			feeFlag(),
			&cli.StringFlag{Name: "to-fiat"},
			&cli.StringFlag{Name: "type", Usage: "CARD or SELL"},
		},
		Action: func(c *cli.Context) error {
			amount, err := utils.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}
			req := exchangesdk.SellRequest{
				QuoteID:     c.String("quote-id"),
				AccountID:   c.String("account"),
				FromAmount:  amount,
				ToFiat:      c.String("to-fiat"),
				FeeStrategy: entity.FeeStrategy(c.String("fee-strategy")),
				Type:        entity.ProductType(c.String("type")),
			}
			return run(c, func(ctx context.Context, sdk *exchangesdk.SDK) (any, error) {
				return sdk.Sell(ctx, req)
			})
		},
	}
}

func fundCommand() *cli.Command {
	return &cli.Command{
		Name:  "fund",
		Usage: "fund a card order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order-id", Required: true},
			&cli.StringFlag{Name: "account", Required: true},
			amountFlag(),
			feeFlag(),
		},
		Action: func(c *cli.Context) error {
			amount, err := utils.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}
			req := exchangesdk.FundRequest{
				OrderID:     c.String("order-id"),
				AccountID:   c.String("account"),
				FromAmount:  amount,
				FeeStrategy: entity.FeeStrategy(c.String("fee-strategy")),
			}
			return run(c, func(ctx context.Context, sdk *exchangesdk.SDK) (any, error) {
				return sdk.Fund(ctx, req)
			})
		},
	}
}

func approveCommand() *cli.Command {
	return &cli.Command{
		Name:  "approve",
		Usage: "approve an ERC-20 allowance for a spender contract",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order-id"},
			&cli.StringFlag{Name: "account", Required: true},
			&cli.StringFlag{Name: "spender", Required: true},
			amountFlag(),
		},
		Action: func(c *cli.Context) error {
			amount, err := utils.ParseAmount(c.String("amount"))
			if err != nil {
				return err
			}
			req := exchangesdk.TokenApprovalRequest{
				OrderID:              c.String("order-id"),
				UserAccountID:        c.String("account"),
				SmartContractAddress: c.String("spender"),
				Amount:               amount,
			}
			return run(c, func(ctx context.Context, sdk *exchangesdk.SDK) (any, error) {
				return sdk.TokenApproval(ctx, req)
			})
		},
	}
}

// run executes one flow and prints its result as JSON.
func run(c *cli.Context, fn func(ctx context.Context, sdk *exchangesdk.SDK) (any, error)) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer rt.closer()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := fn(ctx, rt.sdk)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
