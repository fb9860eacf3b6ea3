package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexretail/nexpos/config"
	"github.com/nexretail/nexpos/internal/adminapi"
	"github.com/nexretail/nexpos/internal/app"
	"github.com/nexretail/nexpos/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configFile = flag.String("c", "/etc/nexpos.yml", "config file path")
	initDb     = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	showVer    = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("nexpos", version)
		return
	}

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database schema recreated")
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Start()
	})
	g.Go(func() error {
		application.StartBackgroundJobs(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		webserver.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}
