package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/console"
	"github.com/mamadbah2/warehouse/internal/repository/inventoryfile"
	commandsvc "github.com/mamadbah2/warehouse/internal/service/commands"
	inventorysvc "github.com/mamadbah2/warehouse/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/warehouse/internal/service/reporting"
	"github.com/mamadbah2/warehouse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	fileRepo, err := inventoryfile.NewFileRepository(cfg.Inventory, logger.Named(baseLogger, "repo.file"))
	if err != nil {
		baseLogger.Fatal("failed to init inventory file repository", zap.Error(err))
	}

	store := inventorysvc.NewStore(fileRepo, logger.Named(baseLogger, "svc.inventory"))
	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))

	prompter := console.NewLinePrompter(os.Stdin, os.Stdout)
	commandDispatcher := commandsvc.NewService(store, reportingSvc, prompter, fileRepo.Path(), logger.Named(baseLogger, "svc.commands"))

	menu := console.New(commandDispatcher, prompter, cfg.Console.MenuTitle, logger.Named(baseLogger, "console"))

	baseLogger.Info("warehouse console starting", zap.String("inventory_file", fileRepo.Path()))
	if err := menu.Run(context.Background()); err != nil {
		baseLogger.Error("console stopped with error", zap.Error(err))
	}
	baseLogger.Info("warehouse console stopped")
}
