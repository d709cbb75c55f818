package main

import (
	"github.com/writeflowhq/writeflow/config"
	"github.com/writeflowhq/writeflow/models"
	"github.com/writeflowhq/writeflow/routes"
	"github.com/writeflowhq/writeflow/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Essay{},
		&models.DailyStat{},
		&models.WritingStreak{},
		&models.WritingGoal{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
