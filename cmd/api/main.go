package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	"github.com/quiroferreira/clinic-scheduler/internal/config"
	dbpkg "github.com/quiroferreira/clinic-scheduler/internal/db"
	infraRepo "github.com/quiroferreira/clinic-scheduler/internal/infra/repository"
	"github.com/quiroferreira/clinic-scheduler/internal/middleware"
	"github.com/quiroferreira/clinic-scheduler/internal/redislock"
	"github.com/quiroferreira/clinic-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	clk := clock.NewService(clock.SystemClock{}, cfg.TimezoneOffsetMinutes)

	gate := accessgate.NewGate(infraRepo.NewAccessGormRepository(db), clk)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// daily subscription sweep, one leader per local day
	rdb := redislock.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	defer rdb.Close()

	sweeper := accessgate.NewSweeper(gate, clk, redislock.NewRedisDayClaimer(rdb), cfg.SweepLocalTime)
	go sweeper.Run(rootCtx)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, clk, gate)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
