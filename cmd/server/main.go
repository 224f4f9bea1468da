// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/pongarena/matchengine/internal/cache"
	"github.com/pongarena/matchengine/internal/database"
	"github.com/pongarena/matchengine/internal/game"
	"github.com/pongarena/matchengine/internal/handlers"
	"github.com/pongarena/matchengine/internal/middleware"
	"github.com/pongarena/matchengine/internal/results"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	pool, err := database.Connect(logger)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()
	store := database.NewStore(pool)

	var bus results.Bus
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("Redis unavailable, tournament result events disabled: %v", err)
	} else {
		bus = cache.NewBus(cache.Rdb)
	}

	pub := results.New(store, bus, logger)

	registry := game.NewRegistry()
	mm := game.NewMatchmaker(registry, logger)
	mm.Send = handlers.NewSendFunc(logger)
	mm.OnFinish = pub.Publish

	logMW := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.HealthHandler)

	// game websockets, one endpoint per mode
	mux.Handle("/ws", handlers.WSHandler(logger, mm, game.Mode1v1))
	mux.Handle("/ws/2v2", handlers.WSHandler(logger, mm, game.Mode2v2))
	mux.Handle("/ws/3d", handlers.WSHandler(logger, mm, game.Mode3D))

	// tournament bracket API
	mux.Handle("/api/tournament/invite", logMW(handlers.InviteHandler(logger, mm)))
	mux.Handle("/api/tournament/invite/", logMW(handlers.InviteHandler(logger, mm)))
	mux.Handle("/api/tournament/", logMW(handlers.ListInvitesHandler(mm)))
	mux.Handle("/api/can-join/", logMW(handlers.CanJoinHandler(registry)))

	addr := ":7009"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Match engine running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
