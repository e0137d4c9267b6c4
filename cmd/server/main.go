/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load env config (.env honored), apply flag overrides
  2. Open the SQLite store
  3. Wire the holiday cache, generator, workday and leave services
  4. Start the generation scheduler and the HTTP server
  5. On SIGINT/SIGTERM: stop the scheduler, drain connections, close DB

EXAMPLES:
  ./server -db=./data/rota.db
  ./server -db=:memory: -port=3000
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/rota-engine/api"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/config"
	"github.com/warp/rota-engine/leave"
	"github.com/warp/rota-engine/shift"
	"github.com/warp/rota-engine/store/sqlite"
	"github.com/warp/rota-engine/workday"
)

func main() {
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path (:memory: for ephemeral)")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer store.Close()

	holidays := calendar.NewHolidayCache(calendar.NewCalendarSource(), log)
	generator := shift.NewGenerator(store, store, holidays, log)
	generator.DefaultCountry = cfg.DefaultCountry
	workdays := workday.NewService(store, store)
	leaveSvc := leave.NewService(store, store, store, workdays, &leave.LogNotifier{Log: log}, log)

	handler := api.NewHandler(workdays, leaveSvc, generator, store, log)
	router := api.NewRouter(handler)

	scheduler := api.NewGenerationScheduler(generator, log)
	scheduler.CheckInterval = cfg.SchedulerInterval
	scheduler.Enabled = cfg.SchedulerEnabled
	scheduler.Start()

	server := &http.Server{
		Addr:    ":" + *port,
		Handler: router,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
