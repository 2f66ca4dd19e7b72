package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/config"
	"github.com/vgpastor/RocNest-sub001/internal/handler"
	"github.com/vgpastor/RocNest-sub001/internal/jobs"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
	"github.com/vgpastor/RocNest-sub001/internal/server"
	"github.com/vgpastor/RocNest-sub001/internal/service"
	"github.com/vgpastor/RocNest-sub001/migrations"
	"github.com/vgpastor/RocNest-sub001/pkg/auth"
	"github.com/vgpastor/RocNest-sub001/pkg/kafka"
	"github.com/vgpastor/RocNest-sub001/pkg/logger"
	"github.com/vgpastor/RocNest-sub001/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "rocnest")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	reservationRepo, err := repository.NewReservationRepository(db, log)
	if err != nil {
		log.Fatal("reservation repo", zap.Error(err))
	}
	orgRepo, err := repository.NewOrganizationRepository(db, log)
	if err != nil {
		log.Fatal("organization repo", zap.Error(err))
	}
	inventoryRepo, err := repository.NewInventoryRepository(db, log)
	if err != nil {
		log.Fatal("inventory repo", zap.Error(err))
	}
	reviewRepo, err := repository.NewReviewRepository(db, log)
	if err != nil {
		log.Fatal("review repo", zap.Error(err))
	}

	var producer sarama.SyncProducer
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
	}

	reservationSvc := service.NewReservationService(reservationRepo, producer, log)
	svcs := handler.Services{
		Reservation:  reservationSvc,
		Inventory:    service.NewInventoryService(inventoryRepo, log),
		Organization: service.NewOrganizationService(orgRepo, log),
		Review:       service.NewReviewService(reviewRepo, inventoryRepo, log),
		Auth:         service.NewAuthService(orgRepo, log),
	}

	session := auth.NewSession(cfg.Auth)
	h := handler.New(svcs, session, log)

	scheduler, err := jobs.NewScheduler(cfg.Jobs.OverdueSpec, reservationSvc, log)
	if err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}
	scheduler.Start()

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	scheduler.Stop()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
