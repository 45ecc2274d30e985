package main

import (
	"context"
	"log"
	"os"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/mysql"
	"Atelier_Room/internal/repository/redis"
	"Atelier_Room/internal/router"
	"Atelier_Room/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// .env 只在本地开发存在，缺了不算错
	_ = godotenv.Load()
	cfg := pkg.LoadConfig()
	pkg.SetJWTSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql init: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.RoomMember{},
		&model.RoomLike{},
		&model.JoinRequest{},
		&model.Post{},
		&model.Report{},
		&model.EventOutbox{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	rdb, err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}

	store, err := pkg.NewObjectStore(cfg.OSS)
	if err != nil {
		log.Fatalf("object store init: %v", err)
	}

	sender := service.Sender(service.LogSender)
	if os.Getenv("KAFKA_ENABLED") == "true" {
		producer, err := pkg.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(db, sender).Run(ctx)

	r := router.Setup(router.Deps{
		DB:    db,
		RDB:   rdb,
		Cfg:   cfg,
		Store: store,
	})
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
