package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"

	"github.com/vgpastor/RocNest-sub001/app"
	"github.com/vgpastor/RocNest-sub001/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
