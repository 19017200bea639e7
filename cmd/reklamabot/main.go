package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/AsilbekWeb09/Reklama-bot/bot"
	corebootstrap "github.com/AsilbekWeb09/Reklama-bot/core/bootstrap"
	corecmd "github.com/AsilbekWeb09/Reklama-bot/core/cmd"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.(*bot.Config)
			res, err := corebootstrap.Run(corebootstrap.Options{
				Config:   cfg.CoreConfig(),
				Database: cfg.Database,
			})
			if err != nil {
				return nil, err
			}
			return bot.NewApp(cfg, res.DB), nil
		},
	})
	if err != nil {
		log.Fatalf("reklamabot: %v", err)
	}
}
