package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	httpapi "mediaproxy/internal/http/httpapi"
	"mediaproxy/internal/infra"
	"mediaproxy/internal/serverless"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	router, err := httpapi.NewHandlerFromConfig(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("lambda: failed to build router")
	}

	lambda.Start(serverless.NewAdapter(router).Handle)
}
