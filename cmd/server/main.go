package main

import (
	"github.com/equilab/cavale/internal/server"
	"github.com/equilab/cavale/internal/util"
	"github.com/equilab/cavale/pkg/logger"
	"github.com/equilab/cavale/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
