package main

import (
	"fmt"
	"os"

	"github.com/DavidGamba/go-getoptions"

	"github.com/yigit/placement/internal/pkg/logger"
	"github.com/yigit/placement/internal/server"
)

// @title Placement API
// @version 1.0
// @description Campus placement backend for students and placement officers

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer session token returned by the login routes

const defaultEnvFile = ".env"

type commandLineOptions struct {
	EnvFile string
}

func parseCommandLine() *commandLineOptions {
	options := &commandLineOptions{}
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&options.EnvFile, "env-file", defaultEnvFile,
		opt.Alias("e"),
		opt.Description("dotenv file read before the process environment; a missing file is ignored"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return options
}

func main() {
	options := parseCommandLine()

	srv, err := server.NewServer(options.EnvFile)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
