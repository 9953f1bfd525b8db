package main

import (
	"thinktrends.com/icsr/api"
	"thinktrends.com/icsr/logger"
	"thinktrends.com/icsr/pipeline"
	"thinktrends.com/icsr/types"
	"thinktrends.com/icsr/worker"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"net/http"
	"os"
	"time"
)

type Config struct {
	ProfilePath   string `envconfig:"ICSR_PROFILE_PATH" default:""`
	RestAPIActive bool   `envconfig:"ICSR_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"ICSR_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	intakeLogger := logger.NewLogger("Main")
	fatalErrLogger := intakeLogger.Fatal().Caller()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	// Load pipeline. The profile file may land a moment after the pod, so
	// loading retries a few times before giving up.
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			profile, err := loadProfile(config.ProfilePath)
			if err != nil {
				intakeLogger.Err(err).Msg("Failed to load validation profile. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			intakeLogger.Info().Str("profile", profile.Name).Msg("Loaded validation profile")
			intakeLogger.Info().Msg("Starting pipeline loading")

			ppln, err := pipeline.Intake(pipeline.IntakeParams{Profile: profile})
			if err != nil {
				intakeLogger.Err(err).Msg("Failed to start intake pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			intakeLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			intakeLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			intakeLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	intakeLogger.Info().Msg("Start ICSR intake worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			intakeLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			intakeLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func loadProfile(profilePath string) (types.Profile, error) {
	if profilePath == "" {
		return types.DefaultProfile(), nil
	}
	return types.LoadProfile(profilePath)
}
