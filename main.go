package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gfiorelli/deltarank/pkg"
	"github.com/gfiorelli/deltarank/utils"
)

func main() {
	utils.LoadEnv()

	workers := utils.ReadIntEnvVarOr("WORKERS", 1)
	self := utils.ReadIntEnvVarOr("WORKER_INDEX", 0)
	apiPort := utils.ReadIntEnvVarOr("API_PORT", 1234)
	engineLog := utils.ReadBoolEnvVarOr("ENGINE_LOG", false)
	serverLog := utils.ReadBoolEnvVarOr("SERVER_LOG", false)
	utils.InitLog(engineLog, serverLog)

	if self < 0 || self >= workers {
		log.Fatalf("WORKER_INDEX %d outside partition group of %d worker(s)", self, workers)
	}

	// Engine constants; the config file is optional
	config := utils.DefaultConfig()
	if path := utils.ReadStringEnvVarOr("CONFIG", ""); path != "" {
		var err error
		config, err = utils.LoadConfiguration(path)
		utils.FailOnError("Failed to load configuration at %s", err, path)
	}

	// Cross-worker routing is only needed when the partition group has
	// more than one worker
	var router *pkg.Router
	if workers > 1 {
		rabbitHost, err := utils.ReadStringEnvVar("RABBIT_HOST")
		utils.FailOnError("Failed to read environment variables", err)
		rabbitUser := utils.ReadStringEnvVarOr("RABBIT_USER", "guest")
		rabbitPass := utils.ReadStringEnvVarOr("RABBIT_PASSWORD", "guest")
		url := fmt.Sprintf("amqp://%s:%s@%s:5672/", rabbitUser, rabbitPass, rabbitHost)
		router, err = pkg.NewRouter(url, workers, self)
		utils.FailOnError("Could not connect to RabbitMQ", err)
		defer router.Close()
	}

	driver, err := pkg.NewDriver(pkg.DriverConfig{
		TransmitFraction: config.TransmitFraction,
		InitialMass:      config.DefaultInitialMass,
		Partitioner:      pkg.NewPartitioner(workers),
		Self:             self,
		Router:           router,
	})
	utils.FailOnError("Could not create worker driver", err)

	if router != nil {
		err = router.Consume(driver.HandleEnvelope)
		utils.FailOnError("Could not register queue consumer", err)
	}

	// Optional bulk load of an initial edge list
	if path := utils.ReadStringEnvVarOr("GRAPH", ""); path != "" {
		contents, err := os.ReadFile(path)
		utils.FailOnError("Could not read graph at %s", err, path)
		events, err := pkg.ParseEdgeList(contents)
		utils.FailOnError("Could not parse graph at %s", err, path)
		_, err = driver.InjectEdges(events)
		utils.FailOnError("Could not inject graph at %s", err, path)
		log.Printf("Loaded %d edge(s) from %s", len(events), path)
	}

	// Ingestion and reporting endpoints in a goroutine
	go func() {
		log.Printf("Starting worker %d/%d api server on port %d", self, workers, apiPort)
		err := pkg.RunApiServer(apiPort, driver)
		utils.FailOnError("Failed to serve", err)
	}()

	// Drive the logical clock
	driver.Run(context.Background(), time.Duration(config.TickMillis)*time.Millisecond)
}
