package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/urbanscope/internal/adapters/nats"
	"github.com/samirrijal/urbanscope/internal/adapters/overpass"
	"github.com/samirrijal/urbanscope/internal/core/ports"
	"github.com/samirrijal/urbanscope/internal/core/usecases"
	"github.com/samirrijal/urbanscope/internal/pkg/config"
	"github.com/samirrijal/urbanscope/internal/pkg/logging"
	"github.com/samirrijal/urbanscope/internal/workflows"
)

const usage = `usage:
  surveyor worker               run the survey worker
  surveyor submit <survey.json> start a survey and print its result`

func main() {
	cfg, err := config.Load("urbanscope-surveyor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	mode := "worker"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	switch mode {
	case "worker":
		err = runWorker(c, cfg)
	case "submit":
		if len(os.Args) < 3 {
			err = eris.New(usage)
			break
		}
		err = submit(c, cfg, os.Args[2])
	default:
		err = eris.Errorf("unknown mode %q\n%s", mode, usage)
	}
	if err != nil {
		slog.Error("surveyor failed", "error", eris.ToString(err, false))
		os.Exit(1)
	}
}

func runWorker(c client.Client, cfg *config.Config) error {
	source := overpass.New(cfg.Overpass.URL, cfg.Overpass.UserAgent,
		time.Duration(cfg.Overpass.Timeout)*time.Second)

	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, events are not published", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		// Public Overpass instances allow very few concurrent queries.
		MaxConcurrentActivityExecutionSize: 2,
	})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.RegionSurveyWorkflow)
	w.RegisterActivity(&workflows.SurveyActivities{
		Regions: usecases.NewRegionService(source, publisher, cfg.Overpass.QueryTimeout),
	})

	slog.Info("surveyor worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		return eris.Wrap(err, "worker")
	}
	return nil
}

func submit(c client.Client, cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read survey %s", path)
	}

	var input workflows.SurveyInput
	if err := json.Unmarshal(data, &input); err != nil {
		return eris.Wrapf(err, "parse survey %s", path)
	}
	if input.SurveyID == "" {
		input.SurveyID = fmt.Sprintf("survey-%d", time.Now().Unix())
	}

	ctx := context.Background()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        input.SurveyID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.RegionSurveyWorkflow, input)
	if err != nil {
		return eris.Wrap(err, "start survey")
	}
	slog.Info("survey started", "survey_id", input.SurveyID, "run_id", run.GetRunID(), "regions", len(input.Regions))

	var result workflows.SurveyResult
	if err := run.Get(ctx, &result); err != nil {
		return eris.Wrap(err, "survey result")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
