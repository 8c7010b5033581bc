package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/KillMonga130/Toyota-hackathon/log"
	"github.com/KillMonga130/Toyota-hackathon/pkg/coach"
	"github.com/KillMonga130/Toyota-hackathon/pkg/config"
	pipeline "github.com/KillMonga130/Toyota-hackathon/pkg/ingest"
	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
	"github.com/KillMonga130/Toyota-hackathon/pkg/utils/broadcast"
)

func NewCoachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach <telemetry-file>",
		Short: "replay a telemetry export through the driving coach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoach(args[0])
		},
	}
	cmd.Flags().IntVar(&config.Speed,
		"speed",
		60,
		"replay speed in samples per second")
	cmd.Flags().StringVar(&config.OutputFormat,
		"format",
		"text",
		"output format for feedback and report card (text, json)")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"",
		"endpoint that receives open telemetry data (empty: stdout)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	return cmd
}

//nolint:funlen // session setup and replay loop read top to bottom
func runCoach(file string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		if telemetry, err := config.SetupTelemetry(ctx); err == nil {
			defer telemetry.Shutdown()
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		if err := otlpruntime.Start(
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			if err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort), nil); err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	loader := pipeline.NewLoader(
		pipeline.WithLogger(log.Default().Named("ingest")))
	samples, err := loader.Load(ctx, file)
	if err != nil {
		log.Error("ingestion failed", log.ErrorField(err))
		return err
	}

	engine := coach.NewEngine(
		coach.WithEngineLogger(log.Default().Named("coach")))
	engine.SetSamples(samples)

	session := filepath.Base(file)
	feedbackBcst := broadcast.NewBroadcastServer(session, "feedback", engine.Events())
	defer feedbackBcst.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range feedbackBcst.Subscribe() {
			printFeedback(ev)
		}
	}()

	speed := config.Speed
	if speed <= 0 {
		speed = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(speed))
	defer ticker.Stop()

	cursor := 0
replay:
	for cursor < len(samples) {
		select {
		case <-ctx.Done():
			break replay
		case <-ticker.C:
			engine.Update(cursor, true)
			cursor++
		}
	}
	if cursor >= len(samples) {
		cursor = len(samples) - 1
	}
	// playback stops here, either by end of data or interrupt
	engine.Update(cursor, false)

	feedbackBcst.Close()
	wg.Wait()

	if report := engine.Report(); report != nil {
		printReport(report)
	}
	return nil
}

func printFeedback(ev model.FeedbackEvent) {
	if config.OutputFormat == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(ev)
		return
	}
	fmt.Printf("[%s] #%d %s\n", ev.Severity, ev.FrameIndex, ev.Message)
}

func printReport(report *model.ReportCard) {
	if config.OutputFormat == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(report)
		return
	}
	fmt.Println("---- report card ----")
	fmt.Printf("Grade:       %s\n", report.Grade)
	fmt.Printf("Summary:     %s\n", report.Summary)
	if report.BestCorner != "" {
		fmt.Printf("Best corner: %s\n", report.BestCorner)
	}
	if report.Improvement != "" {
		fmt.Printf("Focus on:    %s\n", report.Improvement)
	}
	fmt.Printf("Braking %d | Throttle %d | Smoothness %d\n",
		report.Breakdown.Braking,
		report.Breakdown.Throttle,
		report.Breakdown.Smoothness)
}
