package ingest

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KillMonga130/Toyota-hackathon/log"
	"github.com/KillMonga130/Toyota-hackathon/pkg/config"
	pipeline "github.com/KillMonga130/Toyota-hackathon/pkg/ingest"
	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <telemetry-file>",
		Short: "ingest a telemetry export and emit the normalized samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&config.OutputFile,
		"out",
		"o",
		"",
		"write normalized samples as JSON to this file ('-' for stdout)")
	return cmd
}

func runIngest(cmd *cobra.Command, file string) error {
	loader := pipeline.NewLoader(
		pipeline.WithLogger(log.Default().Named("ingest")))
	samples, err := loader.Load(cmd.Context(), file)
	if err != nil {
		log.Error("ingestion failed", log.ErrorField(err))
		return err
	}
	logSummary(samples)
	if config.OutputFile != "" {
		return writeSamples(config.OutputFile, samples)
	}
	return nil
}

func logSummary(samples []model.TelemetrySample) {
	vehicles := make(map[string]struct{})
	minLap, maxLap := samples[0].Lap, samples[0].Lap
	minX, maxX := samples[0].X, samples[0].X
	minZ, maxZ := samples[0].Z, samples[0].Z
	for i := range samples {
		vehicles[samples[i].VehicleID] = struct{}{}
		minLap = min(minLap, samples[i].Lap)
		maxLap = max(maxLap, samples[i].Lap)
		minX = min(minX, samples[i].X)
		maxX = max(maxX, samples[i].X)
		minZ = min(minZ, samples[i].Z)
		maxZ = max(maxZ, samples[i].Z)
	}
	log.Info("normalized telemetry ready",
		log.Int("samples", len(samples)),
		log.Int("vehicles", len(vehicles)),
		log.Int("firstLap", minLap),
		log.Int("lastLap", maxLap),
		log.Float64("extentX", maxX-minX),
		log.Float64("extentZ", maxZ-minZ))
}

func writeSamples(target string, samples []model.TelemetrySample) error {
	var w io.Writer = os.Stdout
	if target != "-" {
		f, err := os.Create(target)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	return enc.Encode(samples)
}
