package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/picogrid/convoy-tracker/pkg/analytics"
	"github.com/picogrid/convoy-tracker/pkg/logger"
	"github.com/picogrid/convoy-tracker/pkg/simulation"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an after-action report from an engagement log",
	Long: `Ingest a JSONL engagement log produced by a scenario run into the
analytics store and render a mission report`,
	RunE: generateReport,
}

func init() {
	reportCmd.Flags().String("log", "", "engagement log file (JSONL)")
	reportCmd.Flags().String("db", "", "analytics database file (default in-memory)")
	reportCmd.Flags().String("convoy", "", "convoy ID to scope the report to")
	reportCmd.Flags().String("format", "markdown", "output format (markdown, json)")
	reportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	reportCmd.Flags().String("export-parquet", "", "also export the fact table to a parquet file")
	_ = reportCmd.MarkFlagRequired("log")
}

func generateReport(cmd *cobra.Command, _ []string) error {
	logPath, _ := cmd.Flags().GetString("log")
	dbPath, _ := cmd.Flags().GetString("db")
	convoyFlag, _ := cmd.Flags().GetString("convoy")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	parquetPath, _ := cmd.Flags().GetString("export-parquet")

	if format != "markdown" && format != "json" {
		return fmt.Errorf("unsupported format %q (use markdown or json)", format)
	}

	var convoyID *uuid.UUID
	if convoyFlag != "" {
		id, err := uuid.Parse(convoyFlag)
		if err != nil {
			return fmt.Errorf("invalid convoy ID: %w", err)
		}
		convoyID = &id
	}

	engagements, err := simulation.ReadEngagementLog(logPath)
	if err != nil {
		return err
	}
	if len(engagements) == 0 {
		return fmt.Errorf("engagement log %s is empty", logPath)
	}

	engine, err := analytics.New(dbPath, nil)
	if err != nil {
		return fmt.Errorf("failed to open analytics store: %w", err)
	}
	defer func() { _ = engine.Close() }()

	ctx := context.Background()
	records := make([]analytics.EngagementRecord, 0, len(engagements))
	for _, e := range engagements {
		records = append(records, toRecord(e))
	}

	ingested, err := engine.IngestBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to ingest engagements: %w", err)
	}
	logger.Infof("Ingested %d of %d engagements", ingested, len(records))

	if parquetPath != "" {
		if err := engine.ExportParquet(ctx, parquetPath); err != nil {
			return fmt.Errorf("failed to export parquet: %w", err)
		}
		logger.Successf("Exported fact table to %s", parquetPath)
	}

	report, err := engine.BuildReport(ctx, convoyID)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	var rendered string
	if format == "json" {
		rendered, err = report.JSON()
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	} else {
		rendered = report.Markdown()
	}

	if outputPath == "" {
		fmt.Println(rendered)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Successf("Report written to %s", outputPath)
	return nil
}

func toRecord(e simulation.SimulatedEngagement) analytics.EngagementRecord {
	targetType := string(e.TargetType)
	rangeKM := e.RangeKM
	altitudeM := e.AltitudeM
	return analytics.EngagementRecord{
		EngagementID: e.EngagementID,
		ConvoyID:     e.ConvoyID,
		DroneID:      e.DroneID,
		Callsign:     e.Callsign,
		PlatformType: string(e.PlatformType),
		Hit:          e.Hit,
		WeaponType:   string(e.WeaponType),
		TargetType:   &targetType,
		RangeKM:      &rangeKM,
		AltitudeM:    &altitudeM,
		Timestamp:    e.Timestamp,
	}
}
