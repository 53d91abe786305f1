package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnalyticsReport is the canonical report shape, serialized to JSON or
// rendered as Markdown tables.
type AnalyticsReport struct {
	GeneratedAt        string               `json:"generated_at"`
	ConvoyID           *uuid.UUID           `json:"convoy_id,omitempty"`
	MissionSummary     *MissionSummary      `json:"mission_summary,omitempty"`
	TopPerformers      []DronePerformance   `json:"top_performers"`
	WeaponStats        []WeaponStats        `json:"weapon_stats"`
	PlatformComparison []PlatformComparison `json:"platform_comparison"`
	AccuracyByAltitude []BandAccuracy       `json:"accuracy_by_altitude"`
	AccuracyByRange    []BandAccuracy       `json:"accuracy_by_range"`
}

// BuildReport assembles the full report, optionally scoped to one
// convoy.
func (e *Engine) BuildReport(ctx context.Context, convoyID *uuid.UUID) (*AnalyticsReport, error) {
	report := &AnalyticsReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		ConvoyID:    convoyID,
	}

	if convoyID != nil {
		summary, err := e.MissionSummary(ctx, *convoyID)
		if err != nil {
			return nil, err
		}
		report.MissionSummary = summary
	}

	var err error
	if report.TopPerformers, err = e.TopPerformers(ctx, 10); err != nil {
		return nil, err
	}
	if report.WeaponStats, err = e.WeaponEffectiveness(ctx, convoyID); err != nil {
		return nil, err
	}
	if report.PlatformComparison, err = e.PlatformComparison(ctx); err != nil {
		return nil, err
	}
	if report.AccuracyByAltitude, err = e.AccuracyByAltitude(ctx); err != nil {
		return nil, err
	}
	if report.AccuracyByRange, err = e.AccuracyByRange(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// JSON serializes the report with indentation.
func (r *AnalyticsReport) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return string(data), nil
}

// Markdown renders the report as tables in a fixed section order.
func (r *AnalyticsReport) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Drone Convoy Analytics Report\n\n")
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", r.GeneratedAt))

	if r.MissionSummary != nil {
		s := r.MissionSummary
		sb.WriteString("## Mission Summary\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Total Drones | %d |\n", s.TotalDrones))
		sb.WriteString(fmt.Sprintf("| Total Engagements | %d |\n", s.TotalEngagements))
		sb.WriteString(fmt.Sprintf("| Total Hits | %d |\n", s.TotalHits))
		sb.WriteString(fmt.Sprintf("| Accuracy | %.1f%% |\n", s.AccuracyPct))
		if s.TopPerformer != nil {
			sb.WriteString(fmt.Sprintf("| Top Performer | %s |\n", *s.TopPerformer))
		}
		if s.MostUsedWeapon != nil {
			sb.WriteString(fmt.Sprintf("| Most Used Weapon | %s |\n", *s.MostUsedWeapon))
		}
		sb.WriteString("\n")
	}

	if len(r.TopPerformers) > 0 {
		sb.WriteString("## Top Performers\n\n")
		sb.WriteString("| Rank | Callsign | Platform | Engagements | Hits | Accuracy |\n")
		sb.WriteString("|------|----------|----------|-------------|------|----------|\n")
		for i, p := range r.TopPerformers {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %d | %.1f%% |\n",
				i+1, p.Callsign, p.PlatformType, p.TotalEngagements, p.Hits, p.AccuracyPct))
		}
		sb.WriteString("\n")
	}

	if len(r.WeaponStats) > 0 {
		sb.WriteString("## Weapon Effectiveness\n\n")
		sb.WriteString("| Weapon | Engagements | Hits | Accuracy | Avg Range |\n")
		sb.WriteString("|--------|-------------|------|----------|----------|\n")
		for _, w := range r.WeaponStats {
			rangeStr := "N/A"
			if w.AvgRangeKM != nil {
				rangeStr = fmt.Sprintf("%.1f km", *w.AvgRangeKM)
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.1f%% | %s |\n",
				w.WeaponType, w.TotalEngagements, w.Hits, w.AccuracyPct, rangeStr))
		}
		sb.WriteString("\n")
	}

	if len(r.PlatformComparison) > 0 {
		sb.WriteString("## Platform Comparison\n\n")
		sb.WriteString("| Platform | Drones | Engagements | Accuracy | Avg/Drone |\n")
		sb.WriteString("|----------|--------|-------------|----------|----------|\n")
		for _, p := range r.PlatformComparison {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.1f%% | %.1f |\n",
				p.PlatformType, p.DroneCount, p.TotalEngagements, p.AccuracyPct, p.AvgEngagementsPerDrone))
		}
		sb.WriteString("\n")
	}

	if len(r.AccuracyByAltitude) > 0 {
		sb.WriteString("## Accuracy by Altitude\n\n")
		sb.WriteString("| Altitude Band | Accuracy |\n")
		sb.WriteString("|---------------|----------|\n")
		for _, b := range r.AccuracyByAltitude {
			sb.WriteString(fmt.Sprintf("| %s | %.1f%% |\n", b.Band, b.AccuracyPct))
		}
		sb.WriteString("\n")
	}

	if len(r.AccuracyByRange) > 0 {
		sb.WriteString("## Accuracy by Range\n\n")
		sb.WriteString("| Range Band | Accuracy |\n")
		sb.WriteString("|------------|----------|\n")
		for _, b := range r.AccuracyByRange {
			sb.WriteString(fmt.Sprintf("| %s | %.1f%% |\n", b.Band, b.AccuracyPct))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n")
	sb.WriteString("*Classification: UNCLASSIFIED // FOUO*\n")
	return sb.String()
}
