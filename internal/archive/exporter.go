package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"schemecore/internal/core"
)

const reportContentType = "application/json"

// ReportKey returns the archive key for a resolution report: one object per
// atlas per generation timestamp.
func ReportKey(report core.ResolutionReport) string {
	return fmt.Sprintf("reports/%s/%s.json", report.AtlasID, report.GeneratedAt.UTC().Format("20060102T150405Z"))
}

// SaveReport serializes the report and archives it under ReportKey.
func SaveReport(ctx context.Context, store Store, report core.ResolutionReport) (Info, error) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("encode report: %w", err)
	}
	info, err := store.Put(ctx, ReportKey(report), bytes.NewReader(payload), reportContentType)
	if err != nil {
		return Info{}, fmt.Errorf("archive report: %w", err)
	}
	return info, nil
}

// LoadReport fetches and decodes an archived resolution report.
func LoadReport(ctx context.Context, store Store, key string) (core.ResolutionReport, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return core.ResolutionReport{}, fmt.Errorf("fetch report: %w", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return core.ResolutionReport{}, fmt.Errorf("read report: %w", err)
	}
	var report core.ResolutionReport
	if err := json.Unmarshal(data, &report); err != nil {
		return core.ResolutionReport{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}

// ListReports returns archived report infos for the atlas, oldest first.
func ListReports(ctx context.Context, store Store, atlasID string) ([]Info, error) {
	return store.List(ctx, "reports/"+atlasID+"/")
}
