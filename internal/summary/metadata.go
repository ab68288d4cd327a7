package summary

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// xmlMetadata mirrors the sidecar document; only the global block
// matters here, band entries are skipped by the decoder.
type xmlMetadata struct {
	XMLName xml.Name  `xml:"scene_metadata"`
	Global  xmlGlobal `xml:"global_metadata"`
}

type xmlGlobal struct {
	AcquisitionDate string  `xml:"acquisition_date"`
	CorrectionLevel string  `xml:"correction_level"`
	CloudCover      float64 `xml:"cloud_cover"`
	GeometricRMSE   float64 `xml:"geometric_rmse"`
}

// Metadata is the per-scene acquisition metadata read from the XML
// sidecar. Quality fields default to zero when the sidecar omits them,
// which passes every acceptance rule.
type Metadata struct {
	AcquisitionDate time.Time
	Level           string // Geometric correction level (L1T, L1G, ...).
	CloudCover      float64
	RMSE            float64
}

// ReadMetadata parses the XML sidecar at path.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	defer f.Close()

	var doc xmlMetadata
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", path, err)
	}
	when, err := time.Parse("2006-01-02", doc.Global.AcquisitionDate)
	if err != nil {
		return nil, fmt.Errorf("metadata %s: acquisition_date %q: %w",
			path, doc.Global.AcquisitionDate, err)
	}
	if doc.Global.CorrectionLevel == "" {
		return nil, fmt.Errorf("metadata %s: missing correction_level", path)
	}
	return &Metadata{
		AcquisitionDate: when,
		Level:           doc.Global.CorrectionLevel,
		CloudCover:      doc.Global.CloudCover,
		RMSE:            doc.Global.GeometricRMSE,
	}, nil
}

// Acceptance carries the stack filtering rules. Zero value accepts
// everything.
type Acceptance struct {
	ExcludeL1G        bool
	ExcludeRMSE       bool
	MaxRMSE           float64
	ExcludeCloudCover bool
	MaxCloudCover     float64
}

// reject returns the reason a scene fails the acceptance rules, or ""
// when the scene passes.
func (a Acceptance) reject(md *Metadata) string {
	if a.ExcludeL1G && md.Level == "L1G" {
		return "L1G geometric correction"
	}
	if a.ExcludeRMSE && md.RMSE > a.MaxRMSE {
		return fmt.Sprintf("geometric RMSE %.2f above %.2f", md.RMSE, a.MaxRMSE)
	}
	if a.ExcludeCloudCover && md.CloudCover > a.MaxCloudCover {
		return fmt.Sprintf("cloud cover %.2f%% above %.2f%%", md.CloudCover, a.MaxCloudCover)
	}
	return ""
}
