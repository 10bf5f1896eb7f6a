package environment

import (
	"path/filepath"
	"strings"

	"github.com/morild/simcharts/internal/chart"
	"github.com/morild/simcharts/pkg/util"
)

// Settings is the enc section of the configuration file.
type Settings struct {
	ENC struct {
		Origin          []float64 `yaml:"origin"`
		Size            []float64 `yaml:"size"`
		Center          []float64 `yaml:"center"`
		Buffer          int       `yaml:"buffer"`
		Tolerance       int       `yaml:"tolerance"`
		Layers          []string  `yaml:"layers"`
		Depths          []int     `yaml:"depths"`
		Files           []string  `yaml:"files"`
		DataDir         string    `yaml:"data_dir"`
		NewData         bool      `yaml:"new_data"`
		Border          bool      `yaml:"border"`
		Verbose         bool      `yaml:"verbose"`
		UTMZone         int       `yaml:"utm_zone"`
		SimCallbackTime float64   `yaml:"sim_callback_time"`
	} `yaml:"enc"`
}

// Scope couples an extent with the layer selection and parsing settings
// derived from the configuration file.
type Scope struct {
	Extent    *Extent
	Buffer    int
	Tolerance int
	Layers    []string
	Depths    []int
	Files     []string
	NewData   bool
	Border    bool
	Verbose   bool
	UTMZone   int

	Parser *chart.Parser
}

const seabedLayer = "seabed"

// NewScope validates the configured extent, expands the seabed layer into
// per-depth layers, prepares the data directory tree, and builds the chart
// parser for the extent's bounding box.
func NewScope(settings *Settings) (*Scope, error) {
	var center []float64
	if len(settings.ENC.Center) > 0 {
		center = settings.ENC.Center
	}
	extent, err := NewExtent(settings.ENC.Size, settings.ENC.Origin, center)
	if err != nil {
		return nil, err
	}

	s := &Scope{
		Extent:    extent,
		Buffer:    settings.ENC.Buffer,
		Tolerance: settings.ENC.Tolerance,
		Depths:    settings.ENC.Depths,
		Files:     settings.ENC.Files,
		NewData:   settings.ENC.NewData,
		Border:    settings.ENC.Border,
		Verbose:   settings.ENC.Verbose,
		UTMZone:   settings.ENC.UTMZone,
	}

	for _, layer := range settings.ENC.Layers {
		if strings.EqualFold(layer, seabedLayer) {
			for _, depth := range s.Depths {
				s.Layers = append(s.Layers, chart.DepthLayerName(seabedLayer, depth))
			}
			continue
		}
		s.Layers = append(s.Layers, strings.ToLower(layer))
	}

	dataDir := settings.ENC.DataDir
	if dataDir == "" {
		dataDir = filepath.Join("data", "shapefiles")
	}
	if err := util.EnsureDirs(dataDir, nil); err != nil {
		return nil, err
	}

	bounds := chart.Bounds{
		XMin: extent.BBox[0],
		YMin: extent.BBox[1],
		XMax: extent.BBox[2],
		YMax: extent.BBox[3],
	}
	s.Parser = chart.NewParser(bounds, dataDir, s.Files, float64(s.Tolerance), s.Verbose)
	return s, nil
}
