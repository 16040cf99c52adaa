package prefs

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// RunConfig carries the knobs of a generation run that are not part of the
// Preferences value handed to the core.
type RunConfig struct {
	OutputDir        string
	WriteConcurrency int
	LogLevel         string
	Token            string
}

type envSpec struct {
	DNS           string   `envconfig:"DNS"`
	UseIPEndpoint bool     `envconfig:"USE_IP_ENDPOINT"`
	Keepalive     int      `envconfig:"KEEPALIVE" default:"25"`
	MaxLoad       int      `envconfig:"MAX_LOAD" default:"100"`
	ServerTypes   []string `envconfig:"TYPES"`
	Regions       []string `envconfig:"REGIONS"`
	Countries     []string `envconfig:"COUNTRIES"`
	Cities        []string `envconfig:"CITIES"`

	OutputDir        string `envconfig:"OUTPUT_DIR"`
	WriteConcurrency int    `envconfig:"WRITE_CONCURRENCY" default:"200"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"INFO"`
	Token            string `envconfig:"TOKEN"`
}

// FromEnv builds Preferences and RunConfig from NORDGEN_* environment
// variables, reading an optional .env file first. Invalid values degrade
// to defaults via Normalized rather than failing the run.
func FromEnv() (Preferences, RunConfig, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	var spec envSpec
	if err := envconfig.Process("nordgen", &spec); err != nil {
		return Preferences{}, RunConfig{}, fmt.Errorf("process environment: %w", err)
	}

	p := Preferences{
		DNS:           spec.DNS,
		UseIPEndpoint: spec.UseIPEndpoint,
		Keepalive:     spec.Keepalive,
		MaxLoad:       spec.MaxLoad,
		ServerTypes:   spec.ServerTypes,
		Regions:       spec.Regions,
		Countries:     spec.Countries,
		Cities:        spec.Cities,
	}.Normalized()

	rc := RunConfig{
		OutputDir:        spec.OutputDir,
		WriteConcurrency: spec.WriteConcurrency,
		LogLevel:         spec.LogLevel,
		Token:            spec.Token,
	}
	if rc.WriteConcurrency <= 0 {
		rc.WriteConcurrency = 200
	}
	return p, rc, nil
}
