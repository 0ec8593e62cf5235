// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package app wires configuration into the recommendation pipeline and its
// result sinks. Both the HTTP server and the CLI build their engine here.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/grubsync/internal/archive"
	"github.com/tomtom215/grubsync/internal/breaker"
	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/database"
	"github.com/tomtom215/grubsync/internal/events"
	"github.com/tomtom215/grubsync/internal/geocode"
	"github.com/tomtom215/grubsync/internal/recommend"
	"github.com/tomtom215/grubsync/internal/search"
)

// Pipeline is a fully wired recommendation engine plus the address
// resolver the preference endpoint shares with it.
type Pipeline struct {
	Engine   *recommend.Engine
	Resolver *geocode.Adapter
}

// Upstreams are the external provider clients behind the pipeline. Nil
// fields are built from configuration.
type Upstreams struct {
	Geocoder geocode.Geocoder
	Searcher search.Searcher
}

// NewPipeline builds the engine over data with the given sinks.
func NewPipeline(cfg *config.Config, data recommend.DataProvider, up Upstreams, sinks ...recommend.ResultSink) (*Pipeline, error) {
	bcfg := breaker.FromConfig(cfg.Breaker)
	rcfg := recommend.FromConfig(cfg.Recommend)

	geocoder := up.Geocoder
	if geocoder == nil {
		var err error
		geocoder, err = geocode.NewFromConfig(cfg.Geocoding, bcfg)
		if err != nil {
			return nil, fmt.Errorf("build geocoder: %w", err)
		}
	}
	resolver := geocode.NewAdapter(geocoder, rcfg.CallTimeout, rcfg.GeocodeConcurrency)

	searcher := up.Searcher
	if searcher == nil {
		yelp := search.NewYelpClient(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.Timeout)
		searcher = search.NewBreakerSearcher(yelp, bcfg)
	}
	orchestrator := search.NewOrchestrator(searcher, search.OrchestratorConfig{
		CallTimeout:   rcfg.CallTimeout,
		Concurrency:   rcfg.SearchConcurrency,
		MinResults:    rcfg.MinResults,
		FallbackZones: rcfg.FallbackZones,
		FallbackLimit: rcfg.FallbackLimit,
	})

	engine, err := recommend.NewEngine(data, resolver, orchestrator, rcfg, sinks...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Engine: engine, Resolver: resolver}, nil
}

// Sinks holds the optional result sinks built from configuration. The
// publisher, when present, must be run as a supervised service.
type Sinks struct {
	All       []recommend.ResultSink
	Publisher *events.Publisher
	Archiver  *archive.Archiver
}

// NewSinks always includes the database sink and adds the Kafka publisher
// and the object-store archiver when enabled. An archive bucket that cannot
// be created is logged and the archiver is skipped.
func NewSinks(ctx context.Context, cfg *config.Config, store database.Store, logger zerolog.Logger) (*Sinks, error) {
	s := &Sinks{All: []recommend.ResultSink{database.NewRecommendationSink(store)}}

	if cfg.Kafka.Enabled {
		s.Publisher = events.NewPublisher(events.NewKafkaWriter(cfg.Kafka), cfg.Kafka.QueueSize)
		s.All = append(s.All, s.Publisher)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Recommendation events enabled")
	}

	if cfg.Archive.Enabled {
		client, err := archive.NewMinioClient(cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("build archive client: %w", err)
		}
		archiver := archive.New(client, cfg.Archive.Bucket, cfg.Archive.Region)
		if err := archiver.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.Archive.Bucket).Msg("Archive bucket unavailable, archiving disabled")
		} else {
			s.Archiver = archiver
			s.All = append(s.All, archiver)
			logger.Info().Str("bucket", cfg.Archive.Bucket).Msg("Recommendation archive enabled")
		}
	}

	return s, nil
}
