// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/grubsync/internal/app"
	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/database"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/models"
	"github.com/tomtom215/grubsync/internal/validation"
)

// groupFile is the input of the recommend command. The requester, or the
// first member when no requester is given, owns the group.
type groupFile struct {
	GroupID     string       `json:"group_id" validate:"required,notblank"`
	Name        string       `json:"name" validate:"omitempty,max=100"`
	RequesterID string       `json:"requester_id"`
	Members     []fileMember `json:"members" validate:"required,min=1,dive"`
}

type fileMember struct {
	UserID              string            `json:"user_id" validate:"required,notblank"`
	Cuisines            []string          `json:"cuisines" validate:"max=20,dive,notblank"`
	DietaryRestrictions []string          `json:"dietary_restrictions" validate:"max=20,dive,notblank"`
	SpiceLevel          int               `json:"spice_level" validate:"min=1,max=5"`
	Budget              models.BudgetTier `json:"budget" validate:"required,budget"`
	Location            string            `json:"location" validate:"required,notblank"`
}

var errUnknownRequester = errors.New("requester is not listed in members")

// setRequester applies the --requester override and checks that the
// requester is one of the members.
func (in *groupFile) setRequester(override string) error {
	if override != "" {
		in.RequesterID = override
	}
	if in.RequesterID == "" {
		return nil
	}
	for _, m := range in.Members {
		if m.UserID == in.RequesterID {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", errUnknownRequester, in.RequesterID)
}

// group builds the stored group from the member list.
func (in *groupFile) group() *models.Group {
	owner := in.RequesterID
	if owner == "" {
		owner = in.Members[0].UserID
	}
	name := in.Name
	if name == "" {
		name = in.GroupID
	}
	ids := make([]string, 0, len(in.Members))
	for _, m := range in.Members {
		ids = append(ids, m.UserID)
	}
	return &models.Group{ID: in.GroupID, Name: name, OwnerID: owner, Members: ids}
}

func newRecommendCmd(up app.Upstreams) *cobra.Command {
	var (
		input     string
		requester string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank restaurants for a group described in a JSON file",
		Example: `  grubsync recommend --input group.json
  grubsync recommend --input - --requester bob < group.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readGroupFile(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := in.setRequester(requester); err != nil {
				return err
			}

			cfg, err := config.LoadForPipeline()
			if err != nil {
				return err
			}

			result, err := runRecommend(cmd.Context(), cfg, up, in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, pretty)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", `group file ("-" reads stdin)`)
	cmd.Flags().StringVar(&requester, "requester", "", "member requesting the run (overrides requester_id)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readGroupFile(path string, stdin io.Reader) (*groupFile, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in groupFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &in, nil
}

// runRecommend loads the group into an in-memory DuckDB store and runs the
// pipeline once. Only the database sink is attached.
func runRecommend(ctx context.Context, cfg *config.Config, up app.Upstreams, in *groupFile) (*models.RecommendationResult, error) {
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: cfg.Database.MaxMemory, SkipIndexes: true})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing in-memory database")
		}
	}()

	group := in.group()
	if err := db.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	for i := range in.Members {
		m := in.Members[i]
		if err := db.UpsertPreference(ctx, &models.MemberPreference{
			UserID:              m.UserID,
			GroupID:             group.ID,
			Cuisines:            m.Cuisines,
			DietaryRestrictions: m.DietaryRestrictions,
			SpiceLevel:          m.SpiceLevel,
			Budget:              m.Budget,
			Location:            m.Location,
		}); err != nil {
			return nil, fmt.Errorf("load preference for %s: %w", m.UserID, err)
		}
	}

	pipeline, err := app.NewPipeline(cfg, db, up, database.NewRecommendationSink(db))
	if err != nil {
		return nil, err
	}

	return pipeline.Engine.GenerateRecommendations(ctx, group.ID, group.OwnerID)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
