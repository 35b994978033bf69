package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newRegionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "region <lat1> <lng1> <lat2> <lng2>",
		Short: "Analyze the region spanned by two corners",
		Args:  cobra.ExactArgs(4),
		// Negative coordinates would otherwise parse as shorthand flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			corners, err := parseCorners(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.analysisContext(cmd)
			defer cancel()

			report, err := a.regions.Analyze(ctx, corners)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}

func newAroundCmd(a *app) *cobra.Command {
	var lat, lng, radiusKm float64

	cmd := &cobra.Command{
		Use:   "around --lat <lat> --lng <lng> [--radius-km <km>]",
		Short: "Analyze the square region around a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.analysisContext(cmd)
			defer cancel()

			report, err := a.regions.AnalyzeAround(ctx, lat, lng, radiusKm)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the centre")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the centre")
	cmd.Flags().Float64Var(&radiusKm, "radius-km", 1, "half the side of the square, in km")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <lat1> <lng1> <lat2> <lng2>",
		Short: "Print the Overpass query a region analysis would run",
		Args:  cobra.ExactArgs(4),
		// Negative coordinates would otherwise parse as shorthand flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			corners, err := parseCorners(args)
			if err != nil {
				return err
			}
			q, err := a.regions.Query(corners)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"query": q})
		},
	}
}

// analysisContext is cancelled on SIGINT/SIGTERM or after the configured
// analysis budget.
func (a *app) analysisContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Server.AnalyzeTimeout)*time.Second)
	return ctx, func() {
		cancel()
		stop()
	}
}
