package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/samirrijal/urbanscope/internal/adapters/nominatim"
	"github.com/samirrijal/urbanscope/internal/adapters/overpass"
	"github.com/samirrijal/urbanscope/internal/core/usecases"
	"github.com/samirrijal/urbanscope/internal/pkg/config"
	"github.com/samirrijal/urbanscope/internal/pkg/logging"
)

// app holds what subcommands need once configuration is loaded.
type app struct {
	cfg     *config.Config
	regions *usecases.RegionService
	places  *usecases.PlaceService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze map regions and look up places from the command line",
		Long: "Runs the same region analysis and place search as the API against the configured " +
			"Overpass and Nominatim endpoints and prints the result as JSON.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load("urbanscope-cli")
			if err != nil {
				return eris.Wrap(err, "load config")
			}
			a.cfg = cfg

			// stdout carries the JSON result; logs go to stderr.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Log.Level, "text"))

			source := overpass.New(cfg.Overpass.URL, cfg.Overpass.UserAgent,
				time.Duration(cfg.Overpass.Timeout)*time.Second)
			geocoder := nominatim.New(cfg.Nominatim.URL, cfg.Nominatim.UserAgent,
				time.Duration(cfg.Nominatim.Timeout)*time.Second)

			a.regions = usecases.NewRegionService(source, nil, cfg.Overpass.QueryTimeout)
			a.places = usecases.NewPlaceService(geocoder, nil)
			return nil
		},
	}

	root.AddCommand(newRegionCmd(a), newAroundCmd(a), newQueryCmd(a), newPlaceCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// parseCorners reads lat1 lng1 lat2 lng2 into two [lat, lng] corners.
func parseCorners(args []string) ([][]float64, error) {
	if len(args) != 4 {
		return nil, eris.Errorf("expected 4 coordinates (lat1 lng1 lat2 lng2), got %d", len(args))
	}
	v := make([]float64, 4)
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "coordinate %d (%q) is not a number", i+1, s)
		}
		v[i] = f
	}
	return [][]float64{{v[0], v[1]}, {v[2], v[3]}}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
