package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newPlaceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "place <text>...",
		Short: "Search places by free text (up to 5 results)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(),
				time.Duration(a.cfg.Nominatim.Timeout)*time.Second)
			defer cancel()

			places, err := a.places.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), places)
		},
	}
}
