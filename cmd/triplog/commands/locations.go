package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/triplog/cmd/triplog/opts"
	"github.com/walteh/triplog/pkg/geo"
	"github.com/walteh/triplog/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// distanceDays is how many days of totals the locations command shows
const distanceDays = 7

// NewLocationsCmd creates the locations command
func NewLocationsCmd(opts *opts.RootOpts) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List recorded locations and daily distances",
		Long: `Locations lists every recorded position, marking those recorded
today, followed by the distance covered on each of the last days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "locations").Logger().WithContext(cmd.Context())

			locs, err := opts.API.ListLocations(ctx)
			if err != nil {
				return errors.Errorf("listing locations: %w", err)
			}

			now := opts.Clock.Now()

			opts.Console.Header(fmt.Sprintf("%d locations", len(locs)))
			points := make([]geo.Point, 0, len(locs))
			for _, l := range locs {
				opts.Console.LogLocation(ctx, log.LocationLine{
					Latitude:  l.Latitude,
					Longitude: l.Longitude,
					CreatedAt: l.CreatedAt,
					IsToday:   geo.SameDay(l.CreatedAt, now),
				})
				points = append(points, geo.Point{Latitude: l.Latitude, Longitude: l.Longitude, At: l.CreatedAt})
			}

			opts.Console.LogNewline()
			for _, d := range geo.DailyDistances(points, now, days) {
				if d.Distance == nil {
					opts.Console.Infof("%s  -", d.Date)
					continue
				}
				opts.Console.Infof("%s  %.2f km", d.Date, *d.Distance)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", distanceDays, "number of days of distance totals to show")

	return cmd
}
