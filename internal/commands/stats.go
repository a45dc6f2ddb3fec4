package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/latoulicious/anglerslog/pkg/logbook"
	"github.com/latoulicious/anglerslog/pkg/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func statsCommand(app *App) *cobra.Command {
	var species string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the logbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.commandLogger(cmd, args).Debug("Stats requested", map[string]interface{}{"species": species})

			lb, err := app.openLogbook()
			if err != nil {
				return err
			}

			filter := uuid.NullUUID{}
			if species != "" {
				s, err := lb.GetSpeciesByName(species)
				if err != nil {
					return err
				}
				filter = uuid.NullUUID{UUID: s.ID, Valid: true}
			}

			return printStats(cmd.OutOrStdout(), lb, filter)
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "limit the longest and heaviest catch to one species")
	return cmd
}

func printStats(out io.Writer, lb *logbook.Logbook, species uuid.NullUUID) error {
	counts := []struct {
		label string
		count func() (int64, error)
	}{
		{"Catches", lb.CatchCount},
		{"Favorites", func() (int64, error) {
			favorites, err := lb.ListFavoriteCatches()
			return int64(len(favorites)), err
		}},
		{"Trips", lb.TripCount},
		{"Species", lb.SpeciesCount},
		{"Baits", lb.BaitCount},
		{"Bait categories", lb.BaitCategoryCount},
		{"Locations", lb.LocationCount},
		{"Fishing spots", lb.FishingSpotCount},
		{"Fishing methods", lb.FishingMethodCount},
		{"Water clarities", lb.WaterClarityCount},
		{"Anglers", lb.AnglerCount},
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Journal\t%s\n", lb.Name())
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\n", c.label, n)
	}

	longest, err := recordCatch(lb.LongestCatch(species))
	if err != nil {
		return err
	}
	heaviest, err := recordCatch(lb.HeaviestCatch(species))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Longest catch\t%s\n", describeRecord(lb, longest, func(c model.Catch) *float64 { return c.Length }))
	fmt.Fprintf(w, "Heaviest catch\t%s\n", describeRecord(lb, heaviest, func(c model.Catch) *float64 { return c.Weight }))
	if err := w.Flush(); err != nil {
		return err
	}

	stats, err := lb.SpeciesStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tFISH\tCATCHES")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\n", s.Species.Name, s.Quantity, s.Catches)
	}
	return w.Flush()
}

// recordCatch turns "no such catch" into nil
func recordCatch(c model.Catch, err error) (*model.Catch, error) {
	if errors.Is(err, logbook.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func describeRecord(lb *logbook.Logbook, c *model.Catch, measure func(model.Catch) *float64) string {
	if c == nil {
		return "none"
	}

	name := "unknown species"
	if c.SpeciesID.Valid {
		if s, err := lb.GetSpecies(c.SpeciesID.UUID); err == nil {
			name = s.Name
		}
	}

	value := "?"
	if m := measure(*c); m != nil {
		value = fmt.Sprintf("%g", *m)
	}
	return fmt.Sprintf("%s %s on %s", value, name, c.Name)
}
