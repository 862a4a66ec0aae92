// Package particles previews the particle layouts of the worksheet boxes.
package particles

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/layout"
	"github.com/myrjola/reaksi/internal/simulation"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "particles",
	Title: "Particle layouts",
}

func init() {
	Layout.Flags().Int("red", simulation.DefaultRed, "initial number of red particles")
	Layout.Flags().Float64("width", layout.DefaultArea.Width, "box width in pixels")
	Layout.Flags().Float64("height", layout.DefaultArea.Height, "box height in pixels")
	Layout.Flags().Float64("padding", layout.DefaultArea.Padding, "box padding in pixels")
	Layout.Flags().Float64("radius", layout.DefaultArea.Radius, "particle radius in pixels")
	Layout.Flags().Bool("json", false, "print the positions as JSON")
}

type box struct {
	Seconds   int               `json:"seconds"`
	Red       int               `json:"red"`
	Blue      int               `json:"blue"`
	Positions []layout.Position `json:"positions"`
}

var Layout = &cobra.Command{
	Use:     "layout",
	GroupID: "particles",
	Short:   "Generate particle layouts",
	Long: `Derives the particle counts at 0, 10 and 20 seconds and places the particles of each box.
The summary shows how many particles could not be placed without overlapping.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		red, err := flags.GetInt("red")
		if err != nil {
			return errors.Wrap(err, "red flag")
		}
		var area layout.Area
		for name, target := range map[string]*float64{
			"width":   &area.Width,
			"height":  &area.Height,
			"padding": &area.Padding,
			"radius":  &area.Radius,
		} {
			if *target, err = flags.GetFloat64(name); err != nil {
				return errors.Wrap(err, name+" flag")
			}
		}
		asJSON, err := flags.GetBool("json")
		if err != nil {
			return errors.Wrap(err, "json flag")
		}

		rng := layout.Source()
		var boxes []box
		for i, snapshot := range simulation.Derive(red).Snapshots() {
			boxes = append(boxes, box{
				Seconds:   i * 10, //nolint:mnd // snapshots are 10 seconds apart
				Red:       snapshot.Red,
				Blue:      snapshot.Blue,
				Positions: layout.Generate(snapshot.Total(), area, rng),
			})
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err = enc.Encode(boxes); err != nil {
				return errors.Wrap(err, "encode layout")
			}
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // column gap
		_, _ = fmt.Fprintln(tw, "t\tred\tblue\tplaced\toverlapping")
		for _, b := range boxes {
			_, _ = fmt.Fprintf(tw, "%ds\t%d\t%d\t%d\t%d\n",
				b.Seconds, b.Red, b.Blue, len(b.Positions), layout.CountOverlapping(b.Positions))
		}
		if err = tw.Flush(); err != nil {
			return errors.Wrap(err, "flush")
		}
		return nil
	},
}
