package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/pkg/errors"
)

type regionList []mapview.RegionSummary

func (l regionList) TableHeaders() table.Row {
	return table.Row{"ID", "Name", "Group", "Representatives"}
}

func (l regionList) TableRows() []table.Row {
	rows := make([]table.Row, 0, len(l))
	for _, r := range l {
		rows = append(rows, table.Row{r.ID, r.Name, r.Info, r.Count})
	}
	return rows
}

type regionResult region.Region

func (r regionResult) TableHeaders() table.Row { return table.Row{"ID", "Name", "Group"} }
func (r regionResult) TableRows() []table.Row  { return []table.Row{{r.ID, r.Name, r.Info}} }

type contactsResult mapview.ContactPanel

func (p contactsResult) TableHeaders() table.Row {
	return table.Row{"", "Name", "Position", "Phone", "Email", "Activities"}
}

func (p contactsResult) TableRows() []table.Row {
	if len(p.Cards) == 0 {
		return []table.Row{{"", p.Message, "", "", "", ""}}
	}
	rows := make([]table.Row, 0, len(p.Cards))
	for _, c := range p.Cards {
		rows = append(rows, table.Row{c.Initials, c.Name, c.Position, c.Phone, c.Email, strings.Join(c.Activities, ", ")})
	}
	return rows
}

type statsResult mapview.Stats

func (s statsResult) TableHeaders() table.Row { return table.Row{"Activity", "Representatives"} }

func (s statsResult) TableRows() []table.Row {
	rows := []table.Row{
		{"total", s.TotalRepresentatives},
		{"regions covered", s.RegionsCovered},
	}
	if len(s.Activities) == 0 && s.Message != "" {
		return append(rows, table.Row{s.Message, ""})
	}
	for _, a := range s.Activities {
		rows = append(rows, table.Row{a.Name, a.Count})
	}
	return rows
}

func newRegionsCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the region catalog with representative counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}

			all := app.Service.Regions()
			if group == "" {
				return PrintResult(cmd, regionList(all))
			}
			members := app.Catalog.InGroup(group)
			if len(members) == 0 {
				return errors.InvalidParam("unknown region group " + group).
					WithDetail("known groups: " + strings.Join(app.Catalog.Groups(), ", "))
			}
			byID := make(map[string]mapview.RegionSummary, len(all))
			for _, r := range all {
				byID[r.ID] = r
			}
			filtered := make(regionList, 0, len(members))
			for _, r := range members {
				filtered = append(filtered, byID[r.ID])
			}
			return PrintResult(cmd, filtered)
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only regions of this group, e.g. ЦФО")
	return cmd
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve a region name or alias to its catalog entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}
			r, err := app.Service.LookupByName(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return PrintResult(cmd, regionResult(r))
		},
	}
}

func newContactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts <region-id>",
		Short: "Show the representatives serving a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}
			panel, err := app.Service.Contacts(region.Normalize(args[0]))
			if err != nil {
				return err
			}
			return PrintResult(cmd, contactsResult(panel))
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize representatives by activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, statsResult(app.Service.Stats()))
		},
	}
}

//Personal.AI order the ending
