package cli

import (
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type versionResult struct {
	BuildInfo
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (v versionResult) TableHeaders() table.Row {
	return table.Row{"Version", "Commit", "Built", "Go", "Platform"}
}

func (v versionResult) TableRows() []table.Row {
	return []table.Row{{v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform}}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, versionResult{
				BuildInfo: BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate},
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}

//Personal.AI order the ending
