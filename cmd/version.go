package cmd

import (
	"fmt"
	"runtime"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/spf13/cobra"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current version of cbxthumb",
	Run: func(cmd *cobra.Command, args []string) {
		goVersion := fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(cmd.OutOrStdout(), `Built At: %s
Go Version: %s
Author: %s
Commit ID: %s
Version: %s
`, conf.BuiltAt, goVersion, conf.GitAuthor, conf.GitCommit, conf.Version)
	},
}

func init() {
	RootCmd.AddCommand(VersionCmd)
}
