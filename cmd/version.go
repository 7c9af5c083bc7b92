package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by -ldflags on release builds. The default marks
// local builds so self-update refuses to replace them.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the emtrainer version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("emtrainer", version)
	},
}
