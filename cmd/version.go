package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-arch-news/pkg/fetcher"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "バージョンを表示します",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, fetcher.Version)
		},
	}
}
