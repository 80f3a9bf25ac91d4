package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ceacwatch/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:          "ceacwatch",
		Short:        "CEAC visa status watcher",
		Long:         "ceacwatch polls the CEAC visa status tracker and notifies on meaningful changes.",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.AddCommand(checkCmd())
	root.AddCommand(watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
