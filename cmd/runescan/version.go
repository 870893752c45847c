package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/runescan/runescan/pkg/matcher"
)

var (
	version = "dev"
	commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "runescan v%s\n", version)
	fmt.Fprintf(out, "Commit: %s\n", commit)
	fmt.Fprintf(out, "Engine: hyperscan %s\n", matcher.Version())
	fmt.Fprintf(out, "Platform supported: %t\n", matcher.ValidPlatform())
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
