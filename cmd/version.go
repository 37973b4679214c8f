package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// releaseRepository is where release binaries are published
const releaseRepository = "thomasw/posterous"

var errDevelopmentBuild = errors.New("development builds cannot be updated")

// skipInit replaces initializeApp for commands that need no configuration
func skipInit(*cobra.Command, []string) error { return nil }

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "posterous %s (built %s, %s/%s, %s)\n",
			version, buildTime, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	RunE:              runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := currentVersion(version)
	if err != nil {
		return err
	}

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("error checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	out := cmd.OutOrStdout()
	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error updating binary: %w", err)
	}

	fmt.Fprintf(out, "Updated %s -> %s\n", current, latest.Version())
	return nil
}

// currentVersion parses the build version, accepting a leading "v".
func currentVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errDevelopmentBuild
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid build version %q: %w", v, err)
	}
	return parsed, nil
}
