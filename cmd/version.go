package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brk3/habittracker/pkg/versioninfo"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `The "version" command displays the current version info for the client, and
for the server at api_base_url when --server is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Client Version: %s (built %s)\n", versioninfo.Version, versioninfo.BuildDate)
			if !remote {
				return nil
			}

			serverVersion, err := fetchServerVersion(cmd.Context(), a.cfg.APIBaseURL)
			if err != nil {
				return fmt.Errorf("fetch server version: %w", err)
			}
			fmt.Fprintf(out, "Server Version: %s\n", serverVersion.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "server", false, "also query the server version")
	return cmd
}

func fetchServerVersion(ctx context.Context, base string) (*versioninfo.VersionInfo, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/version", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s", resp.Status)
	}
	serverVersion := &versioninfo.VersionInfo{}
	if err := json.NewDecoder(resp.Body).Decode(serverVersion); err != nil {
		return nil, err
	}
	return serverVersion, nil
}
