package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	clientapp "github.com/asokol123/yggdrasil-dns/application/client"
	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("[dns] Lookup cache is disabled, set cache_path in the config")

func newCachedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cached [site]",
		Short: "Show lookups cached by get_site.",
		Long: `Show the address a previous get_site returned for site, or all
cached lookups if no site is given. Nothing is mined or sent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCached,
	}
	cmd.Flags().Bool("purge", false, "Drop all cached lookups")
	return cmd
}

func runCached(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if purge, _ := cmd.Flags().GetBool("purge"); purge {
		cache, err := s.requireCache()
		if err != nil {
			return err
		}
		n, err := cache.Purge()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Dropped %d cached lookups\n", n)
		return nil
	}
	if len(args) == 1 {
		return s.showCached(args[0])
	}
	return s.listCached()
}

func (s *session) requireCache() (*clientapp.SiteCache, error) {
	cache, err := s.siteCache()
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return nil, errCacheDisabled
	}
	return cache, nil
}

func (s *session) showCached(site string) error {
	cache, err := s.requireCache()
	if err != nil {
		return err
	}
	cs, err := cache.Get(site)
	if err != nil {
		return err
	}
	printCached(s.out, cs)
	return nil
}

func (s *session) listCached() error {
	cache, err := s.requireCache()
	if err != nil {
		return err
	}
	sites, err := cache.List()
	if err != nil {
		return err
	}
	for _, cs := range sites {
		printCached(s.out, cs)
	}
	return nil
}

func printCached(w io.Writer, cs *clientapp.CachedSite) {
	fmt.Fprintf(w, "%s\t%s\t(fetched %s)\n", cs.Site, cs.Address,
		cs.FetchedAt.Local().Format(time.RFC3339))
}
