package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taglint/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk profile cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached profile",
	Long: `Remove the persisted tag profiles. The next run re-extracts every
file; use this after upgrading taglint or when the cache is suspect.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

func init() {
	cacheClearCmd.Flags().String("cache-dir", "", "override the disk cache directory")
	cachePathCmd.Flags().String("cache-dir", "", "override the disk cache directory")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}

func openCacheFromFlags(cmd *cobra.Command) (*driver.DiskCache, error) {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if dir != "" {
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("taglint")
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := openCacheFromFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "cleared %s\n", cache.Dir())
	return nil
}

func runCachePath(cmd *cobra.Command, args []string) error {
	cache, err := openCacheFromFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	fmt.Fprintln(os.Stdout, cache.Dir())
	return nil
}
