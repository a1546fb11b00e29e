package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cuesmith/internal/audiocache"
	"cuesmith/internal/config"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Extracted-audio cache utilities",
	}

	cacheCmd.AddCommand(newCachePopulateCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func openCache(ctx *commandContext) (*audiocache.Cache, *config.Config, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.AudioCache.Enabled {
		return nil, nil, fmt.Errorf("audio cache is disabled in configuration")
	}
	cache, err := audiocache.Open(audiocache.Options{
		Root:           cfg.AudioCache.Dir,
		MaxGiB:         cfg.AudioCache.MaxGiB,
		FFmpegBinary:   cfg.Speech.FFmpegBinary,
		ExtractTimeout: time.Duration(cfg.Speech.ExtractTimeoutSeconds) * time.Second,
	}, ctx.ensureLogger())
	if err != nil {
		return nil, nil, err
	}
	return cache, cfg, nil
}

func newCachePopulateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "populate <media-file> [more...]",
		Short: "Extract audio for media files ahead of timing checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, _, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				media, err := requireFile(arg)
				if err != nil {
					return err
				}
				wav, err := cache.Audio(cmd.Context(), media)
				if err != nil {
					return fmt.Errorf("populate %s: %w", arg, err)
				}
				fmt.Fprintf(out, "%s -> %s\n", arg, wav)
			}
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Evict least-recently-used cache entries past the size budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, cfg, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := cache.Prune(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned audio cache at %s to %d GiB budget\n",
				cfg.AudioCache.Dir, cfg.AudioCache.MaxGiB)
			return nil
		},
	}
}
