package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/erazemk/bookstore/internal/config"
	"github.com/erazemk/bookstore/internal/images"
	"github.com/erazemk/bookstore/internal/model"
	"github.com/erazemk/bookstore/internal/store"
)

func newPruneCmd(cfg *config.Config) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove stored images no book refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			books, err := openBooks(ctx, cfg)
			if err != nil {
				return err
			}
			defer books.Close(context.Background())

			imgs, err := openImages(ctx, cfg)
			if err != nil {
				return err
			}

			removed, err := prune(ctx, books, imgs, dryRun)
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only print the images that would be removed")
	return cmd
}

// prune removes every stored image not referenced by a book and returns the
// names it removed, or would remove when dryRun is set.
func prune(ctx context.Context, books store.Books, imgs images.Store, dryRun bool) ([]string, error) {
	all, err := books.List(ctx, store.Natural)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	names, err := imgs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}

	unused := orphans(names, all)
	if dryRun {
		return unused, nil
	}

	var removed []string
	for _, name := range unused {
		if err := imgs.Remove(ctx, name); err != nil {
			slog.Warn("failed to remove image", "image", name, "error", err)
			continue
		}
		removed = append(removed, name)
	}
	slog.Info("pruned images", "removed", len(removed), "unused", len(unused))
	return removed, nil
}

// orphans returns the sorted names that no book uses as its image.
func orphans(names []string, books []model.Book) []string {
	used := make(map[string]bool, len(books))
	for _, b := range books {
		used[b.Image] = true
	}

	var out []string
	for _, name := range names {
		if !used[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
