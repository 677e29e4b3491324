package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/app"
	"github.com/samvad-hq/samvad-portal/internal/catalog"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	offline bool
	noCache bool
	source  string
}

type opener func(ctx context.Context, flags rootFlags) (*app.Portal, error)

// cli carries the portal built for the current invocation.
type cli struct {
	out    io.Writer
	open   opener
	flags  rootFlags
	portal *app.Portal
}

// newRootCmd builds the command tree. Every subcommand runs one content load before printing.
func newRootCmd(out io.Writer, open opener) *cobra.Command {
	c := &cli{out: out, open: open}

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Inspect the portal's derived content from the command line",
		Long: `portalctl runs one content load and prints the derived lists as indented JSON.

Examples:
  portalctl hero
  portalctl category "Apps & Games"
  portalctl menu reviews --limit 3
  portalctl search pixel --offline`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsLoad(cmd) {
				return nil
			}
			return c.load(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.portal == nil {
				return nil
			}
			return c.portal.Close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&c.flags.offline, "offline", false, "Skip the network and use the fallback dataset")
	root.PersistentFlags().BoolVar(&c.flags.noCache, "no-cache", false, "Do not open the persistent body cache")
	root.PersistentFlags().StringVar(&c.flags.source, "source", "", "Content source ID from the sources registry")

	root.AddCommand(
		c.statusCmd(),
		c.heroCmd(),
		c.homeCmd(),
		c.categoryCmd(),
		c.menuCmd(),
		c.articleCmd(),
		c.relatedCmd(),
		c.searchCmd(),
		c.dealsCmd(),
	)
	return root
}

// skipsLoad reports whether cmd is cobra's help or shell completion tree, which print
// without touching content.
func skipsLoad(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		switch cmd.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func (c *cli) load(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := c.open(ctx, c.flags)
	if err != nil {
		return err
	}
	c.portal = p
	p.LoadOnce(ctx)
	return nil
}

func (c *cli) snapshot() *content.Snapshot { return c.portal.Store().Snapshot() }

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the loaded snapshot summary",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.print(c.snapshot().Status())
		},
	}
}

func (c *cli) heroCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hero",
		Short: "Print the home page hero article",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			hero, ok := catalog.SelectHero(c.snapshot().Articles())
			if !ok {
				return fmt.Errorf("no articles loaded")
			}
			return c.print(hero)
		},
	}
}

func (c *cli) homeCmd() *cobra.Command {
	var (
		category string
		carousel int
	)
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Print hero, carousel and feed for a category",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat := domain.CategoryAll
			if strings.TrimSpace(category) != "" {
				parsed, err := parseCategory(category)
				if err != nil {
					return err
				}
				cat = parsed
			}
			return c.print(catalog.BuildHome(c.snapshot().Articles(), cat, carousel))
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name or slug")
	cmd.Flags().IntVar(&carousel, "carousel", catalog.DefaultCarouselSize, "Maximum carousel entries")
	return cmd
}

func (c *cli) categoryCmd() *cobra.Command {
	var highlight bool
	cmd := &cobra.Command{
		Use:   "category [name]",
		Short: "List the articles belonging to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			articles := c.snapshot().Articles()
			if highlight {
				a, ok := catalog.SelectCategoryHighlight(articles, cat)
				if !ok {
					return fmt.Errorf("no articles in category %s", cat)
				}
				return c.print(a)
			}
			return c.print(catalog.FilterByCategory(articles, cat))
		},
	}
	cmd.Flags().BoolVar(&highlight, "highlight", false, "Print only the category highlight")
	return cmd
}

func (c *cli) menuCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "menu [name]",
		Short: "Print the mega-menu block for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			return c.print(catalog.BuildMenu(c.snapshot().Articles(), cat, limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 4, "Maximum menu entries")
	return cmd
}

func (c *cli) articleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "article [id]",
		Short: "Print one article with its full body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := c.snapshot().Article(args[0])
			if !ok {
				return fmt.Errorf("article %q not found", args[0])
			}
			return c.print(c.portal.Bodies().Refresh(cmd.Context(), a))
		},
	}
}

func (c *cli) relatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related [id]",
		Short: "Print articles related to an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			snap := c.snapshot()
			a, ok := snap.Article(args[0])
			if !ok {
				return fmt.Errorf("article %q not found", args[0])
			}
			return c.print(c.portal.Related().Related(&a, snap.Articles(), snap.Version()))
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search article titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return c.print([]domain.Article{})
			}
			return c.print(catalog.Search(query, c.snapshot().Articles()))
		},
	}
}

func (c *cli) dealsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deals",
		Short: "Print the loaded deals",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.print(c.snapshot().Deals())
		},
	}
}

func parseCategory(raw string) (domain.Category, error) {
	cat, ok := domain.ParseCategory(raw)
	if !ok {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return cat, nil
}
