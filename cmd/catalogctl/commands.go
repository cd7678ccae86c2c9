package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-backend/internal/banner"
	"catalog-backend/internal/catalog"
	"catalog-backend/internal/deeplink"
	"catalog-backend/internal/feed"
	"catalog-backend/internal/ingest"
	"catalog-backend/internal/leads"
	"catalog-backend/internal/logging"
	"catalog-backend/internal/model"
	"catalog-backend/internal/screens"
)

// app carries the state shared by every subcommand.
type app struct {
	file     string
	screen   string
	logLevel string

	logger   *zap.Logger
	launcher deeplink.Launcher
	catalog  *catalog.Service
}

// newRootCmd builds the command tree. A nil launcher means the platform
// opener.
func newRootCmd(launcher deeplink.Launcher) *cobra.Command {
	a := &app{launcher: launcher}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Query catalog screens from a database export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.file, "file", "f", "", "database export (JSON or YAML)")
	root.PersistentFlags().StringVarP(&a.screen, "screen", "s", "retail", "screen profile")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		a.queryCmd(),
		a.suggestCmd(),
		a.facetsCmd(),
		a.categoriesCmd(),
		a.screensCmd(),
		a.openCmd(),
		a.leadCmd(),
	)
	return root
}

func (a *app) load(ctx context.Context) error {
	logger, err := logging.New(a.logLevel, true)
	if err != nil {
		return err
	}
	a.logger = logger
	if a.launcher == nil {
		a.launcher = deeplink.NewCommandLauncher(logger)
	}

	data, err := os.ReadFile(a.file)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	var root any
	switch strings.ToLower(filepath.Ext(a.file)) {
	case ".yaml", ".yml":
		root, err = ingest.DecodeYAML(data)
	default:
		root, err = ingest.DecodeJSON(data)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", a.file, err)
	}

	reg, err := screens.NewRegistry(screens.Defaults())
	if err != nil {
		return err
	}
	if _, err := reg.Get(a.screen); err != nil {
		return err
	}
	a.catalog = catalog.NewService(reg, feed.NewStaticSubscriber(root), banner.DefaultInterval, logger, nil)
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = a.catalog.Start(ctx)
	return err
}

func (a *app) print(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) queryCmd() *cobra.Command {
	var (
		state         model.QueryState
		sort          string
		offset, limit int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and sort a screen's items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state.SortOrder = model.SortOrder(sort)
			if !model.IsValidSort(state.SortOrder) {
				return fmt.Errorf("invalid sort order %q", sort)
			}
			res, err := a.catalog.Query(a.screen, state, offset, limit)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&state.SearchText, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&state.SelectedCategory, "category", "", "category filter")
	cmd.Flags().StringVar(&state.SelectedBrand, "brand", "", "brand filter")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order: asc, desc or newest")
	cmd.Flags().IntVar(&offset, "offset", 0, "items to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "max items (0 = all)")
	return cmd
}

func (a *app) suggestCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "Keyword suggestions for partially typed text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sug, err := a.catalog.Suggest(a.screen, args[0], limit)
			if err != nil {
				return err
			}
			return a.print(cmd, sug)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max suggestions")
	return cmd
}

func (a *app) facetsCmd() *cobra.Command {
	var state model.QueryState
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Brands available for the current search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.catalog.Query(a.screen, state, 0, 0)
			if err != nil {
				return err
			}
			return a.print(cmd, res.Facets)
		},
	}
	cmd.Flags().StringVarP(&state.SearchText, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&state.SelectedCategory, "category", "", "category filter")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Grouped categories of a screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := a.catalog.Categories(a.screen)
			if err != nil {
				return err
			}
			return a.print(cmd, groups)
		},
	}
}

func (a *app) screensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List screens and their item counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.print(cmd, a.catalog.Statuses())
		},
	}
}

func (a *app) openCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:       "open <whatsapp|call> <id>",
		Short:     "Open a WhatsApp chat or the dialer for an item",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"whatsapp", "call"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var link func(string) string
			switch args[0] {
			case "whatsapp":
				link = deeplink.WhatsAppURL
			case "call":
				link = deeplink.CallURL
			default:
				return fmt.Errorf("unknown action %q (want whatsapp or call)", args[0])
			}
			it, err := a.catalog.Item(a.screen, args[1])
			if err != nil {
				return err
			}
			uri := link(it.Phone)
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			if dryRun {
				return nil
			}
			return a.launcher.Open(cmd.Context(), uri)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the link without opening it")
	return cmd
}

func (a *app) leadCmd() *cobra.Command {
	var (
		fields map[string]string
		admin  string
		open   bool
	)
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Build the admin WhatsApp message for a lead form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.catalog.Profile(a.screen)
			if err != nil {
				return err
			}
			if p.LeadKind == "" {
				return fmt.Errorf("screen %s takes no leads", a.screen)
			}
			form, err := leads.DecodeFields(p.LeadKind, fields)
			if err != nil {
				return err
			}
			if admin == "" {
				if admin, err = a.catalog.AdminNumber(a.screen); err != nil {
					return err
				}
			}

			lead, err := leads.NewService(nil, nil, a.logger).Submit(cmd.Context(), a.screen, admin, form)
			var missing *leads.MissingFieldsError
			if errors.As(err, &missing) {
				return fmt.Errorf("missing required fields: %s", strings.Join(missing.Fields, ", "))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), lead.URL)
			if !open {
				return nil
			}
			return a.launcher.Open(cmd.Context(), lead.URL)
		},
	}
	cmd.Flags().StringToStringVar(&fields, "field", nil, "form field as key=value (repeatable)")
	cmd.Flags().StringVar(&admin, "admin", "", "admin WhatsApp number (default: from the export)")
	cmd.Flags().BoolVar(&open, "open", false, "open the link")
	return cmd
}
