package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cookup/gateway/internal/mealdb"
	"github.com/cookup/gateway/internal/server"
	"github.com/cookup/gateway/internal/service"
	"github.com/cookup/gateway/internal/types"
)

type lookupOptions struct {
	token   string
	json    bool
	cuisine string
	diet    string
}

func (l *lookupOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.token, "token", "", "bearer token forwarded to the primary backend")
	cmd.Flags().BoolVar(&l.json, "json", false, "output as JSON")
}

func newSearchCommand(root *rootOptions) *cobra.Command {
	opts := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search meals, falling back to the public catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.clientConfig()
			if err != nil {
				return err
			}
			resolver := server.NewResolver(cfg, root.logger)

			ctx := mealdb.WithBearerToken(cmd.Context(), opts.token)
			res, err := resolver.ResolveSearch(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			items := service.Filter(res.Items, opts.cuisine, opts.diet)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), types.SearchResponse{
					Items:        items,
					Source:       res.Source,
					Empty:        res.Empty(),
					Total:        len(items),
					RequestToken: res.Token,
				})
			}
			printSummaries(cmd.OutOrStdout(), items, res.Source)
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.cuisine, "cuisine", service.FilterAll, "cuisine filter")
	cmd.Flags().StringVar(&opts.diet, "diet", service.FilterAll, "diet filter")
	return cmd
}

func newMealCommand(root *rootOptions) *cobra.Command {
	opts := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "meal <id>",
		Short: "Show a meal with its instructions and ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.clientConfig()
			if err != nil {
				return err
			}
			resolver := server.NewResolver(cfg, root.logger)

			ctx := mealdb.WithBearerToken(cmd.Context(), opts.token)
			meal, err := resolver.ResolveDetail(ctx, args[0])
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), meal)
			}
			printDetail(cmd.OutOrStdout(), meal)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummaries(w io.Writer, items []types.MealSummary, source types.Source) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return
	}
	fmt.Fprintf(w, "%d result(s) from %s\n", len(items), strings.ToLower(string(source)))
	for _, m := range items {
		line := fmt.Sprintf("  %-8s %s", m.ID, m.Name)
		if area := types.StringValue(m.Area); area != "" {
			line += " (" + area + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func printDetail(w io.Writer, m *types.MealDetail) {
	fmt.Fprintf(w, "%s [%s]\n", m.Name, m.ID)
	if parts := nonEmpty(types.StringValue(m.Area), types.StringValue(m.Category)); len(parts) > 0 {
		fmt.Fprintln(w, strings.Join(parts, " / "))
	}
	if len(m.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range m.Ingredients {
			fmt.Fprintln(w, "  - "+ing.String())
		}
	}
	if instructions := types.StringValue(m.Instructions); instructions != "" {
		fmt.Fprintln(w, "\nInstructions:")
		fmt.Fprintln(w, instructions)
	}
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
