package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"learningcenter/internal/publishing"
	"learningcenter/internal/publishingapi"
	"learningcenter/internal/services"
	"learningcenter/internal/store"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "List and manage tutorial categories",
	}
	cmd.AddCommand(newCategoryListCommand(ctx))
	cmd.AddCommand(newCategoryShowCommand(ctx))
	cmd.AddCommand(newCategoryAddCommand(ctx))
	cmd.AddCommand(newCategoryUpdateCommand(ctx))
	cmd.AddCommand(newCategoryDeleteCommand(ctx))
	return cmd
}

func newCategoryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			st.FetchCategories(cmd.Context())
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}

			categories := st.Categories()
			if ctx.jsonOutput() {
				return writeJSONList(cmd, "categories", categories)
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCategoryTable(categories))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d categories\n", st.CategoriesCount())
			return nil
		},
	}
}

func newCategoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one category straight from the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category", args[0])
			if err != nil {
				return err
			}
			api, logger, err := ctx.publishingAPI()
			if err != nil {
				return err
			}
			resp, err := api.GetCategoryByID(cmd.Context(), id)
			if err != nil {
				return describeLookupError("category", args[0], err)
			}
			category, err := publishingapi.NewCategoryAssembler(logger).ToEntityFromResponse(resp)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, category)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCategoryTable([]publishing.Category{category}))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newCategoryAddCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("--name is required")
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			st.AddCategory(cmd.Context(), publishing.NewCategory(publishing.CategoryParams{Name: name}))
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			categories := st.Categories()
			if len(categories) == 0 {
				return errors.New("category was not stored")
			}
			created := categories[len(categories)-1]
			if ctx.jsonOutput() {
				return writeJSON(cmd, created)
			}
			printOK(cmd, ctx, "created", fmt.Sprintf("category %s %q", created.ID, created.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	return cmd
}

func newCategoryUpdateCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("--name is required")
			}
			st, current, err := loadCategory(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			current.Name = name
			st.UpdateCategory(cmd.Context(), current)
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			updated, _ := st.CategoryByID(current.ID)
			if ctx.jsonOutput() {
				return writeJSON(cmd, updated)
			}
			printOK(cmd, ctx, "updated", fmt.Sprintf("category %s %q", updated.ID, updated.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New category name")
	return cmd
}

func newCategoryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, current, err := loadCategory(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			st.DeleteCategory(cmd.Context(), current)
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"deleted": current, "remaining": st.CategoriesCount()})
			}
			printOK(cmd, ctx, "deleted", fmt.Sprintf("category %s %q", current.ID, current.Name))
			return nil
		},
	}
}

// loadCategory fetches the category list into a fresh store and returns the
// entry matching ref.
func loadCategory(cmd *cobra.Command, ctx *commandContext, ref string) (*store.Store, publishing.Category, error) {
	if _, err := parseIDArg("category", ref); err != nil {
		return nil, publishing.Category{}, err
	}
	st, err := ctx.openStore()
	if err != nil {
		return nil, publishing.Category{}, err
	}
	st.FetchCategories(cmd.Context())
	st.Wait()
	if err := storeFailure(cmd, st); err != nil {
		return nil, publishing.Category{}, err
	}
	category, ok := st.CategoryByRef(ref)
	if !ok {
		return nil, publishing.Category{}, fmt.Errorf("category %s not found", strings.TrimSpace(ref))
	}
	return st, category, nil
}

func renderCategoryTable(categories []publishing.Category) string {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.ID.String(), c.Name})
	}
	return renderTable([]string{"id", "name"}, rows, []columnAlignment{alignRight, alignLeft})
}

func parseIDArg(kind, raw string) (publishing.ID, error) {
	id, ok := publishing.ParseID(raw)
	if !ok {
		return 0, fmt.Errorf("invalid %s id %q: expected a positive integer", kind, raw)
	}
	return id, nil
}

func describeLookupError(kind, ref string, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return fmt.Errorf("%s %s not found", kind, strings.TrimSpace(ref))
	}
	return err
}
