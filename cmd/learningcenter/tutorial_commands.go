package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"learningcenter/internal/publishing"
	"learningcenter/internal/publishingapi"
	"learningcenter/internal/store"
)

func newTutorialsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tutorials",
		Aliases: []string{"tutorial", "tut"},
		Short:   "List and manage tutorials",
	}
	cmd.AddCommand(newTutorialListCommand(ctx))
	cmd.AddCommand(newTutorialShowCommand(ctx))
	cmd.AddCommand(newTutorialAddCommand(ctx))
	cmd.AddCommand(newTutorialUpdateCommand(ctx))
	cmd.AddCommand(newTutorialDeleteCommand(ctx))
	return cmd
}

func newTutorialListCommand(ctx *commandContext) *cobra.Command {
	var categoryRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tutorials with their category names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter publishing.ID
			if strings.TrimSpace(categoryRef) != "" {
				id, err := parseIDArg("category", categoryRef)
				if err != nil {
					return err
				}
				filter = id
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			st.FetchCategories(cmd.Context())
			st.FetchTutorials(cmd.Context())
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}

			tutorials := st.TutorialsWithCategories()
			if filter.Persisted() {
				filtered := tutorials[:0]
				for _, t := range tutorials {
					if t.CategoryID == filter {
						filtered = append(filtered, t)
					}
				}
				tutorials = filtered
			}
			if ctx.jsonOutput() {
				return writeJSONList(cmd, "tutorials", tutorials)
			}
			if len(tutorials) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tutorials found")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTutorialTable(tutorials))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d tutorials\n", len(tutorials), st.TutorialsCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&categoryRef, "category-id", "", "Only show tutorials in this category")
	return cmd
}

func newTutorialShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one tutorial straight from the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("tutorial", args[0])
			if err != nil {
				return err
			}
			api, logger, err := ctx.publishingAPI()
			if err != nil {
				return err
			}
			resp, err := api.GetTutorialByID(cmd.Context(), id)
			if err != nil {
				return describeLookupError("tutorial", args[0], err)
			}
			tutorial, err := publishingapi.NewTutorialAssembler(logger).ToEntityFromResponse(resp)
			if err != nil {
				return err
			}
			if tutorial.Category == nil && tutorial.CategoryID.Persisted() {
				if resp, err := api.GetCategoryByID(cmd.Context(), tutorial.CategoryID); err == nil {
					if category, err := publishingapi.NewCategoryAssembler(logger).ToEntityFromResponse(resp); err == nil {
						tutorial = tutorial.WithCategory(&category)
					}
				}
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, tutorial)
			}
			out := cmd.OutOrStdout()
			for _, line := range renderSectionHeader(tutorial.Title, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "ID:       %s\n", tutorial.ID)
			fmt.Fprintf(out, "Category: %s\n", categoryLabel(tutorial))
			fmt.Fprintf(out, "Summary:  %s\n", tutorial.Summary)
			return nil
		},
	}
}

func newTutorialAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		summary    string
		categoryID string
		titleCase  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a tutorial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := publishing.TutorialParams{
				Title:   normalizeTitle(title, titleCase),
				Summary: strings.TrimSpace(summary),
			}
			if params.Title == "" {
				return errors.New("--title is required")
			}
			if strings.TrimSpace(categoryID) != "" {
				id, err := parseIDArg("category", categoryID)
				if err != nil {
					return err
				}
				params.CategoryID = id
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			st.AddTutorial(cmd.Context(), publishing.NewTutorial(params))
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			tutorials := st.Tutorials()
			if len(tutorials) == 0 {
				return errors.New("tutorial was not stored")
			}
			created := tutorials[len(tutorials)-1]
			if ctx.jsonOutput() {
				return writeJSON(cmd, created)
			}
			printOK(cmd, ctx, "created", fmt.Sprintf("tutorial %s %q", created.ID, created.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Tutorial title")
	cmd.Flags().StringVar(&summary, "summary", "", "Short summary")
	cmd.Flags().StringVar(&categoryID, "category-id", "", "Category the tutorial belongs to")
	cmd.Flags().BoolVar(&titleCase, "title-case", false, "Convert the title to title case")
	return cmd
}

func newTutorialUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		summary    string
		categoryID string
		titleCase  bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a tutorial's title, summary, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("summary") && !flags.Changed("category-id") {
				return errors.New("nothing to update: pass --title, --summary, or --category-id")
			}
			st, current, err := loadTutorial(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if flags.Changed("title") {
				current.Title = normalizeTitle(title, titleCase)
				if current.Title == "" {
					return errors.New("--title cannot be empty")
				}
			}
			if flags.Changed("summary") {
				current.Summary = strings.TrimSpace(summary)
			}
			if flags.Changed("category-id") {
				current.CategoryID = 0
				if strings.TrimSpace(categoryID) != "" {
					id, err := parseIDArg("category", categoryID)
					if err != nil {
						return err
					}
					current.CategoryID = id
				}
			}

			st.UpdateTutorial(cmd.Context(), current)
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			updated, _ := st.TutorialByID(current.ID)
			if ctx.jsonOutput() {
				return writeJSON(cmd, updated)
			}
			printOK(cmd, ctx, "updated", fmt.Sprintf("tutorial %s %q", updated.ID, updated.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&summary, "summary", "", "New summary")
	cmd.Flags().StringVar(&categoryID, "category-id", "", "New category id (empty clears it)")
	cmd.Flags().BoolVar(&titleCase, "title-case", false, "Convert the title to title case")
	return cmd
}

func newTutorialDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, current, err := loadTutorial(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			st.DeleteTutorial(cmd.Context(), current)
			st.Wait()
			if err := storeFailure(cmd, st); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"deleted": current, "remaining": st.TutorialsCount()})
			}
			printOK(cmd, ctx, "deleted", fmt.Sprintf("tutorial %s %q", current.ID, current.Title))
			return nil
		},
	}
}

func loadTutorial(cmd *cobra.Command, ctx *commandContext, ref string) (*store.Store, publishing.Tutorial, error) {
	if _, err := parseIDArg("tutorial", ref); err != nil {
		return nil, publishing.Tutorial{}, err
	}
	st, err := ctx.openStore()
	if err != nil {
		return nil, publishing.Tutorial{}, err
	}
	st.FetchTutorials(cmd.Context())
	st.Wait()
	if err := storeFailure(cmd, st); err != nil {
		return nil, publishing.Tutorial{}, err
	}
	tutorial, ok := st.TutorialByRef(ref)
	if !ok {
		return nil, publishing.Tutorial{}, fmt.Errorf("tutorial %s not found", strings.TrimSpace(ref))
	}
	return st, tutorial, nil
}

func normalizeTitle(title string, titleCase bool) string {
	title = strings.Join(strings.Fields(title), " ")
	if titleCase {
		title = cases.Title(language.English).String(title)
	}
	return title
}

func categoryLabel(t publishing.Tutorial) string {
	switch {
	case t.Category != nil && t.Category.Name != "":
		return t.Category.Name
	case t.CategoryID.Persisted():
		return "#" + t.CategoryID.String()
	default:
		return "-"
	}
}

func renderTutorialTable(tutorials []publishing.Tutorial) string {
	rows := make([][]string, 0, len(tutorials))
	for _, t := range tutorials {
		rows = append(rows, []string{t.ID.String(), t.Title, categoryLabel(t), t.Summary})
	}
	return renderTable(
		[]string{"id", "title", "category", "summary"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}
