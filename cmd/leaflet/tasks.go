package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leaflet/internal/model"
	"leaflet/internal/syncclient"
)

var (
	listSearch   string
	listCategory string

	addCategory string
	addPriority string

	editCategory string
	editPriority string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := syncer.Filter(listSearch, listCategory)
		if len(tasks) == 0 {
			if listSearch != "" || (listCategory != "" && listCategory != syncclient.AllCategories) {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks found matching %q in %s\n", listSearch, categoryLabel(listCategory))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
			}
			return nil
		}

		states := map[string]syncclient.SyncState{}
		for _, e := range syncer.Entries() {
			states[e.Task.ID] = e.State
		}
		printTasks(cmd.OutOrStdout(), tasks, states)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := syncer.Add(cmd.Context(), strings.Join(args, " "), addCategory, model.Priority(addPriority))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", t.ID, t.Text)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Mark a task done or not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		t, err := syncer.Toggle(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", doneLabel(t.Completed), t.Text)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID [TEXT...]",
	Short: "Change the text, category or priority of a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}

		var patch model.TaskPatch
		if len(args) > 1 {
			text := strings.Join(args[1:], " ")
			patch.Text = &text
		}
		if cmd.Flags().Changed("category") {
			patch.Category = &editCategory
		}
		if cmd.Flags().Changed("priority") {
			p := model.Priority(editPriority)
			patch.Priority = &p
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to change: give new text, --category or --priority")
		}

		t, err := syncer.Edit(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q\n", t.ID, t.Text)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		if err := syncer.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts and categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := syncer.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total:      %d\n", st.Total)
		fmt.Fprintf(out, "Completed:  %d\n", st.Completed)
		fmt.Fprintf(out, "Remaining:  %d\n", st.Remaining)
		if st.Pending > 0 || st.Conflicts > 0 {
			fmt.Fprintf(out, "Unsynced:   %d pending, %d in conflict\n", st.Pending, st.Conflicts)
		}
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(syncer.Categories()[1:], ", "))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "only tasks whose text contains this")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only tasks in this category")

	addCmd.Flags().StringVarP(&addCategory, "category", "c", model.DefaultCategory, "task category")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(model.DefaultPriority), "low, medium or high")

	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority")

	rootCmd.AddCommand(listCmd, addCmd, toggleCmd, editCmd, rmCmd, statsCmd)
}

// resolveID accepts a full id or an unambiguous prefix of one.
func resolveID(arg string) (string, error) {
	var matches []string
	for _, e := range syncer.Entries() {
		if e.Task.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(e.Task.ID, arg) {
			matches = append(matches, e.Task.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task with id %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous: %s", arg, strings.Join(matches, ", "))
	}
}

func printTasks(w io.Writer, tasks []model.Task, states map[string]syncclient.SyncState) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTEXT\tCATEGORY\tPRIORITY\tSYNC")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\t%s\t%s\n", t.ID, done, t.Text, t.Category, t.Priority, states[t.ID])
	}
	_ = tw.Flush()
}

func categoryLabel(c string) string {
	if c == "" || c == syncclient.AllCategories {
		return "all categories"
	}
	return c
}

func doneLabel(completed bool) string {
	if completed {
		return "Done:"
	}
	return "Reopened:"
}
