package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"todo-remote/app"
	"todo-remote/model"
)

func listCmd(s *session) *cobra.Command {
	var (
		format string
		filter string
		search string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			c := s.controller()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if err := c.SetFilter(f); err != nil {
				return err
			}
			c.SetSearch(search)
			return writeTasks(cmd.OutOrStdout(), format, c.VisibleTasks())
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, completed or incompleted")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only tasks containing this text")
	return cmd
}

func writeTasks(w io.Writer, format string, tasks []model.Task) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDONE\tTASK")
		for _, t := range tasks {
			done := " "
			if t.Completed {
				done = "x"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, done, strings.ReplaceAll(t.Text, "\n", " "))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func addCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("task text is empty")
			}
			c := s.controller()
			if err := c.Create(cmd.Context(), text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", text)
			return nil
		},
	}
}

func editCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("task text is empty")
			}

			c := s.controller()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if !c.OpenEdit(id) {
				return fmt.Errorf("no task with id %d", id)
			}
			c.SetDraft(text)
			if err := c.Submit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d\n", id)
			return nil
		},
	}
}

func doneCmd(s *session) *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := s.controller()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			task, ok := c.Task(id)
			if !ok {
				return fmt.Errorf("no task with id %d", id)
			}

			want := !reopen
			if task.Completed == want {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d already %s\n", id, stateWord(want))
				return nil
			}
			if err := c.ToggleCompletion(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d %s\n", id, stateWord(want))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the task open again")
	return cmd
}

func stateWord(completed bool) string {
	if completed {
		return "completed"
	}
	return "open"
}

func rmCmd(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := s.controller()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if _, ok := c.Task(id); !ok {
				return fmt.Errorf("no task with id %d", id)
			}

			accepted := false
			confirm := app.ConfirmFunc(func(prompt string) bool {
				accepted = yes || promptYes(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
				return accepted
			})
			if err := c.Delete(cmd.Context(), id, confirm); err != nil {
				return err
			}
			if !accepted {
				fmt.Fprintln(cmd.OutOrStdout(), "Not deleted")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptYes asks on w and reads one line from r. Anything but y/yes is no.
func promptYes(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
