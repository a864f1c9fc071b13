package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"todo-remote/model"
)

func themeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [show|toggle|dark|light]",
		Short:     "Show or change the saved light/dark theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"show", "toggle", "dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := s.themePreference()
			if err != nil {
				return err
			}

			action := "show"
			if len(args) == 1 {
				action = args[0]
			}
			switch action {
			case "show":
			case "toggle":
				pref.Toggle()
			case "dark":
				pref.Set(model.ThemeDark)
			case "light":
				pref.Set(model.ThemeLight)
			default:
				return fmt.Errorf("unknown theme action %q (want show, toggle, dark or light)", action)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pref.Theme())
			return nil
		},
	}
}
