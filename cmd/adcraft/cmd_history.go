package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse or clear recent generations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the full copy of one generation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved generation",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	app, done, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	out := cmd.OutOrStdout()
	entries := app.History.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No generations yet. Run `adcraft generate` to create one."))
		return nil
	}
	fmt.Fprintln(out, titleStyle.Render("Recent Generations"))
	for i, e := range entries {
		renderHistoryLine(out, i, e)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	app, done, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	entry, ok := app.History.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", appErrors.ErrHistoryEntryNotFound, args[0])
	}
	renderResult(cmd.OutOrStdout(), entry)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	app, done, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	n := app.History.Len()
	if err := app.Form.ClearHistory(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d generations.\n", n)
	return nil
}
