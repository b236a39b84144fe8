package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewGamesCommand creates the games command and its subcommands.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List saved selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := rootOpts.app.SavedSelections.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(rootOpts, cmd.OutOrStdout(), games, func(w io.Writer) {
				if len(games) == 0 {
					fmt.Fprintln(w, "No saved games")
					return
				}
				for _, game := range games {
					fmt.Fprintf(w, "%s  %s  score %d  %s\n",
						game.ID, game.CreatedAt.Format("2006-01-02 15:04"), game.Score, formatNumbers(game.Numbers))
				}
			})
		},
	}

	cmd.AddCommand(newGamesSaveCommand(rootOpts))
	cmd.AddCommand(newGamesDeleteCommand(rootOpts))
	return cmd
}

func newGamesSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		reasoning string
		score     int
		tags      []string
	)

	cmd := &cobra.Command{
		Use:   "save <numbers...>",
		Short: "Save a selection of 15 to 19 numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection := models.ParseSelection(strings.Join(args, " "))
			saved, err := rootOpts.app.SavedSelections.Save(cmd.Context(), services.SaveSelectionRequest{
				Numbers:   selection,
				Reasoning: reasoning,
				Score:     score,
				Tags:      tags,
			})
			if err != nil {
				return err
			}
			return writeOutput(rootOpts, cmd.OutOrStdout(), saved, func(w io.Writer) {
				fmt.Fprintf(w, "Saved %s: %s\n", saved.ID, formatNumbers(saved.Numbers))
			})
		},
	}

	cmd.Flags().StringVar(&reasoning, "reasoning", "", "note stored with the game")
	cmd.Flags().IntVar(&score, "score", 0, "score between 0 and 100")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")
	return cmd
}

func newGamesDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid game id %q: %w", args[0], err)
			}
			if err := rootOpts.app.SavedSelections.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}
