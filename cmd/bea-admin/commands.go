package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"bea-chatbot/internal/domain"
	"bea-chatbot/internal/question"
)

const defaultServer = "http://localhost:8080"

var headerCellStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:   "bea-admin",
		Short: "Curate the BEA chatbot answers",
		Long: `bea-admin manages the questions and answers served to the BEA chat widget.

Examples:
  bea-admin list
  bea-admin add "Quels sont vos horaires ?" "Du dimanche au jeudi, 8h30-16h30."
  bea-admin update 12 "Quels sont vos horaires ?" "8h30-16h00"
  bea-admin delete 12
  bea-admin ask "horaires ?"`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("BEA_QUESTION_SERVICE_URL")
	if defaultURL == "" {
		defaultURL = defaultServer
	}
	root.PersistentFlags().StringVar(&server, "server", defaultURL, "QuestionService base URL (env BEA_QUESTION_SERVICE_URL)")

	client := func() *question.Client { return question.NewClient(server) }

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := client().List(cmd.Context())
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No questions stored.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(questions))
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Store a question with its answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := client().Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created question %d\n", q.ID)
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <question> <answer>",
		Short: "Rewrite a stored question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := client().Update(cmd.Context(), id, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated question %d\n", q.ID)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored question",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := client().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted question %d\n", id)
			return nil
		},
	}

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question the way the widget does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := client().Ask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.AnswerText)
			return nil
		},
	}

	root.AddCommand(listCmd, addCmd, updateCmd, deleteCmd, askCmd)
	return root
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid question id %q", s)
	}
	return id, nil
}

func renderTable(questions []*domain.Question) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "QUESTION", "ANSWER").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
	for _, q := range questions {
		t.Row(strconv.FormatInt(q.ID, 10), q.QuestionText, q.AnswerText)
	}
	return t.Render()
}
