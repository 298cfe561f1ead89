package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"courserag/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Opens an interactive terminal chat. Transcripts found in the configured
docs folder are indexed at startup; follow-up questions keep their
conversational context for the life of the chat.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	if err := a.ingestDocs(); err != nil {
		return err
	}

	model := tui.New(a.service, a.sessions)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
