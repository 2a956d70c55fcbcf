package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/polyglotkit/polyglot/assistant"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := buildAssistant(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(bannerStyle.Render("polyglot"))
		fmt.Println(noticeStyle.Render("Type your question, or \"exit\" to quit."))

		session := assistant.NewSessionStore().Create()
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("you> "))
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				break
			}

			answer, err := a.Chat(cmd.Context(), session, input)
			if err != nil {
				fmt.Println(errorStyle.Render("error: ") + err.Error())
				continue
			}
			fmt.Println(answerStyle.Render(answer))
		}
		return scanner.Err()
	},
}
