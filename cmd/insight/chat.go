package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/insightlabs/insight/internal/adapters/id"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
	"github.com/spf13/cobra"
)

// chatCmd starts an interactive terminal chat against the local stack
func chatCmd() *cobra.Command {
	var userID string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Insight from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := buildStack(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			fmt.Println("Insight - ask about revenue, customers, churn and targets.")
			fmt.Println("Type 'exit' to quit.")
			fmt.Println()

			ids := id.New()
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				// One session per run, titled from the first message.
				if sessionID == "" {
					session := models.NewSession(ids.SessionID(), userID, line)
					if err := s.sessions.Create(ctx, session); err != nil {
						return err
					}
					sessionID = session.ID
				}

				err := s.service.Chat(ctx, ports.ChatRequest{
					UserID:    userID,
					SessionID: sessionID,
					Message:   line,
				}, ports.EventSinkFunc(printEvent))
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
				}
				fmt.Println()
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default_user", "user identity for memory and sessions")
	cmd.Flags().StringVar(&sessionID, "session", "", "continue an existing session")
	return cmd
}

func printEvent(event models.TurnEvent) error {
	switch event.Type {
	case models.EventReasoning:
		data := event.Data.(models.ReasoningData)
		switch data.Status {
		case models.TraceStarted:
			fmt.Printf("  [%s] %s\n", data.ToolName, data.Input)
		case models.TraceCompleted:
			fmt.Printf("  [%s] %s\n", data.ToolName, data.Summary)
		case models.TraceError:
			fmt.Printf("  [%s] failed: %s\n", data.ToolName, data.Error)
		}
	case models.EventContent:
		fmt.Println(event.Data.(models.ContentData).Text)
	case models.EventMemory:
		data := event.Data.(models.MemoryData)
		fmt.Printf("  (saved %s: %s)\n", data.MemoryType, data.Key)
	case models.EventDone:
		data := event.Data.(models.DoneData)
		if len(data.SuggestedFollowups) > 0 {
			fmt.Println("\nSuggested follow-ups:")
			for _, s := range data.SuggestedFollowups {
				fmt.Printf("  - %s\n", s)
			}
		}
	case models.EventError:
		fmt.Printf("error: %s\n", event.Data.(models.ErrorData).Message)
	}
	return nil
}
