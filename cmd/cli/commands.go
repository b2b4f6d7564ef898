package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(autoAssignCmd)
	rootCmd.AddCommand(startMatchCmd)
	rootCmd.AddCommand(finishMatchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(reloadCmd)

	addPlayerCmd.Flags().StringVar(&playerLevel, "level", "intermediate", "Skill level (new, beginner, intermediate, advanced, pro)")
	addPlayerCmd.Flags().IntVar(&playerBattlePower, "battle-power", 0, "Battle power rating")
	finishMatchCmd.Flags().IntVar(&scoreA, "score-a", 0, "Score for team A")
	finishMatchCmd.Flags().IntVar(&scoreB, "score-b", 0, "Score for team B")
}

var (
	playerLevel       string
	playerBattlePower int
	scoreA            int
	scoreB            int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Dump the full session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/state")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the session roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player <name>",
	Short: "Add a player to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/players/add", map[string]any{
			"name":         args[0],
			"level":        playerLevel,
			"battle_power": playerBattlePower,
		})
	},
}

var autoAssignCmd = &cobra.Command{
	Use:   "auto-assign",
	Short: "Fill open courts with balanced foursomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/auto-assign", nil)
	},
}

var startMatchCmd = &cobra.Command{
	Use:   "start <court-id>",
	Short: "Start the match on a court",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courtID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid court id %q: %w", args[0], err)
		}
		return performPostRequest("/start-match", map[string]any{"court_id": courtID})
	},
}

var finishMatchCmd = &cobra.Command{
	Use:   "finish <court-id>",
	Short: "Finish the match on a court and record the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courtID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid court id %q: %w", args[0], err)
		}
		return performPostRequest("/finish-match", map[string]any{
			"court_id": courtID,
			"score_a":  scoreA,
			"score_b":  scoreB,
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the recorded match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/history")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload session state from the database snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/reload", nil)
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
