package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mauv0809/foosball-elo/internal/auth"
	"github.com/spf13/cobra"
)

var (
	leaderboardLimit int
	gamesLimit       int
	date             string
	dryRun           bool
	subject          string
	staff            bool
	tokenTTL         time.Duration
)

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of players to show, 0 for everyone")
	gamesCmd.Flags().IntVar(&gamesLimit, "limit", 20, "Number of games to show, 0 for all")
	ratingCmd.Flags().StringVar(&date, "date", "", "Show the rating in force before this date (YYYY-MM-DD)")
	updateRatingsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the update without committing it")
	issueTokenCmd.Flags().StringVar(&subject, "subject", "", "Who the token is issued to")
	issueTokenCmd.Flags().BoolVar(&staff, "staff", false, "Allow the token to trigger rating updates")
	issueTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "How long the token stays valid")
	issueTokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(ratingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(updateRatingsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(issueTokenCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "List players by current rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players?limit="+strconv.Itoa(leaderboardLimit), nil)
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the most recent games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/games?limit="+strconv.Itoa(gamesLimit), nil)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players", map[string]string{"name": args[0]})
	},
}

var ratingCmd = &cobra.Command{
	Use:   "rating <playerID>",
	Short: "Show a player's rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/players/" + url.PathEscape(args[0]) + "/rating"
		if date != "" {
			endpoint += "?date=" + url.QueryEscape(date)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <playerID>",
	Short: "Show a player's statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0])+"/stats", nil)
	},
}

var updateRatingsCmd = &cobra.Command{
	Use:   "update-ratings",
	Short: "Run a batch rating update (requires a staff token)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/update-ratings?dry_run="+strconv.FormatBool(dryRun), nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Mint an API token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "No .env file found, reading JWT_SECRET from the environment")
		}
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		signed, err := auth.NewIssuer(secret).Issue(subject, staff, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(signed)
		return nil
	},
}

func performRequest(method, endpoint string, payload any) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
