package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/foosball-elo/internal/config"
	"github.com/mauv0809/foosball-elo/internal/database"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/notifier/slack"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/pubsub"
)

const (
	numDays        = 120
	maxGamesPerDay = 6
	soloChance     = 0.05
)

var playerNames = []string{
	"Morten", "Anna", "Jonas", "Sofie", "Emil", "Freja", "Oliver", "Ida",
	"Lucas", "Clara", "Victor", "Alma", "Noah", "Ella",
}

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName = "seed.db"
	if v, ok := os.LookupEnv("DB_NAME"); ok {
		dbName = v
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

func main() {
	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := ladder.New(db)
	metricsSvc := metrics.NewService()
	ratingCfg := config.DefaultRating()
	proc := processor.New(store, slack.NewNotifier("", "", metricsSvc), metricsSvc, pubsub.New(""), ratingCfg)

	start := time.Now().AddDate(0, 0, -numDays)
	players := make([]ladder.Player, 0, len(playerNames))
	for _, name := range playerNames {
		p, err := store.AddPlayer(ctx, name, ratingCfg.Initial, start)
		if err != nil {
			log.Fatalf("Failed to register player %s: %s", name, err)
		}
		players = append(players, *p)
	}
	log.Info("Registered demo players", "count", len(players))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	startTime := time.Now()
	totalGames := 0

	for d := 1; d <= numDays; d++ {
		day := start.AddDate(0, 0, d)
		proc.SetClock(func() time.Time { return day })

		games := rng.Intn(maxGamesPerDay + 1)
		for i := 0; i < games; i++ {
			if _, err := proc.SubmitGame(ctx, randomGame(rng, players, day), false); err != nil {
				log.Fatalf("Failed to submit game: %s", err)
			}
			totalGames++
		}

		summary, err := proc.RunBatchUpdate(ctx, false)
		if err != nil {
			log.Fatalf("Batch update for %s failed: %s", day.Format(time.DateOnly), err)
		}
		log.Debug("Replayed day", "date", day.Format(time.DateOnly), "games", summary.GamesConsumed)
	}

	log.Info("Successfully seeded ladder.", "days", numDays, "games", totalGames, "duration", time.Since(startTime))
}

// randomGame draws four distinct players, or occasionally lets one player hold
// both slots of a team.
func randomGame(rng *rand.Rand, players []ladder.Player, day time.Time) ladder.Game {
	perm := rng.Perm(len(players))
	slots := [4]ladder.PlayerRef{}
	for i := range slots {
		slots[i] = ladder.PlayerRef{ID: players[perm[i]].ID}
	}
	if rng.Float64() < soloChance {
		slots[1] = slots[0]
	}

	winner, loser := 10, rng.Intn(10)
	game := ladder.Game{
		Team1Defense: slots[0],
		Team1Attack:  slots[1],
		Team2Defense: slots[2],
		Team2Attack:  slots[3],
		Team1Score:   winner,
		Team2Score:   loser,
		DatePlayed:   day,
	}
	if rng.Intn(2) == 0 {
		game.Team1Score, game.Team2Score = loser, winner
	}
	return game
}
