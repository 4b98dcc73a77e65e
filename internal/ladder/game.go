package ladder

// Winner returns 1 or 2 for the team that scored ten, and 0 when the score
// is not decisive under IsDecisive.
func (g Game) Winner() int {
	if !IsDecisive(g.Team1Score, g.Team2Score) {
		return 0
	}
	if g.Team1Score == 10 {
		return 1
	}
	return 2
}

// Slots returns the four slots in the order team 1 defense, team 1 attack,
// team 2 defense, team 2 attack.
func (g Game) Slots() [4]PlayerRef {
	return [4]PlayerRef{g.Team1Defense, g.Team1Attack, g.Team2Defense, g.Team2Attack}
}

// Team returns the two slots of team 1 or team 2.
func (g Game) Team(team int) [2]PlayerRef {
	if team == 1 {
		return [2]PlayerRef{g.Team1Defense, g.Team1Attack}
	}
	return [2]PlayerRef{g.Team2Defense, g.Team2Attack}
}

// Score returns the goals scored by team 1 or team 2.
func (g Game) Score(team int) int {
	if team == 1 {
		return g.Team1Score
	}
	return g.Team2Score
}

// SideOf returns the team the player played for, or 0 if they did not play.
func (g Game) SideOf(playerID string) int {
	switch playerID {
	case g.Team1Defense.ID, g.Team1Attack.ID:
		return 1
	case g.Team2Defense.ID, g.Team2Attack.ID:
		return 2
	}
	return 0
}

// Opponent returns the other team number.
func Opponent(team int) int {
	return 3 - team
}
