package game

// PlayerNumber is the 1-based jersey number of a player.
type PlayerNumber int

// NoGoalkeeper marks a team without a designated goalkeeper.
const NoGoalkeeper PlayerNumber = 0

// Player is the per-player part of the match state.
type Player struct {
	Penalty      Penalty `json:"penalty"`
	PenaltyTimer Timer   `json:"penaltyTimer"`
}

// Team is the per-team part of the match state.
type Team struct {
	Players       []Player     `json:"players"`
	Goalkeeper    PlayerNumber `json:"goalkeeper"`
	TimeoutBudget int          `json:"timeoutBudget"`
	Score         int          `json:"score"`
	PenaltyShot   int          `json:"penaltyShot"`
}

// Player returns the player with the given number, or nil if the team has no
// such player.
func (t *Team) Player(n PlayerNumber) *Player {
	if n < 1 || int(n) > len(t.Players) {
		return nil
	}

	return &t.Players[n-1]
}

// Teams holds both teams, indexed by Side. Both slots always exist.
type Teams [2]Team

// ForEach visits the home team, then the away team.
func (t *Teams) ForEach(f func(s Side, team *Team)) {
	f(Home, &t[Home])
	f(Away, &t[Away])
}

// ForEachPlayer visits every player of both teams.
func (t *Teams) ForEachPlayer(f func(s Side, n PlayerNumber, p *Player)) {
	t.ForEach(func(s Side, team *Team) {
		for i := range team.Players {
			f(s, PlayerNumber(i+1), &team.Players[i])
		}
	})
}
