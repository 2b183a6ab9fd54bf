package game_test

import (
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/timer"
)

type scoreAction struct {
	Side game.Side `json:"side"`
}

func (a scoreAction) IsLegal(c *game.Context) bool {
	return c.Game.State == game.Playing
}

func (a scoreAction) Execute(c *game.Context) {
	c.Game.Teams[a.Side].Score++
}

func init() {
	game.RegisterAction("test.score", scoreAction{})
}

func testParams() *game.Params {
	return &game.Params{
		Competition: game.Competition{
			League:                  game.HumanoidKid,
			HalfDuration:            10 * time.Minute,
			TimeoutDuration:         2 * time.Minute,
			RefereeTimeoutDuration:  5 * time.Minute,
			PenaltyShotDuration:     time.Minute,
			PenaltyShots:            5,
			SuddenDeathPenaltyShots: 5,
			TimeoutsPerTeam:         1,
			PlayersPerTeam:          4,
			RosterSize:              6,
		},
		Game: game.MatchParams{
			KickOffSide: game.Away,
			SideMapping: game.HomeDefendsRightGoal,
		},
	}
}

var _ = Describe("Game", func() {
	var g *game.Game

	BeforeEach(func() {
		g = game.NewGame(testParams())
	})

	It("should start in the initial state of the first half", func() {
		Expect(g.Phase).To(Equal(game.FirstHalf))
		Expect(g.State).To(Equal(game.Initial))
		Expect(g.SecState.State).To(Equal(game.SecNormal))
		Expect(g.KickingSide).To(Equal(game.SomeSide(game.Away)))
		Expect(g.Sides).To(Equal(game.HomeDefendsRightGoal))
		Expect(g.PrimaryTimer.Remaining()).To(Equal(10 * time.Minute))
		Expect(g.PrimaryTimer.RunCondition()).To(Equal(timer.Playing))
		Expect(g.SecondaryTimer.IsStarted()).To(BeFalse())
	})

	It("should set up both teams", func() {
		for _, s := range []game.Side{game.Home, game.Away} {
			team := g.Teams[s]
			Expect(team.TimeoutBudget).To(Equal(1))
			Expect(team.Players).To(HaveLen(6))
			Expect(team.Goalkeeper).To(Equal(game.NoGoalkeeper))
			Expect(team.Player(4).Penalty).To(Equal(game.NoPenalty))
			Expect(team.Player(5).Penalty).To(Equal(game.Substitute))
			Expect(team.Player(0)).To(BeNil())
			Expect(team.Player(7)).To(BeNil())
		}
	})

	It("should only run playing timers while playing", func() {
		Expect(g.Satisfies(timer.Always)).To(BeTrue())
		Expect(g.Satisfies(timer.Playing)).To(BeFalse())

		g.State = game.Playing
		Expect(g.Satisfies(timer.Playing)).To(BeTrue())
	})

	It("should list every timer", func() {
		timers := g.Timers()

		Expect(timers).To(HaveLen(3 + 12))
		Expect(timers[0]).To(BeIdenticalTo(&g.PrimaryTimer))
		Expect(timers[3]).
			To(BeIdenticalTo(&g.Teams[game.Home].Players[0].PenaltyTimer))
		Expect(timers[9]).
			To(BeIdenticalTo(&g.Teams[game.Away].Players[0].PenaltyTimer))
	})

	It("should clone deeply", func() {
		c := g.Clone()
		c.Teams[game.Home].Players[0].Penalty = game.PickedUp
		c.Teams[game.Away].Score = 2

		Expect(g.Teams[game.Home].Players[0].Penalty).To(Equal(game.NoPenalty))
		Expect(g.Teams[game.Away].Score).To(Equal(0))
	})

	It("should round trip through JSON with tagged expire actions", func() {
		g.SecondaryTimer = timer.Started(
			time.Minute, timer.Always,
			timer.Expire(game.VAction{Action: scoreAction{Side: game.Away}}))

		data, err := json.Marshal(g)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"type":"test.score"`))

		var decoded game.Game
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded.SecondaryTimer.BehaviorAtZero().Actions()).
			To(Equal([]game.VAction{{Action: scoreAction{Side: game.Away}}}))
		Expect(decoded.Teams[game.Away].Players).To(HaveLen(6))
	})
})

var _ = Describe("Action registry", func() {
	It("should name registered actions", func() {
		Expect(game.ActionKind(scoreAction{})).To(Equal("test.score"))
		Expect(game.ActionKinds()).To(ContainElement("test.score"))
	})

	It("should name a missing action without panicking", func() {
		Expect(game.ActionKind(nil)).To(Equal("<nil>"))
	})

	It("should parse tagged actions", func() {
		a, err := game.ParseAction(
			[]byte(`{"type":"test.score","args":{"side":"away"}}`))

		Expect(err).ToNot(HaveOccurred())
		Expect(a).To(Equal(scoreAction{Side: game.Away}))
	})

	It("should reject unknown kinds", func() {
		_, err := game.ParseAction([]byte(`{"type":"teleport"}`))

		Expect(errors.Is(err, game.ErrUnknownAction)).To(BeTrue())
	})

	It("should refuse duplicate registrations", func() {
		Expect(func() { game.RegisterAction("test.score", scoreAction{}) }).
			To(Panic())
	})

	It("should collect enqueued actions", func() {
		c := game.NewContext(game.NewGame(testParams()), testParams())
		c.Enqueue(game.VAction{Action: scoreAction{Side: game.Home}})

		Expect(c.TakePending()).
			To(Equal([]game.Action{scoreAction{Side: game.Home}}))
		Expect(c.TakePending()).To(BeEmpty())
	})
})
