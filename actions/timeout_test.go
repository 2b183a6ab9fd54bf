package actions

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/timer"
)

var (
	homeTimeout    = Timeout{Side: game.SomeSide(game.Home)}
	awayTimeout    = Timeout{Side: game.SomeSide(game.Away)}
	refereeTimeout = Timeout{Side: game.NoSide}
)

var _ = Describe("Timeout", func() {
	Context("legality", func() {
		var c *game.Context

		BeforeEach(func() {
			c = newContext(game.SPL)
		})

		It("should always allow a referee timeout", func() {
			for _, s := range []game.State{game.Initial, game.Playing, game.Timeout} {
				c.Game.State = s
				Expect(refereeTimeout.IsLegal(c)).To(BeTrue())
			}
		})

		It("should allow a team timeout with budget outside of play", func() {
			Expect(homeTimeout.IsLegal(c)).To(BeTrue())
		})

		It("should not allow a team timeout without budget", func() {
			c.Game.Teams[game.Home].TimeoutBudget = 0

			Expect(homeTimeout.IsLegal(c)).To(BeFalse())
			Expect(awayTimeout.IsLegal(c)).To(BeTrue())
		})

		It("should not allow a team timeout while playing", func() {
			c.Game.State = game.Playing

			Expect(homeTimeout.IsLegal(c)).To(BeFalse())
		})

		It("should allow the team with a running timeout to call again", func() {
			c.Game.Teams[game.Home].TimeoutBudget = 0
			c.Game.SecState = game.SecondaryState{
				State: game.SecTimeout, Side: game.Home,
			}

			Expect(homeTimeout.IsLegal(c)).To(BeTrue())
			Expect(awayTimeout.IsLegal(c)).To(BeFalse())
		})

		It("should not allow a team timeout during another overlap", func() {
			c.Game.SecState = game.SecondaryState{
				State: game.SecThrowIn, Side: game.Home,
			}

			Expect(homeTimeout.IsLegal(c)).To(BeFalse())
		})

		It("should not change the match", func() {
			before := c.Game.Clone()

			homeTimeout.IsLegal(c)
			refereeTimeout.IsLegal(c)

			Expect(c.Game).To(Equal(before))
		})
	})

	Context("with rewindable-clock rules", func() {
		var c *game.Context

		BeforeEach(func() {
			c = newContext(game.SPL)
			c.Game.State = game.Ready
			c.Game.SetPlay = game.KickOff
		})

		It("should use up one timeout of the team", func() {
			apply(c, homeTimeout)

			Expect(c.Game.Teams[game.Home].TimeoutBudget).To(Equal(0))
			Expect(c.Game.Teams[game.Away].TimeoutBudget).To(Equal(1))
		})

		It("should not change any budget for a referee timeout", func() {
			apply(c, refereeTimeout)

			Expect(c.Game.Teams[game.Home].TimeoutBudget).To(Equal(1))
			Expect(c.Game.Teams[game.Away].TimeoutBudget).To(Equal(1))
		})

		It("should enter the timeout state", func() {
			apply(c, homeTimeout)

			Expect(c.Game.State).To(Equal(game.Timeout))
			Expect(c.Game.SetPlay).To(Equal(game.NoSetPlay))
			Expect(c.Game.SecondaryTimer.Remaining()).To(Equal(5 * time.Minute))
			Expect(c.Game.SecondaryTimer.RunCondition()).To(Equal(timer.Always))
			Expect(c.Game.SecondaryTimer.BehaviorAtZero().IsExpire()).To(BeFalse())
		})

		It("should give the kick-off to the other team", func() {
			apply(c, homeTimeout)
			Expect(c.Game.KickingSide).To(Equal(game.SomeSide(game.Away)))

			apply(c, awayTimeout)
			Expect(c.Game.KickingSide).To(Equal(game.SomeSide(game.Home)))
		})

		It("should keep the kick-off for a referee timeout", func() {
			apply(c, refereeTimeout)

			Expect(c.Game.KickingSide).To(Equal(game.SomeSide(game.Home)))
		})

		It("should keep the kick-off in a penalty shoot-out", func() {
			c.Game.Phase = game.PenaltyShootout

			apply(c, homeTimeout)

			Expect(c.Game.KickingSide).To(Equal(game.SomeSide(game.Home)))
		})

		It("should add to a running timeout", func() {
			apply(c, homeTimeout)

			c.Game.SecondaryTimer = timer.Started(
				time.Minute, timer.Always, timer.Overflow[game.VAction]())
			apply(c, awayTimeout)

			Expect(c.Game.SecondaryTimer.Remaining()).
				To(Equal(time.Minute + 5*time.Minute))
		})

		It("should add to the half-time break", func() {
			c.Game.Phase = game.SecondHalf
			c.Game.State = game.Initial
			c.Game.SecondaryTimer = timer.Started(
				2*time.Minute, timer.Always, timer.Overflow[game.VAction]())

			apply(c, refereeTimeout)

			Expect(c.Game.SecondaryTimer.Remaining()).
				To(Equal(12 * time.Minute))
		})

		It("should replace a secondary clock of another kind", func() {
			c.Game.SecondaryTimer = timer.Started(
				30*time.Second, timer.Always, timer.Overflow[game.VAction]())

			apply(c, homeTimeout)

			Expect(c.Game.SecondaryTimer.Remaining()).To(Equal(5 * time.Minute))
		})

		It("should rewind the primary clock to the start of the stoppage", func() {
			c.Game.PrimaryTimer = timer.Started(
				4*time.Minute, timer.Playing, timer.Overflow[game.VAction]())
			c.Game.TimeoutRewindTimer = timer.Started(
				-12*time.Second, timer.Always, timer.Overflow[game.VAction]())

			apply(c, homeTimeout)

			Expect(c.Game.PrimaryTimer.Remaining()).
				To(Equal(4*time.Minute + 12*time.Second))
			Expect(c.Game.PrimaryTimer.RunCondition()).To(Equal(timer.Playing))
			Expect(c.Game.TimeoutRewindTimer.IsStarted()).To(BeFalse())
		})

		It("should not touch the primary clock in a penalty shoot-out", func() {
			c.Game.Phase = game.PenaltyShootout
			c.Game.PrimaryTimer = timer.Started(
				20*time.Second, timer.Playing, timer.Overflow[game.VAction]())
			c.Game.TimeoutRewindTimer = timer.Started(
				-5*time.Second, timer.Always, timer.Overflow[game.VAction]())

			apply(c, refereeTimeout)

			Expect(c.Game.PrimaryTimer.Remaining()).To(Equal(20 * time.Second))
			Expect(c.Game.TimeoutRewindTimer.IsStarted()).To(BeTrue())
		})

		It("should stop all penalty timers", func() {
			p := c.Game.Teams[game.Away].Player(1)
			p.Penalty = game.PickedUp
			p.PenaltyTimer = timer.Started(
				45*time.Second, timer.Playing, timer.Overflow[game.VAction]())

			apply(c, refereeTimeout)

			Expect(p.PenaltyTimer.IsStarted()).To(BeFalse())
			Expect(p.Penalty).To(Equal(game.PickedUp))
		})
	})

	Context("with overlap sub-state rules", func() {
		var c *game.Context

		BeforeEach(func() {
			c = newContext(game.HumanoidKid)
			c.Game.State = game.Set
		})

		It("should start a team timeout that resumes where it left off", func() {
			apply(c, awayTimeout)

			Expect(c.Game.State).To(Equal(game.Initial))
			Expect(c.Game.SecState).To(Equal(game.SecondaryState{
				State: game.SecTimeout, Side: game.Away,
			}))
			Expect(c.Game.Teams[game.Away].TimeoutBudget).To(Equal(0))
			Expect(c.Game.Teams[game.Home].TimeoutBudget).To(Equal(1))

			t := c.Game.SecondaryTimer
			Expect(t.Remaining()).To(Equal(5 * time.Minute))
			Expect(t.RunCondition()).To(Equal(timer.Always))
			Expect(t.BehaviorAtZero().IsExpire()).To(BeTrue())
			Expect(t.BehaviorAtZero().Actions()).To(Equal([]game.VAction{
				{Action: StateShifter{State: game.Set}},
			}))
		})

		It("should end the team timeout when called again", func() {
			apply(c, awayTimeout)
			apply(c, awayTimeout)

			Expect(c.Game.State).To(Equal(game.Set))
			Expect(c.Game.SecState.State).To(Equal(game.SecNormal))
			Expect(c.Game.SecondaryTimer.IsStarted()).To(BeFalse())
			Expect(c.Game.Teams[game.Away].TimeoutBudget).To(Equal(0))
		})

		It("should resume when the timeout is over", func() {
			apply(c, homeTimeout)

			actions := c.Game.SecondaryTimer.Tick(5*time.Minute, c.Game)
			Expect(actions).To(HaveLen(1))
			apply(c, actions[0].Action)

			Expect(c.Game.State).To(Equal(game.Set))
			Expect(c.Game.SecState.State).To(Equal(game.SecNormal))
		})

		It("should start a referee timeout that resumes in ready", func() {
			apply(c, refereeTimeout)

			Expect(c.Game.State).To(Equal(game.Initial))
			Expect(c.Game.SecState.State).To(Equal(game.SecTimeout))
			Expect(c.Game.SecondaryTimer.Remaining()).To(Equal(10 * time.Minute))
			Expect(c.Game.SecondaryTimer.BehaviorAtZero().Actions()).
				To(Equal([]game.VAction{{Action: StateShifter{State: game.Ready}}}))
			Expect(c.Game.Teams[game.Home].TimeoutBudget).To(Equal(1))
			Expect(c.Game.Teams[game.Away].TimeoutBudget).To(Equal(1))
		})

		It("should end any timeout on a second referee call", func() {
			apply(c, homeTimeout)
			apply(c, refereeTimeout)

			Expect(c.Game.State).To(Equal(game.Set))
			Expect(c.Game.SecState.State).To(Equal(game.SecNormal))
			Expect(c.Game.SecondaryTimer.IsStarted()).To(BeFalse())
		})

		It("should leave the penalty timers running", func() {
			p := c.Game.Teams[game.Home].Player(2)
			p.PenaltyTimer = timer.Started(
				45*time.Second, timer.Playing, timer.Overflow[game.VAction]())

			apply(c, homeTimeout)

			Expect(p.PenaltyTimer.IsStarted()).To(BeTrue())
		})
	})
})
