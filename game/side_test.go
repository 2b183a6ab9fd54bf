package game_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahasselbring/GameController-HL/game"
)

var _ = Describe("Side", func() {
	It("should negate to the other side", func() {
		Expect(game.Home.Negate()).To(Equal(game.Away))
		Expect(game.Away.Negate()).To(Equal(game.Home))
	})

	It("should be an involution", func() {
		for _, s := range []game.Side{game.Home, game.Away} {
			Expect(s.Negate().Negate()).To(Equal(s))
		}
	})

	It("should index teams", func() {
		var teams game.Teams
		teams[game.Home].Score = 3

		Expect(teams[game.Away.Negate()].Score).To(Equal(3))
	})

	It("should encode as a symbol", func() {
		data, err := json.Marshal(game.Away)

		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal(`"away"`))
	})

	It("should reject unknown symbols", func() {
		var s game.Side
		Expect(json.Unmarshal([]byte(`"left"`), &s)).ToNot(Succeed())
	})
})

var _ = Describe("OptionalSide", func() {
	It("should be absent by default", func() {
		var o game.OptionalSide

		_, ok := o.Get()
		Expect(ok).To(BeFalse())
		Expect(o).To(Equal(game.NoSide))
	})

	It("should negate a present side", func() {
		Expect(game.SomeSide(game.Home).Negate()).
			To(Equal(game.SomeSide(game.Away)))
		Expect(game.NoSide.Negate()).To(Equal(game.NoSide))
	})

	It("should compare with a side", func() {
		Expect(game.SomeSide(game.Home).Is(game.Home)).To(BeTrue())
		Expect(game.SomeSide(game.Home).Is(game.Away)).To(BeFalse())
		Expect(game.NoSide.Is(game.Home)).To(BeFalse())
	})

	It("should round trip through JSON", func() {
		for _, o := range []game.OptionalSide{
			game.NoSide, game.SomeSide(game.Home), game.SomeSide(game.Away),
		} {
			data, err := json.Marshal(o)
			Expect(err).ToNot(HaveOccurred())

			var decoded game.OptionalSide
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(o))
		}
	})
})

var _ = Describe("SideMapping", func() {
	It("should swap the orientation", func() {
		Expect(game.HomeDefendsLeftGoal.Negate()).
			To(Equal(game.HomeDefendsRightGoal))
		Expect(game.HomeDefendsRightGoal.Negate().Negate()).
			To(Equal(game.HomeDefendsRightGoal))
	})
})
