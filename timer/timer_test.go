package timer

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Timer", func() {
	var (
		mockCtrl *gomock.Controller
		cond     *MockConditioner
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		cond = NewMockConditioner(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when stopped", func() {
		It("should have no remaining time", func() {
			t := Stopped[string]()

			Expect(t.IsStarted()).To(BeFalse())
			Expect(t.Remaining()).To(Equal(time.Duration(0)))
		})

		It("should ignore ticks", func() {
			var t Timer[string]

			Expect(t.Tick(5*time.Second, cond)).To(BeEmpty())
			Expect(t.IsStarted()).To(BeFalse())
			Expect(t.Remaining()).To(Equal(time.Duration(0)))
		})

		It("should ignore ToZero", func() {
			var t Timer[string]

			Expect(t.ToZero()).To(BeEmpty())
			Expect(t.IsStarted()).To(BeFalse())
		})
	})

	Context("when started", func() {
		It("should count down if the run condition holds", func() {
			cond.EXPECT().Satisfies(Playing).Return(true)
			t := Started(10*time.Second, Playing, Overflow[string]())

			Expect(t.Tick(3*time.Second, cond)).To(BeEmpty())
			Expect(t.Remaining()).To(Equal(7 * time.Second))
		})

		It("should not count down if the run condition does not hold", func() {
			cond.EXPECT().Satisfies(Playing).Return(false)
			t := Started(10*time.Second, Playing, Overflow[string]())

			Expect(t.Tick(3*time.Second, cond)).To(BeEmpty())
			Expect(t.Remaining()).To(Equal(10 * time.Second))
		})

		It("should keep running past zero when overflowing", func() {
			cond.EXPECT().Satisfies(Always).Return(true).Times(2)
			t := Started(2*time.Second, Always, Overflow[string]())

			Expect(t.Tick(2*time.Second, cond)).To(BeEmpty())
			Expect(t.Tick(time.Second, cond)).To(BeEmpty())
			Expect(t.IsStarted()).To(BeTrue())
			Expect(t.Remaining()).To(Equal(-time.Second))
		})

		It("should stop and release its actions when expiring", func() {
			cond.EXPECT().Satisfies(Always).Return(true).Times(2)
			t := Started(2*time.Second, Always, Expire("a", "b"))

			Expect(t.Tick(time.Second, cond)).To(BeEmpty())
			Expect(t.Tick(1500*time.Millisecond, cond)).
				To(Equal([]string{"a", "b"}))
			Expect(t.IsStarted()).To(BeFalse())
			Expect(t.Remaining()).To(Equal(time.Duration(0)))
		})

		It("should release expire actions only once", func() {
			cond.EXPECT().Satisfies(Always).Return(true)
			t := Started(time.Second, Always, Expire("a"))

			Expect(t.Tick(time.Second, cond)).To(Equal([]string{"a"}))
			Expect(t.Tick(time.Second, cond)).To(BeEmpty())
		})

		It("should expire immediately on ToZero", func() {
			t := Started(time.Minute, Always, Expire("restore"))

			Expect(t.ToZero()).To(Equal([]string{"restore"}))
			Expect(t.IsStarted()).To(BeFalse())
		})

		It("should keep overflowing from zero on ToZero", func() {
			t := Started(time.Minute, Always, Overflow[string]())

			Expect(t.ToZero()).To(BeEmpty())
			Expect(t.IsStarted()).To(BeTrue())
			Expect(t.Remaining()).To(Equal(time.Duration(0)))
		})
	})

	Context("JSON", func() {
		It("should encode a stopped timer as null", func() {
			data, err := json.Marshal(Stopped[string]())

			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("null"))
		})

		It("should keep expire actions", func() {
			t := Started(1500*time.Millisecond, Always, Expire("x"))

			data, err := json.Marshal(t)
			Expect(err).ToNot(HaveOccurred())

			var decoded Timer[string]
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded.IsStarted()).To(BeTrue())
			Expect(decoded.Remaining()).To(Equal(1500 * time.Millisecond))
			Expect(decoded.RunCondition()).To(Equal(Always))
			Expect(decoded.BehaviorAtZero().IsExpire()).To(BeTrue())
			Expect(decoded.BehaviorAtZero().Actions()).To(Equal([]string{"x"}))
		})

		It("should reject unknown behaviors", func() {
			data := []byte(`{"remaining":1,"runCondition":"always",` +
				`"behaviorAtZero":{"type":"explode"}}`)

			var decoded Timer[string]
			Expect(json.Unmarshal(data, &decoded)).ToNot(Succeed())
		})
	})
})
