package tracing

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/ahasselbring/GameController-HL/actions"
	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/datarecording"
	"github.com/ahasselbring/GameController-HL/game"
)

func testParams() *game.Params {
	return &game.Params{
		Competition: game.Competition{
			League:                 game.SPL,
			HalfDuration:           10 * time.Minute,
			TimeoutDuration:        5 * time.Minute,
			RefereeTimeoutDuration: 10 * time.Minute,
			PenaltyShotDuration:    30 * time.Second,
			PenaltyShots:           5,
			TimeoutsPerTeam:        1,
			PlayersPerTeam:         5,
			RosterSize:             7,
		},
	}
}

var _ = Describe("ActionTracer", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		tracer   *ActionTracer
		c        *controller.Controller
		records  []ActionRecord
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)

		recorder.EXPECT().CreateTable(ActionTableName, ActionRecord{})
		tracer = NewActionTracer(recorder)

		records = nil
		recorder.EXPECT().InsertData(ActionTableName, gomock.Any()).
			Do(func(_ string, entry any) {
				records = append(records, entry.(ActionRecord))
			}).
			AnyTimes()

		c = controller.MakeBuilder().WithParams(testParams()).Build()
		CollectTrace(c, tracer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record executed actions with the state after them", func() {
		c.Tick(1500 * time.Millisecond)
		Expect(c.Apply(actions.Timeout{Side: game.SomeSide(game.Away)})).
			To(Succeed())

		Expect(records).To(HaveLen(1))
		r := records[0]
		Expect(r.ID).ToNot(BeEmpty())
		Expect(r.TimeMs).To(Equal(int64(1500)))
		Expect(r.Source).To(Equal("user"))
		Expect(r.Kind).To(Equal(actions.KindTimeout))
		Expect(r.Args).To(Equal(`{"side":"away"}`))
		Expect(r.Accepted).To(BeTrue())
		Expect(r.Phase).To(Equal("firstHalf"))
		Expect(r.State).To(Equal("timeout"))
		Expect(r.SecState).To(Equal("normal"))
	})

	It("should record rejected actions", func() {
		Expect(c.Apply(actions.WaitForPenaltyShot{})).ToNot(Succeed())

		Expect(records).To(HaveLen(1))
		Expect(records[0].Kind).To(Equal(actions.KindWaitForPenaltyShot))
		Expect(records[0].Accepted).To(BeFalse())
		Expect(records[0].State).To(Equal("initial"))
	})

	It("should ignore ticks", func() {
		c.Tick(time.Second)

		Expect(records).To(BeEmpty())
	})

	It("should not attach twice", func() {
		Expect(func() { CollectTrace(c, tracer) }).To(Panic())
	})
})

var _ = Describe("ReadActions", func() {
	It("should read back what was recorded", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		recorder := datarecording.New(path)
		tracer := NewActionTracer(recorder)

		c := controller.MakeBuilder().WithParams(testParams()).Build()
		CollectTrace(c, tracer)

		Expect(c.Apply(actions.Timeout{Side: game.SomeSide(game.Home)})).
			To(Succeed())
		Expect(c.Apply(actions.Timeout{Side: game.SomeSide(game.Home)})).
			ToNot(Succeed())
		Expect(recorder.Close()).To(Succeed())

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		records, total, err := ReadActions(
			context.Background(), reader, datarecording.QueryParams{})

		Expect(err).ToNot(HaveOccurred())
		Expect(total).To(Equal(2))
		Expect(records).To(HaveLen(2))
		Expect(records[0].Accepted).To(BeTrue())
		Expect(records[1].Accepted).To(BeFalse())
		Expect(records[1].Args).To(Equal(`{"side":"home"}`))
	})
})
