package session

import (
	"bytes"
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcegraph/internal/codec"
	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/sim"
	"github.com/san-kum/forcegraph/internal/viewport"
)

const pairDoc = `{"nodes":[{"id":"a"},{"id":"b"}],"links":[{"source":"a","target":"b"}]}`

var _ = Describe("Manager", func() {
	var (
		ctx     context.Context
		clock   *stepClock
		display *countingDisplay
		mgr     *Manager
		json    *codec.JSONCodec
	)

	load := func(src string) *Session {
		GinkgoHelper()
		s, err := mgr.Load(ctx, strings.NewReader(src), json)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	save := func() string {
		GinkgoHelper()
		var buf bytes.Buffer
		Expect(mgr.Save(&buf, json)).To(Succeed())
		return buf.String()
	}

	settle := func(s *Session) int {
		GinkgoHelper()
		n, err := s.Engine.RunUntilSettled(ctx, 1000)
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	BeforeEach(func() {
		ctx = context.Background()
		clock = &stepClock{}
		display = &countingDisplay{}
		json = codec.NewJSONCodec()

		cfg := DefaultConfig()
		cfg.AutoRun = false
		mgr = NewManager(cfg, WithClock(clock), WithDisplay(display))
		DeferCleanup(mgr.Close)
	})

	Context("without a session", func() {
		It("refuses to save or export", func() {
			var buf bytes.Buffer
			Expect(mgr.Save(&buf, json)).To(MatchError(ErrNoSession))
			Expect(mgr.ExportSVG(&buf)).To(MatchError(ErrNoSession))
			Expect(buf.Len()).To(BeZero())
		})
	})

	It("settles a linked pair and saves the link and default physics", func() {
		s := load(pairDoc)
		Expect(s.Engine.State()).To(Equal(sim.Running))

		Expect(settle(s)).To(BeNumerically("<=", 400))
		Expect(s.Engine.State()).To(Equal(sim.Settled))

		doc, err := json.Parse(strings.NewReader(save()))
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Links).To(Equal([]codec.Link{{Source: "a", Target: "b"}}))
		Expect(*doc.Physics).To(Equal(forces.DefaultParams()))
		Expect(*doc.Camera).To(Equal(viewport.Identity()))
		Expect(*doc.PopupEnabled).To(BeTrue())
	})

	It("keeps a dragged node pinned across save and reload", func() {
		s := load(pairDoc)
		settle(s)

		Expect(s.Controller.DragStart("a")).To(Succeed())
		Expect(s.Controller.DragMove("a", 50, 50)).To(Succeed())
		Expect(s.Controller.DragEnd("a")).To(Succeed())
		saved := save()

		reloaded := load(saved)
		a, ok := reloaded.Graph.Node("a")
		Expect(ok).To(BeTrue())
		fx, fy, pinned := a.Pin.At()
		Expect(pinned).To(BeTrue())
		Expect([]float64{fx, fy}).To(Equal([]float64{50, 50}))

		reloaded.Engine.Tick()
		Expect([]float64{a.X, a.Y}).To(Equal([]float64{50, 50}))
		Expect([]float64{a.VX, a.VY}).To(Equal([]float64{0, 0}))
	})

	It("round-trips a save taken right after a drag", func() {
		s := load(pairDoc)
		settle(s)

		Expect(s.Controller.DragStart("a")).To(Succeed())
		Expect(s.Controller.DragMove("a", 50, 50)).To(Succeed())
		Expect(s.Controller.DragEnd("a")).To(Succeed())
		first := save()

		doc, err := json.Parse(strings.NewReader(first))
		Expect(err).NotTo(HaveOccurred())
		a := doc.Nodes[0]
		Expect(a.ID).To(Equal("a"))
		Expect([]float64{*a.X, *a.Y}).To(Equal([]float64{50, 50}))
		Expect(a.VX).To(BeNil())
		Expect(a.VY).To(BeNil())

		load(first)
		Expect(save()).To(Equal(first))
	})

	It("frees a pinned node on toggle so it moves on the next tick", func() {
		s := load(`{"nodes":[{"id":"a","fx":50,"fy":50},{"id":"b"}],"links":[{"source":"a","target":"b"}]}`)
		settle(s)

		Expect(s.Controller.TogglePin("a")).To(Succeed())
		doc, err := s.Document()
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Nodes[0].FX).To(BeNil())
		Expect(doc.Nodes[0].FY).To(BeNil())
		Expect(save()).NotTo(ContainSubstring(`"fx"`))

		a, _ := s.Graph.Node("a")
		x, y := a.X, a.Y
		Expect(s.Engine.Tick()).To(BeTrue())
		Expect([]float64{a.X, a.Y}).NotTo(Equal([]float64{x, y}))
	})

	It("reheats to Running on reset while settled", func() {
		s := load(`{"nodes":[{"id":"a"},{"id":"b"}],"links":[],"physics":{"linkDistance":300,"chargeStrength":-80,"collisionRadius":5}}`)
		settle(s)
		Expect(s.Engine.State()).To(Equal(sim.Settled))

		Expect(s.Controls.Reset()).To(Succeed())
		Expect(s.Engine.State()).To(Equal(sim.Running))
		Expect(s.Engine.Alpha()).To(BeNumerically(">", sim.DefaultAlphaMin))
		Expect(s.Engine.Params()).To(Equal(forces.DefaultParams()))

		v, _ := s.Controls.Value("linkDistance")
		Expect(v.Field).To(Equal("100"))
	})

	It("round-trips save and load without drift", func() {
		s := load(`{"nodes":[{"id":"a","name":"A","title":"<b>A</b>","group":"g"},{"id":"b","fx":1,"fy":2,"selected":true},{"id":"c"}],
			"links":[{"source":"a","target":"b"},{"source":"b","target":"c"}],"camera":{"x":3,"y":4,"k":1.5},"popupEnabled":false}`)
		for i := 0; i < 25; i++ {
			s.Engine.Tick()
		}

		first := save()
		load(first)
		Expect(save()).To(Equal(first))
	})

	It("leaves the live session untouched when a load fails", func() {
		s := load(pairDoc)
		before := save()

		for _, bad := range []string{`{`, `{"nodes":[]}`, `{"nodes":[{"id":"a"},{"id":"a"}],"links":[]}`} {
			_, err := mgr.Load(ctx, strings.NewReader(bad), json)
			Expect(err).To(MatchError(codec.ErrMalformed))
		}

		cur, ok := mgr.Current()
		Expect(ok).To(BeTrue())
		Expect(cur).To(BeIdenticalTo(s))
		Expect(s.Engine.State()).To(Equal(sim.Running))
		Expect(save()).To(Equal(before))
	})

	It("drops links with unknown endpoints", func() {
		s := load(`{"nodes":[{"id":"a"}],"links":[{"source":"a","target":"ghost"}]}`)
		Expect(s.Graph.Links()).To(BeEmpty())
		Expect(s.Dropped).To(HaveLen(1))
	})

	It("keeps running values for sections a document omits", func() {
		s := load(`{"nodes":[{"id":"a"}],"links":[],"physics":{"linkDistance":60,"chargeStrength":-5,"collisionRadius":0},"camera":{"x":1,"y":1,"k":2},"popupEnabled":false}`)
		Expect(s.Popups.Enabled()).To(BeFalse())

		next := load(pairDoc)
		Expect(next.Engine.Params()).To(Equal(forces.Params{LinkDistance: 60, ChargeStrength: -5, CollisionRadius: 0}))
		Expect(next.Camera()).To(Equal(viewport.Camera{X: 1, Y: 1, K: 2}))
		Expect(next.Popups.Enabled()).To(BeFalse())
	})

	Describe("popups", func() {
		var s *Session

		BeforeEach(func() {
			s = load(`{"nodes":[{"id":"a","name":"A","title":"Alpha details"}],"links":[]}`)
		})

		It("shows the node title and hides after the delay", func() {
			Expect(s.HoverEnter("a", 5, 5)).To(Succeed())
			p, ok := s.Popups.Current()
			Expect(ok).To(BeTrue())
			Expect(p.Text).To(Equal("Alpha details"))

			s.HoverExit("a")
			clock.Advance(2 * time.Second)
			_, ok = s.Popups.Current()
			Expect(ok).To(BeFalse())
		})

		It("hides at once and never fires a stale hide when disabled", func() {
			Expect(s.HoverEnter("a", 5, 5)).To(Succeed())
			s.HoverExit("a")
			s.Popups.SetEnabled(false)

			_, ok := s.Popups.Current()
			Expect(ok).To(BeFalse())
			Expect(display.hides).To(Equal(1))

			clock.Advance(time.Minute)
			Expect(display.hides).To(Equal(1))
		})

		It("rejects unknown nodes", func() {
			Expect(s.HoverEnter("ghost", 0, 0)).NotTo(Succeed())
			Expect(display.shows).To(BeZero())
		})

		It("clears the popup when the session is replaced", func() {
			Expect(s.HoverEnter("a", 5, 5)).To(Succeed())
			s.HoverExit("a")
			load(pairDoc)

			Expect(display.hides).To(Equal(1))
			clock.Advance(time.Minute)
			Expect(display.hides).To(Equal(1))
		})
	})

	It("exports the live layout as SVG", func() {
		s := load(pairDoc)
		settle(s)

		var buf bytes.Buffer
		Expect(mgr.ExportSVG(&buf)).To(Succeed())
		Expect(buf.String()).To(HavePrefix("<?xml"))
		Expect(strings.Count(buf.String(), "<circle ")).To(Equal(2))
	})
})

var _ = Describe("Manager with a runner", func() {
	It("stops the old engine before the new one starts", func() {
		cfg := DefaultConfig()
		cfg.TickInterval = time.Millisecond
		mgr := NewManager(cfg)
		DeferCleanup(mgr.Close)
		ctx := context.Background()

		first, err := mgr.Load(ctx, strings.NewReader(pairDoc), codec.NewJSONCodec())
		Expect(err).NotTo(HaveOccurred())
		Eventually(first.Engine.Ticks).Should(BeNumerically(">", 5))

		second, err := mgr.Load(ctx, strings.NewReader(pairDoc), codec.NewJSONCodec())
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Engine.State()).To(Equal(sim.Stopped))
		Expect(first.Runner.Done()).To(BeClosed())
		frozen := first.Engine.Ticks()
		Eventually(second.Engine.Ticks).Should(BeNumerically(">", 5))
		Consistently(first.Engine.Ticks, 50*time.Millisecond).Should(Equal(frozen))
	})
})
