package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

var _ = Describe("Params", func() {
	var p Params

	BeforeEach(func() {
		p = Defaults()
		p.App = "demo.yaml"
	})

	It("should accept the defaults with an application", func() {
		Expect(p.Validate()).To(Succeed())
		Expect(p.Grid().Size()).To(Equal(16))
	})

	It("should build the timing of the processing elements", func() {
		p.Scheduling = "prio"
		p.Frequency = "400MHz"

		t := p.Timing()

		Expect(t.Freq).To(Equal(400 * sim.MHz))
		Expect(t.LocalReadCost).To(Equal(2 * sim.Ns))
		Expect(t.AdmissionCost).To(Equal(1 * sim.Ns))
		Expect(t.FragmentBytes).To(Equal(32))
		Expect(t.Scheduling).To(Equal(pe.PriorityScheduling))
	})

	DescribeTable("should reject invalid parameters",
		func(mutate func(p *Params), sentinel error) {
			mutate(&p)
			Expect(p.Validate()).To(MatchError(sentinel))
		},
		Entry("grid", func(p *Params) { p.Rows = 0 }, ErrInvalidGrid),
		Entry("frequency", func(p *Params) { p.Frequency = "fast" }, ErrInvalidFrequency),
		Entry("high frequency", func(p *Params) { p.Frequency = "2000GHz" }, ErrFrequencyTooHigh),
		Entry("cost", func(p *Params) { p.RemoteWriteCost = -1 }, ErrInvalidCost),
		Entry("cpi", func(p *Params) { p.CPI = 0 }, ErrInvalidCost),
		Entry("fragment", func(p *Params) { p.FragmentBytes = 0 }, ErrInvalidFragment),
		Entry("buffer", func(p *Params) { p.BufferSize = 0 }, ErrInvalidBufferSize),
		Entry("policy", func(p *Params) { p.Policy = "Lottery" }, ErrUnknownPolicy),
		Entry("scheduling", func(p *Params) { p.Scheduling = "edf" }, ErrUnknownScheduling),
		Entry("heuristic", func(p *Params) { p.Mapping = "MinComm" }, ErrUnknownHeuristic),
		Entry("mapping file", func(p *Params) { p.Mapping = "static" }, ErrMissingMappingFile),
		Entry("iterations", func(p *Params) { p.Iterations = 0 }, ErrInvalidIterations),
		Entry("no application", func(p *Params) { p.App = "" }, ErrNoApplication),
		Entry("both sources", func(p *Params) { p.ModeFile = "modes.txt" }, ErrAppAndModes),
	)

	It("should report every problem at once", func() {
		p.Rows = -1
		p.Policy = "Lottery"

		err := p.Validate()

		Expect(err).To(MatchError(ErrInvalidGrid))
		Expect(err).To(MatchError(ErrUnknownPolicy))
	})

	Context("when loading", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should override the defaults with the file and the environment", func() {
			file := filepath.Join(dir, "sim.yaml")
			Expect(os.WriteFile(file, []byte(
				"app: car.yaml\nrows: 2\npolicy: Priority\n"), 0o644)).To(Succeed())
			GinkgoT().Setenv("NOCSIM_ROWS", "3")

			loaded, err := Load(file)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.App).To(Equal("car.yaml"))
			Expect(loaded.Rows).To(Equal(3))
			Expect(loaded.Cols).To(Equal(4))
			Expect(loaded.Policy).To(Equal("Priority"))
		})

		It("should reject unknown keys", func() {
			file := filepath.Join(dir, "sim.yaml")
			Expect(os.WriteFile(file, []byte("rowz: 2\n"), 0o644)).To(Succeed())

			p := Defaults()

			Expect(p.LoadFile(file)).NotTo(Succeed())
		})

		It("should report a missing file", func() {
			_, err := Load(filepath.Join(dir, "missing.yaml"))

			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})
})
