package app_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/sim"
)

const demoApp = `
name: demo
labels:
  - {name: speed, size: 64}
  - {name: flag, size: 1}
tasks:
  - name: Sense
    period: 10us
    offset: 1us
    sequential: true
    runnables:
      - name: Read
        priority: 1
        deadline: 2us
        instructions:
          - constant: 100
          - read: speed
      - name: Filter
        instructions:
          - deviation: {lower: 10, upper: 20}
          - write: flag
  - name: Act
    sporadic: {min: 3us, max: 7us}
    runnables:
      - name: Drive
        after: [Sense/Filter]
        instructions: []
  - name: Boot
    runnables:
      - name: Read
        instructions:
          - constant: 1
`

var _ = Describe("YAMLLoader", func() {
	It("should parse an application", func() {
		g, err := app.ParseYAML([]byte(demoApp))
		Expect(err).NotTo(HaveOccurred())

		Expect(g.Name).To(Equal("demo"))
		Expect(g.Labels).To(HaveLen(2))
		Expect(g.Label(0).SizeBytes()).To(Equal(8))
		Expect(g.Label(1).SizeBytes()).To(Equal(1))

		Expect(g.Tasks).To(HaveLen(3))
		sense := g.Task(0)
		Expect(sense.Activation.Kind).To(Equal(app.ActivationPeriodic))
		Expect(sense.Activation.Period).To(Equal(10 * sim.Us))
		Expect(sense.Activation.Offset).To(Equal(1 * sim.Us))
		Expect(g.Task(1).Activation.Interval()).To(Equal(3 * sim.Us))

		read := g.Call(0)
		filter := g.Call(1)
		drive := g.Call(2)
		boot := g.Call(3)

		Expect(read.Deadline).To(Equal(2 * sim.Us))
		Expect(read.Instructions).To(HaveLen(2))
		Expect(read.Instructions[0]).To(Equal(&app.Constant{Cycles: 100}))
		Expect(read.Instructions[1]).To(Equal(&app.LabelAccess{Label: 0}))
		Expect(filter.Instructions[0]).To(Equal(&app.Deviation{Lower: 10, Upper: 20}))
		Expect(filter.Instructions[1]).To(Equal(&app.LabelAccess{Label: 1, Write: true}))
		Expect(filter.Predecessors).To(Equal([]app.CallID{read.ID}))
		Expect(drive.Predecessors).To(Equal([]app.CallID{filter.ID}))
		Expect(drive.Instructions).To(BeEmpty())
		Expect(boot.ClassID).To(Equal(read.ClassID))

		Expect(g.RecurringCalls()).To(Equal([]app.CallID{read.ID}))
		Expect(g.IndependentNonRecurringCalls()).To(Equal([]app.CallID{boot.ID}))
	})

	It("should load from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "app.yaml")
		Expect(os.WriteFile(path, []byte(demoApp), 0o644)).To(Succeed())

		g, err := app.YAMLLoader{}.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.Calls).To(HaveLen(4))
	})

	It("should reject ambiguous references", func() {
		_, err := app.ParseYAML([]byte(demoApp + `
  - name: Late
    runnables:
      - name: X
        after: [Read]
`))

		Expect(err).To(MatchError(app.ErrInvalidGraph))
	})

	It("should reject unknown labels", func() {
		_, err := app.ParseYAML([]byte(`
tasks:
  - name: T
    runnables:
      - name: R
        instructions:
          - read: missing
`))

		Expect(err).To(MatchError(app.ErrInvalidGraph))
	})

	It("should reject instructions with several kinds", func() {
		_, err := app.ParseYAML([]byte(`
tasks:
  - name: T
    runnables:
      - name: R
        instructions:
          - {constant: 1, deviation: {lower: 1, upper: 2}}
`))

		Expect(err).To(MatchError(app.ErrInvalidGraph))
	})

	It("should reject bad durations", func() {
		_, err := app.ParseYAML([]byte(`
tasks:
  - name: T
    period: soon
`))

		Expect(err).To(HaveOccurred())
	})
})
