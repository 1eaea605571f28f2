package mapping

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nocsim/noc/messaging"
)

func coord(row, col int) messaging.Coord {
	return messaging.Coord{Row: row, Col: col}
}

var _ = Describe("ZigZag", func() {
	It("should walk the grid as a snake", func() {
		h := NewZigZag(Grid{Rows: 2, Cols: 3})

		var got []messaging.Coord
		for i := 0; i < 7; i++ {
			got = append(got, h.MapRunnable(0, RunnableRequest{}))
		}

		Expect(got).To(Equal([]messaging.Coord{
			coord(0, 0), coord(0, 1), coord(0, 2),
			coord(1, 2), coord(1, 1), coord(1, 0),
			coord(0, 0),
		}))
	})

	It("should keep labels and runnables apart", func() {
		h := NewZigZag(Grid{Rows: 2, Cols: 2})

		h.MapRunnable(0, RunnableRequest{})
		Expect(h.MapLabel(0, 0, "a")).To(Equal(coord(0, 0)))
		Expect(h.MapLabel(1, 0, "b")).To(Equal(coord(0, 1)))

		Expect(h.SwitchMode(10, "f", "m")).To(Succeed())
		Expect(h.MapLabel(0, 10, "a")).To(Equal(coord(0, 0)))
	})

	It("should refuse an empty grid", func() {
		Expect(func() { NewZigZag(Grid{}) }).To(Panic())
	})
})

var _ = Describe("RandomFixed", func() {
	grid := Grid{Rows: 4, Cols: 4}

	It("should keep the placement of a class", func() {
		h := NewRandomFixed(grid, 7)

		first := h.MapRunnable(0, RunnableRequest{ClassID: 3})
		for i := 0; i < 10; i++ {
			Expect(h.MapRunnable(0, RunnableRequest{ClassID: 3, PeriodID: i})).
				To(Equal(first))
		}
		Expect(grid.Contains(first)).To(BeTrue())
	})

	It("should repeat with the same seed", func() {
		a := NewRandomFixed(grid, 7)
		b := NewRandomFixed(grid, 7)

		for i := 0; i < 16; i++ {
			req := RunnableRequest{ClassID: i}
			Expect(a.MapRunnable(0, req)).To(Equal(b.MapRunnable(0, req)))
			Expect(a.MapLabel(0, 0, "")).To(Equal(b.MapLabel(0, 0, "")))
		}
	})
})

var _ = Describe("Static", func() {
	grid := Grid{Rows: 2, Cols: 2}

	const file = `
runnables:
  A: [0, 1]
labels:
  X: [1, 1]
modes:
  degraded:
    runnables:
      A: [1, 0]
`

	It("should place listed names", func() {
		h, err := ParseStatic(grid, []byte(file))
		Expect(err).NotTo(HaveOccurred())

		Expect(h.MapRunnable(0, RunnableRequest{ClassName: "A"})).
			To(Equal(coord(0, 1)))
		Expect(h.MapLabel(0, 0, "X")).To(Equal(coord(1, 1)))
	})

	It("should fall back to a zigzag walk", func() {
		h, err := ParseStatic(grid, []byte(file))
		Expect(err).NotTo(HaveOccurred())

		Expect(h.MapRunnable(0, RunnableRequest{ClassName: "B"})).
			To(Equal(coord(0, 0)))
		Expect(h.MapRunnable(0, RunnableRequest{ClassName: "C"})).
			To(Equal(coord(0, 1)))
	})

	It("should switch placement with the mode", func() {
		h, err := ParseStatic(grid, []byte(file))
		Expect(err).NotTo(HaveOccurred())

		Expect(h.SwitchMode(100, "app.yaml", "degraded")).To(Succeed())
		Expect(h.MapRunnable(100, RunnableRequest{ClassName: "A"})).
			To(Equal(coord(1, 0)))
		Expect(h.MapLabel(0, 100, "X")).To(Equal(coord(0, 0)))

		Expect(h.SwitchMode(200, "app.yaml", "normal")).To(Succeed())
		Expect(h.MapRunnable(200, RunnableRequest{ClassName: "A"})).
			To(Equal(coord(0, 1)))
	})

	It("should reject coordinates outside of the grid", func() {
		_, err := ParseStatic(grid, []byte("labels:\n  X: [2, 0]\n"))

		Expect(errors.Is(err, ErrInvalidMappingFile)).To(BeTrue())
	})

	It("should reject malformed files", func() {
		_, err := ParseStatic(grid, []byte("runnables: [1, 2"))

		Expect(errors.Is(err, ErrInvalidMappingFile)).To(BeTrue())
	})
})

var _ = Describe("Kind", func() {
	It("should parse known names", func() {
		k, err := ParseKind("random")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(KindRandomFixed))

		_, err = ParseKind("greedy")
		Expect(errors.Is(err, ErrUnknownHeuristic)).To(BeTrue())
	})
})
