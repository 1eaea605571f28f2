package config

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
)

var _ = Describe("Mode files", func() {
	It("should parse a schedule", func() {
		modes, err := ParseModes(strings.NewReader(
			"# schedule\n0;idle;idle.yaml\n\n0.000001;drive;drive.yaml\n2e-6;end\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(modes).To(Equal([]system.Mode{
			{Time: 0, Name: "idle", File: "idle.yaml"},
			{Time: 1 * sim.Us, Name: "drive", File: "drive.yaml"},
			{Time: 2 * sim.Us, Name: system.ModeEnd},
		}))
	})

	DescribeTable("should reject",
		func(content string) {
			_, err := ParseModes(strings.NewReader(content))
			Expect(err).To(MatchError(ContainSubstring("line")))
		},
		Entry("missing name", "0\n"),
		Entry("bad time", "soon;idle;idle.yaml\n"),
		Entry("negative time", "-1;idle;idle.yaml\n"),
		Entry("missing file", "0;idle\n"),
		Entry("decreasing times", "2;a;a.yaml\n1;b;b.yaml\n"),
	)

	It("should resolve mode files next to the schedule", func() {
		dir := GinkgoT().TempDir()
		file := filepath.Join(dir, "modes.txt")
		Expect(os.WriteFile(file, []byte(
			"0;idle;idle.yaml\n1;fast;/abs/fast.yaml\n2;end\n"), 0o644)).
			To(Succeed())

		modes, err := ParseModeFile(file)

		Expect(err).NotTo(HaveOccurred())
		Expect(modes[0].File).To(Equal(filepath.Join(dir, "idle.yaml")))
		Expect(modes[1].File).To(Equal("/abs/fast.yaml"))
		Expect(modes[2].File).To(BeEmpty())
	})
})
