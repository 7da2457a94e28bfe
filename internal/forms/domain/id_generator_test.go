package domain_test

import (
	"formflow/internal/forms/domain"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("SessionIDGenerator", func() {
	ginkgo.It("prefixes field and option ids", func() {
		g := domain.NewSessionIDGenerator()

		fieldID, err := g.NewFieldID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		optionID, err := g.NewOptionID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(fieldID.String()).To(gomega.MatchRegexp(`^field_[0-9a-f]{12}$`))
		gomega.Expect(optionID.String()).To(gomega.MatchRegexp(`^opt_[0-9a-f]{12}$`))
	})

	ginkgo.It("never repeats an id within a session", func() {
		g := domain.NewSessionIDGenerator()
		seen := map[domain.ID]bool{}
		for range 500 {
			id, err := g.NewFieldID()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(seen[id]).To(gomega.BeFalse())
			seen[id] = true
		}
	})

	ginkgo.It("re-rolls a colliding candidate", func() {
		candidates := []string{"aaaaaaaa-aaaa", "aaaaaaaa-aaaa", "bbbbbbbb-bbbb"}
		g := domain.NewSessionIDGeneratorWithSource(func() string {
			next := candidates[0]
			candidates = candidates[1:]
			return next
		})

		first, err := g.NewFieldID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		second, err := g.NewFieldID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(first).To(gomega.Equal(domain.ID("field_aaaaaaaaaaaa")))
		gomega.Expect(second).To(gomega.Equal(domain.ID("field_bbbbbbbbbbbb")))
	})

	ginkgo.It("avoids ids reserved from an existing model", func() {
		g := domain.NewSessionIDGeneratorWithSource(func() string { return strings.Repeat("c", 12) })
		g.Reserve([]domain.Field{{ID: "field_cccccccccccc"}})

		_, err := g.NewFieldID()
		gomega.Expect(err).To(gomega.MatchError(domain.ErrIDGeneratorExhausted))

		optionID, err := g.NewOptionID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(optionID).To(gomega.Equal(domain.ID("opt_cccccccccccc")))
	})
})
