package domain_test

import (
	"encoding/json"
	"fmt"
	"formflow/internal/forms/domain"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Field", func() {
	var seq int
	newOption := func() domain.ID {
		seq++
		return domain.ID(fmt.Sprintf("opt_%d", seq))
	}

	ginkgo.BeforeEach(func() {
		seq = 0
	})

	ginkgo.Context("Clone", func() {
		ginkgo.It("does not share options or pointers with the original", func() {
			placeholder := "hint"
			original := domain.Field{
				ID:          "f1",
				Type:        domain.FieldTypeCheckbox,
				Placeholder: &placeholder,
				Options:     []domain.FieldOption{{ID: "a", Label: "A"}},
			}

			clone := original.Clone()
			clone.Options[0].Label = "changed"
			*clone.Placeholder = "changed"

			gomega.Expect(original.Options[0].Label).To(gomega.Equal(domain.Label("A")))
			gomega.Expect(*original.Placeholder).To(gomega.Equal("hint"))
		})
	})

	ginkgo.Context("RatingScale", func() {
		ginkgo.It("defaults to one through five", func() {
			f := domain.Field{Type: domain.FieldTypeRating}
			gomega.Expect(f.RatingScale()).To(gomega.Equal([]int{1, 2, 3, 4, 5}))
		})

		ginkgo.It("honours configured bounds", func() {
			lo, hi := 0, 3
			f := domain.Field{Type: domain.FieldTypeRating, MinRating: &lo, MaxRating: &hi}
			gomega.Expect(f.RatingScale()).To(gomega.Equal([]int{0, 1, 2, 3}))
		})

		ginkgo.It("is empty for an inverted range", func() {
			lo, hi := 5, 1
			f := domain.Field{Type: domain.FieldTypeRating, MinRating: &lo, MaxRating: &hi}
			gomega.Expect(f.RatingScale()).To(gomega.BeEmpty())
			gomega.Expect(f.Validate()).To(gomega.MatchError(domain.ErrInvalidRatingRange))
		})
	})

	ginkgo.Context("WithType", func() {
		ginkgo.It("seeds two options when becoming a choice field", func() {
			f := domain.Field{ID: "f1", Type: domain.FieldTypeText, Label: "Q"}

			out := f.WithType(domain.FieldTypeMultipleChoice, newOption)

			gomega.Expect(out.Options).To(gomega.Equal([]domain.FieldOption{
				{ID: "opt_1", Label: "Option 1"},
				{ID: "opt_2", Label: "Option 2"},
			}))
			gomega.Expect(out.Validate()).To(gomega.Succeed())
		})

		ginkgo.It("keeps options when switching between choice types", func() {
			f := domain.Field{ID: "f1", Type: domain.FieldTypeCheckbox, Options: []domain.FieldOption{{ID: "a", Label: "A"}}}

			out := f.WithType(domain.FieldTypeMultipleChoice, newOption)

			gomega.Expect(out.Options).To(gomega.HaveLen(1))
			gomega.Expect(seq).To(gomega.Equal(0))
		})

		ginkgo.It("drops options and placeholder when becoming a rating", func() {
			placeholder := "hint"
			f := domain.Field{ID: "f1", Type: domain.FieldTypeCheckbox, Placeholder: &placeholder, Options: []domain.FieldOption{{ID: "a"}}}

			out := f.WithType(domain.FieldTypeRating, newOption)

			gomega.Expect(out.Options).To(gomega.BeNil())
			gomega.Expect(out.Placeholder).To(gomega.BeNil())
			gomega.Expect(*out.MinRating).To(gomega.Equal(domain.DefaultMinRating))
			gomega.Expect(*out.MaxRating).To(gomega.Equal(domain.DefaultMaxRating))
			gomega.Expect(out.Validate()).To(gomega.Succeed())
		})

		ginkgo.It("clears rating bounds when leaving rating", func() {
			lo, hi := 1, 10
			f := domain.Field{ID: "f1", Type: domain.FieldTypeRating, MinRating: &lo, MaxRating: &hi}

			out := f.WithType(domain.FieldTypeText, newOption)

			gomega.Expect(out.MinRating).To(gomega.BeNil())
			gomega.Expect(out.MaxRating).To(gomega.BeNil())
			gomega.Expect(out.Validate()).To(gomega.Succeed())
		})
	})

	ginkgo.Context("Validate", func() {
		ginkgo.It("rejects options on a text field", func() {
			f := domain.Field{ID: "f1", Type: domain.FieldTypeText, Options: []domain.FieldOption{{ID: "a"}}}
			gomega.Expect(f.Validate()).To(gomega.MatchError(domain.ErrOptionsNotAllowed))
		})

		ginkgo.It("rejects duplicate option ids", func() {
			f := domain.Field{ID: "f1", Type: domain.FieldTypeCheckbox, Options: []domain.FieldOption{{ID: "a"}, {ID: "a"}}}
			gomega.Expect(f.Validate()).To(gomega.MatchError(domain.ErrDuplicateOptionID))
		})

		ginkgo.It("rejects unknown types", func() {
			f := domain.Field{ID: "f1", Type: "dropdown"}
			gomega.Expect(f.Validate()).To(gomega.MatchError(domain.ErrUnknownFieldType))
		})

		ginkgo.It("rejects duplicate field ids across a form", func() {
			form := domain.FormModel{Fields: []domain.Field{
				{ID: "f1", Type: domain.FieldTypeText},
				{ID: "f1", Type: domain.FieldTypeText},
			}}
			gomega.Expect(form.Validate()).To(gomega.MatchError(domain.ErrDuplicateFieldID))
		})
	})
})

var _ = ginkgo.Describe("Answer", func() {
	ginkgo.It("serializes each kind in its wire shape", func() {
		set := domain.AnswerSet{
			"t": domain.TextAnswer("hi"),
			"c": domain.ChoiceAnswer("opt_a"),
			"b": domain.CheckboxAnswer("opt_a", "opt_b", "opt_a"),
			"r": domain.RatingAnswer(4.5),
			"e": domain.CheckboxAnswer(),
		}

		raw, err := json.Marshal(set)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(raw).To(gomega.MatchJSON(`{"t":"hi","c":"opt_a","b":["opt_a","opt_b"],"r":4.5,"e":[]}`))
	})

	ginkgo.It("refuses to serialize the zero answer", func() {
		_, err := json.Marshal(domain.AnswerSet{"x": {}})
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("toggles checkbox selections as an ordered set", func() {
		a := domain.CheckboxAnswer("opt_a")
		a = a.Toggle("opt_b", true)
		a = a.Toggle("opt_a", true)
		a = a.Toggle("opt_a", false)

		ids, ok := a.Selections()
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(ids).To(gomega.Equal([]domain.ID{"opt_b"}))
	})

	ginkgo.It("does not mutate the answer it toggles", func() {
		original := domain.CheckboxAnswer("opt_a", "opt_b")
		_ = original.Toggle("opt_a", false)

		ids, _ := original.Selections()
		gomega.Expect(ids).To(gomega.Equal([]domain.ID{"opt_a", "opt_b"}))
	})

	ginkgo.It("exposes only the accessor matching its kind", func() {
		a := domain.RatingAnswer(3)
		_, isText := a.Text()
		n, isRating := a.Rating()

		gomega.Expect(isText).To(gomega.BeFalse())
		gomega.Expect(isRating).To(gomega.BeTrue())
		gomega.Expect(n).To(gomega.Equal(3.0))
	})
})
