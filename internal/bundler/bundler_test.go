package bundler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/storysnap/internal/bundler"
)

var _ = Describe("Merge", func() {
	base := bundler.Config{
		Rules: []bundler.Rule{
			{Test: `\.mdx?$`, Use: []string{"markup-loader"}},
			{Test: `\.tsx?$`, Use: []string{"ts-loader"}},
			{Test: `\.scss$`, Use: []string{"sass-loader"}},
		},
		Resolve: bundler.Resolve{
			Extensions: []string{".ts", ".tsx", ".js"},
			Alias:      map[string]string{"@app": "./src", "@shared": "./shared"},
		},
	}

	docs := bundler.Config{
		Rules: []bundler.Rule{
			{Test: `\.stories\.tsx$`, Use: []string{"story-loader"}},
		},
		Resolve: bundler.Resolve{
			Extensions: []string{".mdx", ".ts"},
			Alias:      map[string]string{"@app": "./docs-src"},
		},
	}

	It("should keep only documentation-markup rules from the base", func() {
		merged, err := bundler.Merge(base, docs)
		Expect(err).ToNot(HaveOccurred())

		var tests []string
		for _, rule := range merged.Rules {
			tests = append(tests, rule.Test)
		}
		Expect(tests).To(ContainElement(`\.mdx?$`))
		Expect(tests).ToNot(ContainElement(`\.tsx?$`))
		Expect(tests).ToNot(ContainElement(`\.scss$`))
	})

	It("should append the documentation tool's own rules", func() {
		merged, err := bundler.Merge(base, docs)
		Expect(err).ToNot(HaveOccurred())
		Expect(merged.Rules).To(HaveLen(2))
		Expect(merged.Rules[1].Test).To(Equal(`\.stories\.tsx$`))
	})

	It("should union extensions preserving docs order first", func() {
		merged, err := bundler.Merge(base, docs)
		Expect(err).ToNot(HaveOccurred())
		Expect(merged.Resolve.Extensions).To(Equal([]string{".mdx", ".ts", ".tsx", ".js"}))
	})

	It("should merge aliases with docs precedence", func() {
		merged, err := bundler.Merge(base, docs)
		Expect(err).ToNot(HaveOccurred())
		Expect(merged.Resolve.Alias).To(HaveKeyWithValue("@app", "./docs-src"))
		Expect(merged.Resolve.Alias).To(HaveKeyWithValue("@shared", "./shared"))
	})

	It("should reject an invalid base rule regex", func() {
		broken := base
		broken.Rules = append(broken.Rules, bundler.Rule{Test: `([`})
		_, err := bundler.Merge(broken, docs)
		Expect(err).To(HaveOccurred())
	})
})
