package snapshot_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/storysnap/internal/snapshot"
)

var _ = Describe("Identifier", func() {
	const (
		legacy  = "legacy"
		primary = "chromium"
	)

	It("should omit the theme suffix for the legacy theme", func() {
		id := snapshot.Identifier("buttons-button--primary", "legacy", legacy, "chromium", primary)
		Expect(id).To(Equal("buttons-button--primary"))
	})

	It("should omit the browser suffix for the primary engine", func() {
		id := snapshot.Identifier("buttons-button--primary", "dark", legacy, "chromium", primary)
		Expect(id).To(Equal("buttons-button--primary--dark"))
	})

	It("should append both suffixes for non-legacy theme on non-primary engine", func() {
		id := snapshot.Identifier("buttons-button--primary", "light", legacy, "firefox", primary)
		Expect(id).To(Equal("buttons-button--primary--light--firefox"))
	})

	It("should be injective over (story, theme, browser)", func() {
		stories := []string{"a-story", "another-story", "a-story--variant"}
		themes := []string{"legacy", "light", "dark"}
		browsers := []string{"chromium", "firefox", "webkit"}

		seen := make(map[string]string)
		for _, s := range stories {
			for _, t := range themes {
				for _, b := range browsers {
					id := snapshot.Identifier(s, t, legacy, b, primary)
					triple := fmt.Sprintf("%s|%s|%s", s, t, b)
					Expect(seen).ToNot(HaveKey(id),
						"collision between %s and %s", seen[id], triple)
					seen[id] = triple
				}
			}
		}
	})
})
