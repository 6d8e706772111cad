package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/storysnap/internal/catalog"
)

const indexJSON = `{
	"v": 5,
	"entries": {
		"buttons-button--primary": {"id": "buttons-button--primary", "title": "Buttons/Button", "name": "Primary", "type": "story"},
		"buttons-button--docs":    {"id": "buttons-button--docs", "title": "Buttons/Button", "name": "Docs", "type": "docs"},
		"alerts-alert--error":     {"id": "alerts-alert--error", "title": "Alerts/Alert", "name": "Error", "type": "story"}
	}
}`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var _ = Describe("Client", func() {
	Describe("Stories", func() {
		It("should list published stories sorted by ID, docs entries skipped", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/index.json"))
				io.WriteString(w, indexJSON)
			}))
			defer server.Close()

			client := catalog.NewClient(server.URL, "/index.json", "/iframe.html", quietLogger())
			stories, err := client.Stories(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(stories).To(HaveLen(2))
			Expect(stories[0].ID).To(Equal("alerts-alert--error"))
			Expect(stories[1].ID).To(Equal("buttons-button--primary"))
		})

		It("should apply default test options to every story", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, indexJSON)
			}))
			defer server.Close()

			client := catalog.NewClient(server.URL, "/index.json", "/iframe.html", quietLogger())
			stories, err := client.Stories(context.Background())
			Expect(err).ToNot(HaveOccurred())
			for _, s := range stories {
				Expect(s.Options.WaitForLoadersToDisappear).To(BeTrue())
				Expect(s.Options.SnapshotBrowsers).To(BeEmpty())
			}
		})

		It("should fail on a non-200 index response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			}))
			defer server.Close()

			client := catalog.NewClient(server.URL, "/index.json", "/iframe.html", quietLogger())
			_, err := client.Stories(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("404"))
		})

		It("should fail on malformed index JSON", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "{broken")
			}))
			defer server.Close()

			client := catalog.NewClient(server.URL, "/index.json", "/iframe.html", quietLogger())
			_, err := client.Stories(context.Background())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("StoryURL", func() {
		It("should build the isolated rendering URL", func() {
			client := catalog.NewClient("http://localhost:6006", "/index.json", "/iframe.html", quietLogger())
			url := client.StoryURL("buttons-button--primary")
			Expect(url).To(Equal("http://localhost:6006/iframe.html?id=buttons-button--primary&viewMode=story"))
		})
	})
})
