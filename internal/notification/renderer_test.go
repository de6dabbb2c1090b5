package notification

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Renderer", func() {
	Describe("field rows", func() {
		It("substitutes N/A for every absent asset field", func() {
			rows := assetRows(AssetSnapshot{AssetID: "LT-0042"})

			byLabel := map[string]string{}
			for _, r := range rows {
				byLabel[r.Label] = r.Value
			}
			Expect(byLabel["Asset ID"]).To(Equal("LT-0042"))
			Expect(byLabel["Model"]).To(Equal("N/A"))
			Expect(byLabel["Serial Number"]).To(Equal("N/A"))
			Expect(byLabel["Warranty Until"]).To(Equal("N/A"))
			Expect(byLabel["Purchase Price"]).To(Equal("N/A"))
		})

		It("formats present warranty and price values", func() {
			warranty := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
			rows := assetRows(AssetSnapshot{
				AssetID:       "LT-0042",
				WarrantyDate:  &warranty,
				PurchasePrice: 1299.99,
			})

			byLabel := map[string]string{}
			for _, r := range rows {
				byLabel[r.Label] = r.Value
			}
			Expect(byLabel["Warranty Until"]).To(Equal("March 15, 2027"))
			Expect(byLabel["Purchase Price"]).To(Equal("$1299.99"))
		})

		It("substitutes N/A for absent assignee fields", func() {
			rows := assigneeRows(AssigneeInfo{Name: "Jordan Lee"})

			byLabel := map[string]string{}
			for _, r := range rows {
				byLabel[r.Label] = r.Value
			}
			Expect(byLabel["Name"]).To(Equal("Jordan Lee"))
			Expect(byLabel["Position"]).To(Equal("N/A"))
			Expect(byLabel["Phone"]).To(Equal("N/A"))
		})
	})

	Describe("documentName", func() {
		It("embeds the asset id and a nanosecond timestamp", func() {
			now := time.Unix(0, 1725000000000000042)
			Expect(documentName("LT-0042", now)).To(Equal("asset-assignment-LT-0042-1725000000000000042.pdf"))
		})

		It("produces distinct names for successive assignments of one asset", func() {
			a := documentName("LT-0042", time.Unix(0, 1))
			b := documentName("LT-0042", time.Unix(0, 2))
			Expect(a).ToNot(Equal(b))
		})
	})

	Describe("Render", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "renderer-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(os.RemoveAll(tempDir)).To(Succeed())
		})

		It("writes the document into the temp directory", func() {
			r := NewRenderer(tempDir, "Cirrus Labs")

			path, err := r.Render(
				AssetSnapshot{AssetID: "LT-0042", Category: "Laptop", Model: "ThinkPad T14"},
				AssigneeInfo{Name: "Jordan Lee", Email: "jordan.lee@example.com"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Dir(path)).To(Equal(tempDir))
			Expect(filepath.Base(path)).To(HavePrefix("asset-assignment-LT-0042-"))

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		})

		It("creates the temp directory when missing", func() {
			nested := filepath.Join(tempDir, "does", "not", "exist")
			r := NewRenderer(nested, "Cirrus Labs")

			path, err := r.Render(AssetSnapshot{AssetID: "LT-0001"}, AssigneeInfo{})
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(BeAnExistingFile())
		})
	})
})
