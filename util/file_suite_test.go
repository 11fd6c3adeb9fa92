package util_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
)

var _ = Describe("Files", func() {

	var (
		tmpDir string
	)

	type TestConfig struct {
		CustomDNSServers []string
		PacketSize       int
		Token            string
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "piawg_util_test_tmp_*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.RemoveAll(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Config", func() {
		Context("in JSON format", func() {
			It("should be written and read successfully", func() {
				written := &TestConfig{
					CustomDNSServers: []string{"1.1.1.1", "8.8.8.8"},
					PacketSize:       1280,
					Token:            "token",
				}

				err := util.WriteJson(context.Background(), tmpDir+"/testconfig.json", written)
				Expect(err).NotTo(HaveOccurred())

				read, err := util.ReadJson(tmpDir+"/testconfig.json", &TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				Expect(read).NotTo(BeNil())
				Expect(read.(*TestConfig).CustomDNSServers).To(ContainElements(written.CustomDNSServers))
				Expect(read.(*TestConfig).PacketSize).To(BeEquivalentTo(written.PacketSize))
				Expect(read.(*TestConfig).Token).To(BeEquivalentTo(written.Token))
			})

			It("should restrict permissions when requested", func() {
				file := filepath.Join(tmpDir, "restricted", "config.json")
				err := util.WriteJsonWithRestrictedPermission(context.Background(), file, &TestConfig{Token: "secret"})
				Expect(err).NotTo(HaveOccurred())

				info, err := os.Stat(file)
				Expect(err).NotTo(HaveOccurred())
				Expect(info.Mode().Perm()).To(BeEquivalentTo(os.FileMode(0600)))

				dirInfo, err := os.Stat(filepath.Dir(file))
				Expect(err).NotTo(HaveOccurred())
				Expect(dirInfo.Mode().Perm()).To(BeEquivalentTo(os.FileMode(0700)))
			})

			It("should not write when the context is done", func() {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				file := filepath.Join(tmpDir, "cancelled.json")
				err := util.WriteJson(ctx, file, &TestConfig{})
				Expect(err).To(HaveOccurred())
				Expect(util.FileExists(file)).To(BeFalse())
			})
		})
	})

	Describe("Removing JSON files", func() {
		It("should ignore missing files", func() {
			Expect(util.RemoveJson(filepath.Join(tmpDir, "missing.json"))).To(Succeed())
		})

		It("should remove existing files", func() {
			file := filepath.Join(tmpDir, "present.json")
			Expect(util.WriteJson(context.Background(), file, map[string]int{"a": 1})).To(Succeed())
			Expect(util.RemoveJson(file)).To(Succeed())
			Expect(util.FileExists(file)).To(BeFalse())
		})
	})
})
