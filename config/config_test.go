/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Loader Suite")
}

func writeTemp(name, content string) string {
	dir := GinkgoT().TempDir()
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	It("defaults to udp with no path given", func() {
		doc, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())

		opts, err := doc.GetOptions()
		Expect(err).ToNot(HaveOccurred())
		Expect(opts.Protocol).To(Equal("udp"))
		Expect(opts.MaxConnections).To(Equal(100))
	})

	It("reads a YAML file by extension", func() {
		path := writeTemp("cfg.yaml", `
protocol: tcp
max_connections: 5
listen_list:
  - ip: 127.0.0.1
    port: 9001
send_list:
  - ip: 127.0.0.1
    port: 9002
`)
		doc, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())

		opts, err := doc.GetOptions()
		Expect(err).ToNot(HaveOccurred())
		Expect(opts.Protocol).To(Equal("tcp"))
		Expect(opts.MaxConnections).To(Equal(5))
		Expect(opts.ListenList).To(Equal([]config.CommInfo{{IP: "127.0.0.1", Port: 9001}}))
		Expect(opts.SendList).To(Equal([]config.CommInfo{{IP: "127.0.0.1", Port: 9002}}))
	})

	It("reads a JSON file by extension", func() {
		path := writeTemp("cfg.json", `{"protocol":"udp","source_port":4000}`)
		doc, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())

		opts, err := doc.GetOptions()
		Expect(err).ToNot(HaveOccurred())
		Expect(opts.SourcePort).To(Equal(4000))
	})

	It("falls back to content probing when the extension is missing", func() {
		path := writeTemp("cfgfile", `protocol: udp`)
		_, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())
	})

	It("reports an error for an unreadable path", func() {
		_, err := config.Load("/nonexistent/path/cfg.yaml")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("GetCommInfoList", func() {
	It("returns nil, no error, when the key is absent", func() {
		doc, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())

		list, err := doc.GetCommInfoList("connect_list")
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(BeNil())
	})
})

var _ = Describe("GetString/GetInt defaults", func() {
	It("returns the supplied default when the key is unset", func() {
		doc, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())

		Expect(doc.GetString("nope", "fallback")).To(Equal("fallback"))
		Expect(doc.GetInt("nope", 42)).To(Equal(42))
	})
})
