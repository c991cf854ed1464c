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

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	rotateMaxSize  = 5 * 1024 * 1024 // 5 MiB, per spec.md §4.10
	rotateMaxFiles = 5
)

// FileOptions configures AddFileHook.
type FileOptions struct {
	Directory string
	BaseName  string
	FileMode  os.FileMode
	PathMode  os.FileMode
}

// hookFile is a logrus.Hook that writes to a size-rotating file, manually
// rolling generations the way the teacher's hookfile.go manages the
// underlying os.File by hand instead of delegating to a rotation library.
type hookFile struct {
	m    sync.Mutex
	h    *os.File
	size int64
	opt  FileOptions
}

func newHookFile(opt FileOptions) (*hookFile, error) {
	if opt.Directory == "" {
		return nil, fmt.Errorf("logger: empty log directory")
	}
	if opt.FileMode == 0 {
		opt.FileMode = 0644
	}
	if opt.PathMode == 0 {
		opt.PathMode = 0755
	}
	if opt.BaseName == "" {
		opt.BaseName = "app.log"
	}

	if err := os.MkdirAll(opt.Directory, opt.PathMode); err != nil {
		return nil, err
	}

	h := &hookFile{opt: opt}
	if err := h.open(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *hookFile) currentPath() string {
	return filepath.Join(h.opt.Directory, h.opt.BaseName)
}

func (h *hookFile) rotatedPath(n int) string {
	return fmt.Sprintf("%s.%d", h.currentPath(), n)
}

func (h *hookFile) open() error {
	f, err := os.OpenFile(h.currentPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, h.opt.FileMode)
	if err != nil {
		return err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}

	h.h = f
	h.size = st.Size()
	return nil
}

func (h *hookFile) rotate() error {
	if h.h != nil {
		_ = h.h.Close()
		h.h = nil
	}

	for n := rotateMaxFiles - 1; n >= 1; n-- {
		src := h.rotatedPath(n)
		dst := h.rotatedPath(n + 1)
		if _, err := os.Stat(src); err == nil {
			_ = os.Rename(src, dst)
		}
	}

	if _, err := os.Stat(h.currentPath()); err == nil {
		_ = os.Rename(h.currentPath(), h.rotatedPath(1))
	}

	return h.open()
}

func (h *hookFile) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *hookFile) Fire(e *logrus.Entry) error {
	line, err := e.Bytes()
	if err != nil {
		return err
	}
	_, err = h.Write(line)
	return err
}

func (h *hookFile) Write(p []byte) (int, error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.h == nil {
		if err := h.open(); err != nil {
			return 0, err
		}
	}

	if h.size+int64(len(p)) > rotateMaxSize {
		if err := h.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := h.h.Write(p)
	h.size += int64(n)
	return n, err
}

func (h *hookFile) Close() error {
	h.m.Lock()
	defer h.m.Unlock()

	if h.h == nil {
		return nil
	}
	err := h.h.Close()
	h.h = nil
	return err
}

// AddFileHook installs a rotating-file sink on the logger, rolling at
// rotateMaxSize and keeping rotateMaxFiles generations as required by
// spec.md §4.10 ("a size-rotating file sink (5 MiB × 5 files)").
func (g *lgr) AddFileHook(opt FileOptions) error {
	h, err := newHookFile(opt)
	if err != nil {
		return err
	}
	g.l.AddHook(h)
	return nil
}
