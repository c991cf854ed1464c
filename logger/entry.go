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
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is a single log record in flight; callers can attach extra fields
// before it is logged.
type Entry interface {
	// Field adds one key/value pair to the entry and returns it for chaining.
	Field(key string, val interface{}) Entry

	// Log emits the entry at its configured level.
	Log()
}

type entry struct {
	l   *logrus.Entry
	lvl Level
}

func (e *entry) Field(key string, val interface{}) Entry {
	e.l = e.l.WithField(key, val)
	return e
}

func (e *entry) Log() {
	e.l.Log(e.lvl.Logrus())
}

// newAccessEntry builds an Entry describing an HTTP-style access line,
// matching the Access() operation of the Logger interface.
func newAccessEntry(l *logrus.Entry, remoteAddr, remoteUser string, localtime time.Time, latency time.Duration, method, request, proto string, status int, size int64) Entry {
	e := l.WithFields(logrus.Fields{
		"remote_addr": remoteAddr,
		"remote_user": remoteUser,
		"time":        localtime,
		"latency":     latency.String(),
		"method":      method,
		"request":     request,
		"proto":       proto,
		"status":      status,
		"size":        size,
	})
	return &entry{l: e, lvl: InfoLevel}
}
