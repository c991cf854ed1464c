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
	"io"
	"log"

	hclog "github.com/hashicorp/go-hclog"
)

// hcAdapter adapts a Logger to hclog.Logger, so that any dependency
// expecting an hclog sink (go-plugin style libraries, some client pools)
// can be pointed at this package's logger without a second logging stack.
type hcAdapter struct {
	g    *lgr
	name string
	args []interface{}
}

// HCLog returns an hclog.Logger view of g.
func (g *lgr) HCLog(name string) hclog.Logger {
	return &hcAdapter{g: g, name: name}
}

func (h *hcAdapter) log(lvl Level, msg string, args ...interface{}) {
	h.g.logAt(lvl, msg, nil, append(h.args, args...))
}

func (h *hcAdapter) Trace(msg string, args ...interface{}) { h.log(TraceLevel, msg, args...) }
func (h *hcAdapter) Debug(msg string, args ...interface{}) { h.log(DebugLevel, msg, args...) }
func (h *hcAdapter) Info(msg string, args ...interface{})  { h.log(InfoLevel, msg, args...) }
func (h *hcAdapter) Warn(msg string, args ...interface{})  { h.log(WarnLevel, msg, args...) }
func (h *hcAdapter) Error(msg string, args ...interface{}) { h.log(ErrorLevel, msg, args...) }

func (h *hcAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace:
		h.Trace(msg, args...)
	case hclog.Debug:
		h.Debug(msg, args...)
	case hclog.Warn:
		h.Warn(msg, args...)
	case hclog.Error:
		h.Error(msg, args...)
	default:
		h.Info(msg, args...)
	}
}

func (h *hcAdapter) IsTrace() bool { return h.g.GetLevel() <= TraceLevel }
func (h *hcAdapter) IsDebug() bool { return h.g.GetLevel() <= DebugLevel }
func (h *hcAdapter) IsInfo() bool  { return h.g.GetLevel() <= InfoLevel }
func (h *hcAdapter) IsWarn() bool  { return h.g.GetLevel() <= WarnLevel }
func (h *hcAdapter) IsError() bool { return h.g.GetLevel() <= ErrorLevel }

func (h *hcAdapter) ImpliedArgs() []interface{} { return h.args }

func (h *hcAdapter) With(args ...interface{}) hclog.Logger {
	return &hcAdapter{g: h.g, name: h.name, args: append(append([]interface{}{}, h.args...), args...)}
}

func (h *hcAdapter) Name() string { return h.name }

func (h *hcAdapter) Named(name string) hclog.Logger {
	return &hcAdapter{g: h.g, name: h.name + "." + name, args: h.args}
}

func (h *hcAdapter) ResetNamed(name string) hclog.Logger {
	return &hcAdapter{g: h.g, name: name, args: h.args}
}

func (h *hcAdapter) SetLevel(level hclog.Level) {
	switch level {
	case hclog.Trace:
		h.g.SetLevel(TraceLevel)
	case hclog.Debug:
		h.g.SetLevel(DebugLevel)
	case hclog.Warn:
		h.g.SetLevel(WarnLevel)
	case hclog.Error:
		h.g.SetLevel(ErrorLevel)
	default:
		h.g.SetLevel(InfoLevel)
	}
}

func (h *hcAdapter) GetLevel() hclog.Level {
	switch h.g.GetLevel() {
	case TraceLevel:
		return hclog.Trace
	case DebugLevel:
		return hclog.Debug
	case WarnLevel:
		return hclog.Warn
	case ErrorLevel, CriticalLevel:
		return hclog.Error
	default:
		return hclog.Info
	}
}

func (h *hcAdapter) StandardLogger(opt *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h.StandardWriter(opt), "", 0)
}

func (h *hcAdapter) StandardWriter(_ *hclog.StandardLoggerOptions) io.Writer {
	return h.g
}
