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

// Package logger is the injectable logging sink spec.md §6 describes as an
// external collaborator: a level-filtered structured logger with fields,
// feeding either a rotating file, stderr, or both.
package logger

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FuncLog returns a Logger lazily; used for dependency injection the same
// way the teacher's logger package exposes it.
type FuncLog func() Logger

// Logger is the main structured logging surface consumed by the rest of
// this module.
type Logger interface {
	io.WriteCloser

	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	Fatal(message string, data interface{}, args ...interface{})
	Panic(message string, data interface{}, args ...interface{})

	// CheckError logs err at lvlKO if non-nil and returns false; otherwise,
	// if lvlOK is not NilLevel, logs a success entry and returns true.
	CheckError(lvlKO, lvlOK Level, message string, err ...error) bool

	// Entry returns a fluent entry for lvl that the caller can attach
	// fields to before calling Log().
	Entry(lvl Level, message string, args ...interface{}) Entry

	// Access returns an access-log-shaped entry at InfoLevel.
	Access(remoteAddr, remoteUser string, localtime time.Time, latency time.Duration, method, request, proto string, status int, size int64) Entry

	// AddFileHook installs a size-rotating file sink; see hookfile.go.
	AddFileHook(opt FileOptions) error

	// AddStderrHook installs a color-aware stderr sink; see hookstandard.go.
	AddStderrHook()

	Clone() Logger
}

type lgr struct {
	m   sync.RWMutex
	l   *logrus.Logger
	lvl Level
	fld Fields
}

// New returns a Logger at InfoLevel with no sinks installed; callers must
// call AddFileHook/AddStderrHook to actually produce output, matching the
// teacher's pattern of building up hooks after construction.
func New() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.TraceLevel)

	g := &lgr{
		l:   l,
		lvl: InfoLevel,
		fld: Fields{},
	}
	return g
}

func (g *lgr) SetLevel(lvl Level) {
	g.m.Lock()
	defer g.m.Unlock()
	g.lvl = lvl
}

func (g *lgr) GetLevel() Level {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.lvl
}

func (g *lgr) SetFields(f Fields) {
	g.m.Lock()
	defer g.m.Unlock()
	g.fld = f.Clone()
}

func (g *lgr) GetFields() Fields {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.fld.Clone()
}

func (g *lgr) allowed(lvl Level) bool {
	return lvl >= g.GetLevel()
}

func (g *lgr) entry() *logrus.Entry {
	f := g.GetFields()
	data := make(logrus.Fields, len(f))
	for k, v := range f {
		data[k] = v
	}
	return g.l.WithFields(data).WithField("caller", callerInfo())
}

func (g *lgr) logAt(lvl Level, message string, data interface{}, args []interface{}) {
	if !g.allowed(lvl) {
		return
	}

	e := g.entry()
	if data != nil {
		e = e.WithField("data", data)
	}
	if len(args) > 0 {
		e = e.WithField("args", args)
	}
	e.Log(lvl.Logrus(), message)
}

func (g *lgr) Debug(message string, data interface{}, args ...interface{}) {
	g.logAt(DebugLevel, message, data, args)
}

func (g *lgr) Info(message string, data interface{}, args ...interface{}) {
	g.logAt(InfoLevel, message, data, args)
}

func (g *lgr) Warning(message string, data interface{}, args ...interface{}) {
	g.logAt(WarnLevel, message, data, args)
}

func (g *lgr) Error(message string, data interface{}, args ...interface{}) {
	g.logAt(ErrorLevel, message, data, args)
}

func (g *lgr) Fatal(message string, data interface{}, args ...interface{}) {
	g.logAt(CriticalLevel, message, data, args)
}

func (g *lgr) Panic(message string, data interface{}, args ...interface{}) {
	g.logAt(CriticalLevel, message, data, args)
	panic(message)
}

func (g *lgr) CheckError(lvlKO, lvlOK Level, message string, err ...error) bool {
	for _, e := range err {
		if e != nil {
			g.logAt(lvlKO, message, e, nil)
			return false
		}
	}

	if lvlOK != NilLevel {
		g.logAt(lvlOK, message, nil, nil)
	}

	return true
}

func (g *lgr) Entry(lvl Level, message string, args ...interface{}) Entry {
	e := g.entry()
	if len(args) > 0 {
		e = e.WithField("args", args)
	}
	return &entry{l: e.WithField("message", message), lvl: lvl}
}

func (g *lgr) Access(remoteAddr, remoteUser string, localtime time.Time, latency time.Duration, method, request, proto string, status int, size int64) Entry {
	return newAccessEntry(g.entry(), remoteAddr, remoteUser, localtime, latency, method, request, proto, status, size)
}

func (g *lgr) Write(p []byte) (int, error) {
	if !g.allowed(InfoLevel) {
		return len(p), nil
	}
	g.entry().Info(string(p))
	return len(p), nil
}

func (g *lgr) Close() error {
	for _, h := range g.l.Hooks[logrus.InfoLevel] {
		if c, ok := h.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return nil
}

func (g *lgr) Clone() Logger {
	g.m.RLock()
	defer g.m.RUnlock()

	n := &lgr{
		l:   g.l,
		lvl: g.lvl,
		fld: g.fld.Clone(),
	}
	return n
}
