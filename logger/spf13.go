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
	jww "github.com/spf13/jwalterweatherman"
)

// SetSPF13Level plugs this logger into a jwalterweatherman Notepad, the
// logging facility spf13/viper uses internally, so viper's own
// informational output (config file reload, key overrides) lands in the
// same sink as everything else instead of going to its own stdout default.
func (g *lgr) SetSPF13Level(lvl Level, nb *jww.Notepad) {
	w := g

	switch {
	case lvl <= TraceLevel:
		nb.SetLogThreshold(jww.LevelTrace)
		nb.SetStdoutThreshold(jww.LevelTrace)
	case lvl <= DebugLevel:
		nb.SetLogThreshold(jww.LevelDebug)
		nb.SetStdoutThreshold(jww.LevelDebug)
	case lvl <= WarnLevel:
		nb.SetLogThreshold(jww.LevelWarn)
		nb.SetStdoutThreshold(jww.LevelWarn)
	default:
		nb.SetLogThreshold(jww.LevelError)
		nb.SetStdoutThreshold(jww.LevelError)
	}

	nb.SetLogOutput(w)
	nb.SetStdoutOutput(w)
}
