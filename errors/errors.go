/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors provides a CodeError taxonomy and an Error interface that
// carries a numeric code plus an optional parent chain, so that boundary
// functions can convert any internal failure into a stable return code
// instead of letting a panic or a bare error cross a goroutine boundary.
package errors

import (
	"errors"
	"fmt"
)

// CodeError is a small numeric classification of failures, following the
// negative-code convention spec.md §7 uses for add_periodic/remove_periodic.
type CodeError int32

const (
	UnknownError CodeError = 0

	ErrConfigUnsupported     CodeError = 100
	ErrSocketBindFailed      CodeError = 101
	ErrSocketConnectFailed   CodeError = 102
	ErrSocketSendShort       CodeError = 103
	ErrSocketRecvError       CodeError = 104
	ErrRoutingNoSubscriber   CodeError = 105
	ErrCapacityMaxConns      CodeError = 106
	ErrEngineNotInitialized  CodeError = 107
	ErrEngineAlreadyShutdown CodeError = 108

	ErrPeriodicInvalidRate      CodeError = -1
	ErrPeriodicInvalidData      CodeError = -2
	ErrPeriodicInvalidAddress   CodeError = -3
	ErrPeriodicInvalidGenerator CodeError = -4
	ErrPeriodicDuplicateID      CodeError = -5
	ErrPeriodicCreateFailed     CodeError = -6
	ErrPeriodicThreadFailed     CodeError = -7

	ErrPeriodicNotFound CodeError = -1
)

var messages = map[CodeError]string{
	ErrConfigUnsupported:        "unsupported or invalid configuration",
	ErrSocketBindFailed:         "socket bind failed",
	ErrSocketConnectFailed:      "socket connect failed",
	ErrSocketSendShort:          "short send: fewer bytes sent than requested",
	ErrSocketRecvError:          "receive error",
	ErrRoutingNoSubscriber:      "no subscriber matched the received message",
	ErrCapacityMaxConns:         "maximum connection count reached",
	ErrEngineNotInitialized:     "engine is not initialized",
	ErrEngineAlreadyShutdown:    "engine is shut down",
	ErrPeriodicInvalidRate:      "invalid rate: must be in [1, 1000] Hz",
	ErrPeriodicInvalidData:      "invalid payload: must be non-empty",
	ErrPeriodicInvalidAddress:   "invalid destination address or port",
	ErrPeriodicInvalidGenerator: "invalid payload generator",
	ErrPeriodicDuplicateID:      "duplicate periodic task id",
	ErrPeriodicCreateFailed:     "failed to create periodic task",
	ErrPeriodicThreadFailed:     "failed to start periodic task worker",
}

// Message returns the registered human-readable text for c, or a generic
// fallback if c is not registered.
func (c CodeError) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error"
}

func (c CodeError) String() string {
	return fmt.Sprintf("%d", int32(c))
}

// Error returns a new Error carrying this code, the registered message and
// the given parents.
func (c CodeError) Error(parent ...error) Error {
	return newError(c, c.Message(), parent...)
}

// Errorf is like Error but formats the message with args.
func (c CodeError) Errorf(pattern string, args ...any) Error {
	return newError(c, fmt.Sprintf(pattern, args...), nil)
}

// Error is a minimal error-with-code-and-parents interface; it is kept
// deliberately small compared to the teacher's full errors package
// (pattern matching, gin binding, return-shape helpers) since none of
// those facilities are exercised anywhere in this module.
type Error interface {
	error

	// Code returns the numeric classification of this error.
	Code() CodeError

	// IsCode reports whether this error's own code equals c.
	IsCode(c CodeError) bool

	// HasCode reports whether this error or any parent has code c.
	HasCode(c CodeError) bool

	// Add appends non-nil parents to this error's chain.
	Add(parent ...error)

	// GetParent returns the direct parent chain.
	GetParent() []error

	// Unwrap supports errors.Is/errors.As over the parent chain.
	Unwrap() []error
}

type ers struct {
	code   CodeError
	msg    string
	parent []error
}

func newError(code CodeError, msg string, parent ...error) Error {
	p := make([]error, 0, len(parent))
	for _, e := range parent {
		if e != nil {
			p = append(p, e)
		}
	}
	return &ers{code: code, msg: msg, parent: p}
}

// New builds a plain Error with code and message.
func New(code CodeError, msg string, parent ...error) Error {
	return newError(code, msg, parent...)
}

func (e *ers) Error() string {
	if len(e.parent) == 0 {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.parent[0].Error())
}

func (e *ers) Code() CodeError { return e.code }

func (e *ers) IsCode(c CodeError) bool { return e.code == c }

func (e *ers) HasCode(c CodeError) bool {
	if e.code == c {
		return true
	}
	for _, p := range e.parent {
		if Has(p, c) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.parent = append(e.parent, p)
		}
	}
}

func (e *ers) GetParent() []error { return e.parent }

func (e *ers) Unwrap() []error { return e.parent }

// Is reports whether e is (or wraps, via errors.As) an Error.
func Is(e error) bool {
	var target Error
	return errors.As(e, &target)
}

// Get returns e as an Error if it is one, nil otherwise.
func Get(e error) Error {
	var target Error
	if errors.As(e, &target) {
		return target
	}
	return nil
}

// Has reports whether e carries code c anywhere in its chain.
func Has(e error, c CodeError) bool {
	if err := Get(e); err != nil {
		return err.HasCode(c)
	}
	return false
}

// Make wraps a plain error as an Error with UnknownError code, or returns
// it unchanged if it already is one.
func Make(e error) Error {
	if e == nil {
		return nil
	}
	if err := Get(e); err != nil {
		return err
	}
	return newError(UnknownError, e.Error())
}
