package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var (
	testCode     = MustNewCode("test.code")
	notFoundCode = MustNewCode("catalog.file_not_found")
)

func TestNew(t *testing.T) {
	err := New(CommonInternal, "test failure", nil)

	if err.Message != "test failure" {
		t.Errorf("Expected message 'test failure', got '%s'", err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}

	if err.Cause != nil {
		t.Error("Expected no cause")
	}

	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}

	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}
}

func TestNewWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := New(testCode, "listing failed", cause)

	if err.Cause != cause {
		t.Error("Expected cause to be set")
	}

	if err.Error() != "listing failed: connection reset" {
		t.Errorf("Unexpected string '%s'", err.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CommonInternal, "page %d is out of range", 7)

	if err.Message != "page 7 is out of range" {
		t.Errorf("Expected formatted message, got '%s'", err.Message)
	}
}

func TestAddContextAndChaining(t *testing.T) {
	err := New(testCode, "test failure", errors.New("cause")).
		AddContext("key1", "value1").
		AddContext("key2", "value2")

	if err.Context["key1"] != "value1" || err.Context["key2"] != "value2" {
		t.Errorf("Unexpected context %v", err.Context)
	}

	if err.Cause == nil || err.Cause.Error() != "cause" {
		t.Error("Expected cause to be set")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	root := errors.New("root")
	coded := New(notFoundCode, "file not found", root)
	outer := fmt.Errorf("handler: %w", coded)

	if !errors.Is(outer, root) {
		t.Error("Expected root to be reachable through the chain")
	}

	if !Is(outer, notFoundCode) {
		t.Error("Expected Is to find the coded error")
	}

	if Is(outer, testCode) {
		t.Error("Expected Is to reject a different code")
	}

	if Is(root, notFoundCode) {
		t.Error("Expected Is to reject an uncoded error")
	}
}

func TestCaptureStackTrace(t *testing.T) {
	err := New(testCode, "test failure", nil)

	if len(err.Stack) == 0 {
		t.Fatal("Expected stack trace to be captured")
	}

	if !strings.Contains(err.Stack[0].Function, "TestCaptureStackTrace") {
		t.Errorf("Expected first frame to be the caller, got '%s'", err.Stack[0].Function)
	}
}

func TestIsCoded(t *testing.T) {
	if !IsCoded(fmt.Errorf("wrapped: %w", New(testCode, "x", nil))) {
		t.Error("Expected wrapped coded error to be detected")
	}

	if IsCoded(errors.New("standard")) {
		t.Error("Expected standard error to not be coded")
	}
}

func TestGetCodeAndContext(t *testing.T) {
	err := New(testCode, "test failure", nil).AddContext("key", "value")

	if GetCode(err) != "test.code" {
		t.Errorf("Expected 'test.code', got '%s'", GetCode(err))
	}

	if GetContext(err)["key"] != "value" {
		t.Error("Expected context to be returned")
	}

	standard := errors.New("standard")
	if GetCode(standard) != "" || GetContext(standard) != nil {
		t.Error("Expected empty results for a standard error")
	}
}

func TestFormatError(t *testing.T) {
	err := New(testCode, "test failure", errors.New("cause")).
		AddContext("b", "2").
		AddContext("a", "1")

	formatted := FormatError(err)
	expected := "Code: test.code\nMessage: test failure\nContext:\n  a: 1\n  b: 2\nCause: cause"
	if formatted != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, formatted)
	}

	if FormatError(errors.New("standard")) != "standard" {
		t.Error("Expected standard error to format as its message")
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("Expected nil for nil input")
	}

	coded := New(notFoundCode, "file not found", nil)
	if AsError(fmt.Errorf("wrap: %w", coded)) != coded {
		t.Error("Expected coded error to be returned as-is")
	}

	converted := AsError(errors.New("plain"))
	if !converted.Code.Equals(CommonInternal) || converted.Message != "plain" {
		t.Errorf("Unexpected conversion %+v", converted)
	}
}
