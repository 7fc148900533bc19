package require

import (
	"reflect"
	"testing"
)

func Equal(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got `%v`, want `%v`", got, want)
	}
}

func Nil(t *testing.T, got any) {
	t.Helper()
	if !isNil(got) {
		t.Fatalf("got `%v`, want <nil>", got)
	}
}

func NotNil(t *testing.T, got any) {
	t.Helper()
	if isNil(got) {
		t.Fatal("got <nil>, want not <nil>")
	}
}

func PanicWithError(t *testing.T, errMsg string, f func()) {
	t.Helper()

	msg, ok := capturePanic(f)
	if !ok {
		t.Fatal("expected panic")
	}
	if msg != errMsg {
		t.Fatalf("panicked with `%s`, want `%s`", msg, errMsg)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}

	return false
}

func capturePanic(f func()) (msg any, panicked bool) {
	defer func() {
		msg = recover()
	}()

	panicked = true
	f()
	panicked = false

	return
}
