package relayer

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// errHarness is raised when the in-process chains report a failed requirement.
var errHarness = errors.New("harness failure")

// harnessFailure is the panic value used to unwind out of the testing harness.
type harnessFailure struct {
	msg string
}

// failFastTB adapts the testing harness to run outside of go test. Failed
// requirements are logged and abort the current step by panicking with a
// harnessFailure, which guard turns back into an error.
//
// Only the methods used by the harness and testify's require are implemented;
// the embedded interface is nil.
type failFastTB struct {
	testing.TB

	logger log.Logger
	msg    string
}

func newFailFastTB(logger log.Logger) *failFastTB {
	return &failFastTB{logger: logger}
}

func (*failFastTB) Helper() {}

func (tb *failFastTB) Name() string { return "ibcsim" }

func (tb *failFastTB) Errorf(format string, args ...interface{}) {
	tb.msg = fmt.Sprintf(format, args...)
	tb.logger.Error("harness requirement failed", "err", tb.msg)
}

func (tb *failFastTB) FailNow() {
	panic(harnessFailure{msg: tb.msg})
}

func (tb *failFastTB) Fatalf(format string, args ...interface{}) {
	tb.Errorf(format, args...)
	tb.FailNow()
}

func (tb *failFastTB) Logf(format string, args ...interface{}) {
	tb.logger.Debug(fmt.Sprintf(format, args...))
}

// guard runs fn and converts harness failures and panics raised by the
// harness helpers into errors.
func guard(step string, fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		switch v := r.(type) {
		case harnessFailure:
			err = errors.Wrapf(errHarness, "%s: %s", step, v.msg)
		case error:
			err = errors.Wrap(v, step)
		default:
			err = errors.Errorf("%s: %v", step, v)
		}
	}()

	return fn()
}
