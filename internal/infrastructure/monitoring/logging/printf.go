package logging

import "fmt"

// PrintfAdapter exposes a Logger through the Debugf/Infof/Errorf methods
// expected by the taxonomy SDK client.
type PrintfAdapter struct {
	l Logger
}

// NewPrintfAdapter wraps l.  A nil l discards everything.
func NewPrintfAdapter(l Logger) *PrintfAdapter {
	if l == nil {
		l = NewNopLogger()
	}
	return &PrintfAdapter{l: l}
}

func (a *PrintfAdapter) Debugf(format string, args ...interface{}) {
	a.l.Debug(fmt.Sprintf(format, args...))
}

func (a *PrintfAdapter) Infof(format string, args ...interface{}) {
	a.l.Info(fmt.Sprintf(format, args...))
}

func (a *PrintfAdapter) Errorf(format string, args ...interface{}) {
	a.l.Error(fmt.Sprintf(format, args...))
}

//Personal.AI order the ending
