package tracking

import (
	"time"

	"github.com/getsentry/sentry-go"
)

type Options struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// Init 初始化 Sentry；DSN 为空时不启用，返回的 flush 可直接 defer
func Init(o Options) (flush func(), err error) {
	if o.DSN == "" {
		return func() {}, nil
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              o.DSN,
		Environment:      o.Environment,
		Release:          o.Release,
		EnableTracing:    o.SampleRate > 0,
		TracesSampleRate: o.SampleRate,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError 未初始化时 sentry 内部是 no-op
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
