package debounce

import (
	"errors"

	"github.com/kode4food/debounce/coalesce"
	"github.com/kode4food/debounce/config"
	"github.com/kode4food/debounce/executor"

	internal "github.com/kode4food/debounce/internal/coalesce"
)

var (
	ErrNilExecutor = errors.New("executor must not be nil")
	ErrNilReducer  = errors.New("reducer must not be nil")
)

// New instantiates a Coalescer in front of the provided Executor. The most
// recently submitted payload of each batch is the one forwarded downstream
func New[Req, Res any](
	exec executor.Executor[Req, Res], o ...config.Option,
) (coalesce.Coalescer[Req, Res], error) {
	return NewMerging(exec, coalesce.Replace[Req], o...)
}

// NewMerging instantiates a Coalescer that combines the payloads of each
// batch using the provided Reducer, rather than keeping only the last one
func NewMerging[Req, Res any](
	exec executor.Executor[Req, Res], merge coalesce.Reducer[Req],
	o ...config.Option,
) (coalesce.Coalescer[Req, Res], error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	if merge == nil {
		return nil, ErrNilReducer
	}
	cfg := &config.Config{}
	o = append([]config.Option{config.Defaults}, o...)
	if err := config.Apply(cfg, o...); err != nil {
		return nil, err
	}
	return internal.Make(exec, merge, cfg), nil
}
