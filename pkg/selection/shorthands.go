package selection

import (
	"context"

	"mifs/pkg/mi"
	"mifs/pkg/strategy"
)

func MIM(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.MIM, opts)
}

func DISR(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.DISR, opts)
}

func JMI(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.JMI, opts)
}

func JMIM(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.JMIM, opts)
}

func NJMIM(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.NJMIM, opts)
}

func MRMR(ctx context.Context, ds mi.Table, features, targets []string, k int, opts Options) (*Result, error) {
	return Forward(ctx, ds, features, targets, k, strategy.MRMR, opts)
}
