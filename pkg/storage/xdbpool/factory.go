package xdbpool

import "context"

//go:generate mockgen -source=factory.go -destination=mock_factory_test.go -package=xdbpool

// Factory 创建、探活和关闭后端客户端句柄。
//
// Create 返回的句柄在准入连接池前会先经过一次 Probe。
// Close 在连接被淘汰或连接池关闭时调用，需释放句柄持有的网络资源。
// 三个方法都可能被并发调用（作用于不同句柄）。
type Factory[H any] interface {
	Create(ctx context.Context) (H, error)
	Probe(ctx context.Context, h H) error
	Close(ctx context.Context, h H) error
}

// FactoryFuncs 用普通函数实现 Factory。CloseFunc 为 nil 时 Close 为空操作。
type FactoryFuncs[H any] struct {
	CreateFunc func(ctx context.Context) (H, error)
	ProbeFunc  func(ctx context.Context, h H) error
	CloseFunc  func(ctx context.Context, h H) error
}

var _ Factory[any] = FactoryFuncs[any]{}

func (f FactoryFuncs[H]) Create(ctx context.Context) (H, error) {
	return f.CreateFunc(ctx)
}

func (f FactoryFuncs[H]) Probe(ctx context.Context, h H) error {
	if f.ProbeFunc == nil {
		return nil
	}
	return f.ProbeFunc(ctx, h)
}

func (f FactoryFuncs[H]) Close(ctx context.Context, h H) error {
	if f.CloseFunc == nil {
		return nil
	}
	return f.CloseFunc(ctx, h)
}
