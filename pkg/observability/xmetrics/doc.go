// Package xmetrics 提供统一的观测接口，屏蔽 OpenTelemetry 细节。
//
// xdbpool 的每次托管执行都包裹在一个 [Span] 中：
//
//	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
//		Component: "xdbpool",
//		Operation: name,
//		Kind:      xmetrics.KindClient,
//	})
//	result, err := op(ctx, conn)
//	span.End(xmetrics.Result{Err: err})
//
// 未配置 Observer 时使用 [NoopObserver]，[NewOTelObserver] 接入 OTel。
package xmetrics
