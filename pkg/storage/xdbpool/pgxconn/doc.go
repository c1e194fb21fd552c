// Package pgxconn 提供 PostgreSQL 的 xdbpool.Factory 实现，句柄类型为 *pgx.Conn。
//
// 默认要求 TLS：sslmode=disable/allow/prefer 会被拒绝，除非设置 AllowInsecure。
// 目标是事务级连接池（主机名首段以 -pooler 结尾，或 ForcePoolerMode）时，
// 连接使用简单协议并关闭语句缓存，避免服务端预处理语句跨事务失效。
//
// 建连错误以 *xdbpool.SafeError 返回，Error() 不含连接串；
// 认证失败等服务端拒绝标记为不可重试，连接池不会继续重试。
//
//	f, err := pgxconn.New(pgxconn.Config{DSN: os.Getenv("DATABASE_URL")})
//	pool, err := xdbpool.New(ctx, f, cfg)
//	tag, err := xdbpool.Execute(ctx, pool, "touch_user",
//	    func(ctx context.Context, c *pgx.Conn) (pgconn.CommandTag, error) {
//	        return c.Exec(ctx, "UPDATE users SET seen_at = now() WHERE id = $1", id)
//	    })
package pgxconn
