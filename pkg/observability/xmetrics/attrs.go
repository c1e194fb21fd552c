package xmetrics

// String 创建字符串属性，如 pool、conn_id。
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Int 创建整数属性。
func Int(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

// Int64 创建 int64 属性，如 rows。
func Int64(key string, value int64) Attr {
	return Attr{Key: key, Value: value}
}
